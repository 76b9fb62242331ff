package models

// User is the opaque handle returned by the identity provider. It exists only
// to attribute history entries; authentication lives outside this process.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
