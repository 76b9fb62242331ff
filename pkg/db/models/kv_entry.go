package models

import "time"

// KVEntry is one string-keyed snapshot row in the local database. The store
// keeps the whole products, history, and pending-sync collections as three
// independent JSON documents, matching the app's original storage layout.
type KVEntry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the snapshot table name.
func (KVEntry) TableName() string {
	return "kv_entries"
}
