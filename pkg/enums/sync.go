package enums

import "fmt"

// SyncItemType distinguishes which collection a queued mutation belongs to.
type SyncItemType string

const (
	SyncItemTypeProduct SyncItemType = "product"
	SyncItemTypeHistory SyncItemType = "history"
)

var validSyncItemTypes = []SyncItemType{
	SyncItemTypeProduct,
	SyncItemTypeHistory,
}

// IsValid reports whether the value matches a canonical sync item type.
func (t SyncItemType) IsValid() bool {
	for _, candidate := range validSyncItemTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// SyncAction names the mutation kind a queued item replays.
type SyncAction string

const (
	SyncActionAdd    SyncAction = "add"
	SyncActionUpdate SyncAction = "update"
	SyncActionDelete SyncAction = "delete"
)

var validSyncActions = []SyncAction{
	SyncActionAdd,
	SyncActionUpdate,
	SyncActionDelete,
}

// IsValid reports whether the value matches a canonical sync action.
func (a SyncAction) IsValid() bool {
	for _, candidate := range validSyncActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseSyncAction converts raw input into SyncAction.
func ParseSyncAction(value string) (SyncAction, error) {
	for _, candidate := range validSyncActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sync action %q", value)
}
