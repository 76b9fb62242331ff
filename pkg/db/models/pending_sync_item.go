package models

import (
	"encoding/json"
	"time"

	"github.com/invenx-app/invenx-backend/pkg/enums"
)

// PendingSyncItem is one queued mutation awaiting reconciliation with a
// remote system. Data carries a full snapshot of the affected entity, or just
// its id for deletes. Items are never deduplicated or compacted.
type PendingSyncItem struct {
	Type      enums.SyncItemType `json:"type"`
	Action    enums.SyncAction   `json:"action"`
	Data      json.RawMessage    `json:"data"`
	Timestamp time.Time          `json:"timestamp"`
}
