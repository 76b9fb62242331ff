package models

import (
	"time"

	"github.com/invenx-app/invenx-backend/pkg/enums"
)

// HistoryEntry records a single inventory mutation. ProductName is a snapshot
// taken at mutation time, not re-derived later; entries survive the deletion
// of the product they reference.
type HistoryEntry struct {
	ID          string              `json:"id"`
	ProductID   string              `json:"productId"`
	ProductName string              `json:"productName"`
	Action      enums.HistoryAction `json:"action"`
	Quantity    int                 `json:"quantity"`
	Timestamp   time.Time           `json:"timestamp"`
	User        string              `json:"user"`
}
