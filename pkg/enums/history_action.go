package enums

import "fmt"

// HistoryAction classifies a recorded inventory mutation.
type HistoryAction string

const (
	HistoryActionAdd     HistoryAction = "add"
	HistoryActionRemove  HistoryAction = "remove"
	HistoryActionUpdate  HistoryAction = "update"
	HistoryActionSold    HistoryAction = "sold"
	HistoryActionDamaged HistoryAction = "damaged"
)

var validHistoryActions = []HistoryAction{
	HistoryActionAdd,
	HistoryActionRemove,
	HistoryActionUpdate,
	HistoryActionSold,
	HistoryActionDamaged,
}

// IsValid reports whether the value matches a canonical history action.
func (a HistoryAction) IsValid() bool {
	for _, candidate := range validHistoryActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseHistoryAction converts raw input into HistoryAction.
func ParseHistoryAction(value string) (HistoryAction, error) {
	for _, candidate := range validHistoryActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid history action %q", value)
}
