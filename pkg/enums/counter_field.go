package enums

import "fmt"

// CounterField names one of the three independently mutable product counters.
type CounterField string

const (
	CounterFieldSoldIn  CounterField = "soldIn"
	CounterFieldSoldOut CounterField = "soldOut"
	CounterFieldDamaged CounterField = "damaged"
)

var validCounterFields = []CounterField{
	CounterFieldSoldIn,
	CounterFieldSoldOut,
	CounterFieldDamaged,
}

// IsValid reports whether the value names a mutable counter.
func (f CounterField) IsValid() bool {
	for _, candidate := range validCounterFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseCounterField converts raw input into CounterField.
func ParseCounterField(value string) (CounterField, error) {
	for _, candidate := range validCounterFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid counter field %q", value)
}

// IncrementAction maps a counter to the history action an increment records.
// Receiving stock is recorded as an add, matching the app's original ledger.
func (f CounterField) IncrementAction() HistoryAction {
	switch f {
	case CounterFieldSoldOut:
		return HistoryActionSold
	case CounterFieldDamaged:
		return HistoryActionDamaged
	default:
		return HistoryActionAdd
	}
}
