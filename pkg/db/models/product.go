package models

import "time"

// Product is a tracked inventory item. Available is always derived from the
// three counters and never set independently; it may go negative because no
// invariant clamps it.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Barcode       string    `json:"barcode"`
	Category      string    `json:"category,omitempty"`
	SoldIn        int       `json:"soldIn"`
	SoldOut       int       `json:"soldOut"`
	Damaged       int       `json:"damaged"`
	LowStockLimit int       `json:"lowStockLimit"`
	Available     int       `json:"available"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsLowStock reports whether the derived quantity has fallen to or below the
// configured threshold. A zero threshold disables the signal.
func (p Product) IsLowStock() bool {
	return p.LowStockLimit > 0 && p.Available <= p.LowStockLimit
}
