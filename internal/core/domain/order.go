package domain

import (
	"fmt"
	"strings"
	"time"
)

// Order is the single consolidated supplier order for one calendar day. Its
// ID is derived from the date, so looking up today's ID either finds the
// existing order or signals that none has been opened yet.
type Order struct {
	ID    int         `json:"id"`
	Date  time.Time   `json:"date"`
	Lines []OrderLine `json:"lines,omitempty"`
}

// OrderLine is one item's reorder entry within a daily order, identified by
// (ItemID, order ID). Quantities accumulate across same-day purchases.
type OrderLine struct {
	ItemID       int    `json:"item_id"`
	Quantity     int    `json:"quantity"`
	SupplierName string `json:"supplier_name"`
}

// Printout renders the order and its lines for client display.
func (o Order) Printout() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ORDER ID: %05d\nDATE: %s\n", o.ID, o.Date.Format("2006-01-02"))
	for _, l := range o.Lines {
		fmt.Fprintf(&b, "ITEM: %d QTY: %d SUPPLIER: %s\n", l.ItemID, l.Quantity, l.SupplierName)
	}
	return b.String()
}
