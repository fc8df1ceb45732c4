package domain

// ReorderThreshold is the stock level below which an item is added to the
// day's consolidated supplier order.
const ReorderThreshold = 40

type Item struct {
	ID          int     `json:"id"`
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	SupplierID  int     `json:"supplier_id"`
}

// Shortfall is how far the item sits below the reorder threshold, zero when
// stock is at or above it.
func (i Item) Shortfall() int {
	if i.Quantity >= ReorderThreshold {
		return 0
	}
	return ReorderThreshold - i.Quantity
}

type Supplier struct {
	ID           int     `json:"id"`
	Kind         string  `json:"kind"`
	CompanyName  string  `json:"company_name"`
	Address      string  `json:"address"`
	SalesContact string  `json:"sales_contact"`
	ImportTax    float64 `json:"import_tax,omitempty"`
}
