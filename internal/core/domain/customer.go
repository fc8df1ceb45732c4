package domain

type CustomerType string

const (
	CustomerResidential CustomerType = "R"
	CustomerCommercial  CustomerType = "C"
)

type Customer struct {
	ID         int          `json:"id"`
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Address    string       `json:"address"`
	PostalCode string       `json:"postal_code"`
	Phone      string       `json:"phone"`
	Type       CustomerType `json:"type"`
}
