package protocol

import (
	"github.com/an2938/retail-shop/internal/core/domain"
)

// PurchaseRequest is the payload of a PURCHASE envelope. RequestID is an
// optional client-chosen id; the server refuses a replayed one.
type PurchaseRequest struct {
	RequestID  string `json:"request_id,omitempty"`
	ItemID     int    `json:"item_id"`
	Quantity   int    `json:"quantity"`
	CustomerID int    `json:"customer_id"`
}

// Envelope is the wire message. Command and Entity say which of the typed
// payload fields are meaningful; all fields not named by that pair stay nil.
// Requests carry at most one of Customer, Item, Purchase; responses carry
// the result slices or the order printout.
type Envelope struct {
	Command Command    `json:"command"`
	Entity  EntityType `json:"entity,omitempty"`

	Customer *domain.Customer `json:"customer,omitempty"`
	Item     *domain.Item     `json:"item,omitempty"`
	Purchase *PurchaseRequest `json:"purchase,omitempty"`

	Customers []domain.Customer `json:"customers,omitempty"`
	Items     []domain.Item     `json:"items,omitempty"`
	OrderText string            `json:"order_text,omitempty"`
}

// Reset clears the payload between logical steps of one request so stale
// fields never leak into the next envelope built on the same value.
func (e *Envelope) Reset() {
	*e = Envelope{}
}

// Response builds a payload-free response envelope.
func Response(cmd Command, entity EntityType) Envelope {
	return Envelope{Command: cmd, Entity: entity}
}
