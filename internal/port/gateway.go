package port

import (
	"context"

	"github.com/an2938/retail-shop/internal/core/domain"
)

// PersistenceGateway is the record store behind the shop. Single-entity
// lookups return (nil, nil) when no record matches; collection queries return
// an empty slice.
type PersistenceGateway interface {
	QueryItemByID(ctx context.Context, id int) (*domain.Item, error)
	QueryItemsByDescription(ctx context.Context, substring string) ([]domain.Item, error)
	QueryAllItems(ctx context.Context) ([]domain.Item, error)
	InsertItem(ctx context.Context, item domain.Item) error
	UpdateItemQuantity(ctx context.Context, id, quantity int) error

	QueryCustomerByID(ctx context.Context, id int) (*domain.Customer, error)
	QueryCustomersByLastName(ctx context.Context, lastName string) ([]domain.Customer, error)
	QueryCustomersByType(ctx context.Context, t domain.CustomerType) ([]domain.Customer, error)
	InsertCustomer(ctx context.Context, c domain.Customer) error
	UpdateCustomer(ctx context.Context, c domain.Customer) error
	RemoveCustomer(ctx context.Context, id int) error

	// QueryOrder returns the order with its lines populated.
	QueryOrder(ctx context.Context, orderID int) (*domain.Order, error)
	// InsertOrder is a conditional insert: creating an order that already
	// exists is not an error.
	InsertOrder(ctx context.Context, order domain.Order) error
	QueryOrderLine(ctx context.Context, itemID, orderID int) (*domain.OrderLine, error)
	InsertOrderLine(ctx context.Context, line domain.OrderLine, orderID int) error
	UpdateOrderLine(ctx context.Context, line domain.OrderLine, newQuantity, orderID int) error

	QuerySupplier(ctx context.Context, id int) (*domain.Supplier, error)
	InsertSupplier(ctx context.Context, s domain.Supplier) error

	InsertPurchaseRecord(ctx context.Context, purchaseID string, itemID, customerID int) error
}
