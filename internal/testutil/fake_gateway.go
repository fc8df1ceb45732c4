// Package testutil provides an in-memory PersistenceGateway for tests that
// exercise the dispatcher and session loop without a database.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/an2938/retail-shop/internal/core/domain"
)

type FakeGateway struct {
	mu        sync.Mutex
	Items     map[int]domain.Item
	Customers map[int]domain.Customer
	Suppliers map[int]domain.Supplier
	Orders    map[int]domain.Order
	Lines     map[[2]int]domain.OrderLine
	Purchases []string
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Items:     make(map[int]domain.Item),
		Customers: make(map[int]domain.Customer),
		Suppliers: make(map[int]domain.Supplier),
		Orders:    make(map[int]domain.Order),
		Lines:     make(map[[2]int]domain.OrderLine),
	}
}

func (g *FakeGateway) QueryItemByID(ctx context.Context, id int) (*domain.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	it, ok := g.Items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (g *FakeGateway) QueryItemsByDescription(ctx context.Context, substring string) ([]domain.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.Item{}
	for _, it := range g.Items {
		if strings.Contains(it.Description, substring) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (g *FakeGateway) QueryAllItems(ctx context.Context) ([]domain.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.Item{}
	for _, it := range g.Items {
		out = append(out, it)
	}
	return out, nil
}

func (g *FakeGateway) InsertItem(ctx context.Context, it domain.Item) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Items[it.ID] = it
	return nil
}

func (g *FakeGateway) UpdateItemQuantity(ctx context.Context, id, quantity int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	it := g.Items[id]
	it.Quantity = quantity
	g.Items[id] = it
	return nil
}

func (g *FakeGateway) QueryCustomerByID(ctx context.Context, id int) (*domain.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.Customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (g *FakeGateway) QueryCustomersByLastName(ctx context.Context, lastName string) ([]domain.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.Customer{}
	for _, c := range g.Customers {
		if c.LastName == lastName {
			out = append(out, c)
		}
	}
	return out, nil
}

func (g *FakeGateway) QueryCustomersByType(ctx context.Context, t domain.CustomerType) ([]domain.Customer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []domain.Customer{}
	for _, c := range g.Customers {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out, nil
}

func (g *FakeGateway) InsertCustomer(ctx context.Context, c domain.Customer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Customers[c.ID] = c
	return nil
}

func (g *FakeGateway) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Customers[c.ID] = c
	return nil
}

func (g *FakeGateway) RemoveCustomer(ctx context.Context, id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.Customers, id)
	return nil
}

func (g *FakeGateway) QueryOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.Orders[orderID]
	if !ok {
		return nil, nil
	}
	o.Lines = nil
	for key, l := range g.Lines {
		if key[1] == orderID {
			o.Lines = append(o.Lines, l)
		}
	}
	return &o, nil
}

func (g *FakeGateway) InsertOrder(ctx context.Context, o domain.Order) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.Orders[o.ID]; !ok {
		g.Orders[o.ID] = o
	}
	return nil
}

func (g *FakeGateway) QueryOrderLine(ctx context.Context, itemID, orderID int) (*domain.OrderLine, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.Lines[[2]int{itemID, orderID}]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (g *FakeGateway) InsertOrderLine(ctx context.Context, l domain.OrderLine, orderID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := [2]int{l.ItemID, orderID}
	if existing, ok := g.Lines[key]; ok {
		existing.Quantity += l.Quantity
		g.Lines[key] = existing
		return nil
	}
	g.Lines[key] = l
	return nil
}

func (g *FakeGateway) UpdateOrderLine(ctx context.Context, l domain.OrderLine, newQuantity, orderID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := [2]int{l.ItemID, orderID}
	existing := g.Lines[key]
	existing.ItemID = l.ItemID
	existing.Quantity = newQuantity
	g.Lines[key] = existing
	return nil
}

func (g *FakeGateway) QuerySupplier(ctx context.Context, id int) (*domain.Supplier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.Suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (g *FakeGateway) InsertSupplier(ctx context.Context, s domain.Supplier) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Suppliers[s.ID] = s
	return nil
}

func (g *FakeGateway) InsertPurchaseRecord(ctx context.Context, purchaseID string, itemID, customerID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Purchases = append(g.Purchases, purchaseID)
	return nil
}
