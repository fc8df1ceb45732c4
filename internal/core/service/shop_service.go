package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/an2938/retail-shop/internal/core/domain"
	"github.com/an2938/retail-shop/internal/port"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnknownCustomer   = errors.New("unknown customer")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrDuplicateRequest  = errors.New("duplicate request")
)

// ShopService runs the purchase transaction and the customer/item/order
// operations behind the command dispatcher. One instance is shared by every
// client connection.
type ShopService struct {
	gateway port.PersistenceGateway
	stock   port.StockStore
	idem    port.IdempotencyStore // nil disables the replay guard

	// orderMu serializes the find-or-create of the daily order and its
	// lines, so two first-purchases-of-the-day can't both insert an order.
	orderMu sync.Mutex

	// itemLocks serializes decrement-through-consolidation per item, so
	// same-item purchases fold into the order line in decrement order.
	itemMu    sync.Mutex
	itemLocks map[int]*sync.Mutex

	now func() time.Time
}

func NewShopService(gateway port.PersistenceGateway, stock port.StockStore, idem port.IdempotencyStore) *ShopService {
	return &ShopService{
		gateway:   gateway,
		stock:     stock,
		idem:      idem,
		itemLocks: make(map[int]*sync.Mutex),
		now:       time.Now,
	}
}

func (s *ShopService) itemLock(itemID int) *sync.Mutex {
	s.itemMu.Lock()
	defer s.itemMu.Unlock()
	l, ok := s.itemLocks[itemID]
	if !ok {
		l = &sync.Mutex{}
		s.itemLocks[itemID] = l
	}
	return l
}

// LoadStock seeds the stock store from every item record in persistence.
// Called once at startup before connections are accepted.
func (s *ShopService) LoadStock(ctx context.Context) (int, error) {
	items, err := s.gateway.QueryAllItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("query items: %w", err)
	}
	for _, it := range items {
		if err := s.stock.SetStock(ctx, it.ID, it.Quantity); err != nil {
			return 0, fmt.Errorf("seed stock for item %d: %w", it.ID, err)
		}
	}
	return len(items), nil
}

// Purchase executes one purchase transaction: resolve the item, verify the
// customer, claim the request id, decrement stock, persist the new quantity,
// fold the item into today's order if it fell below the reorder threshold,
// and record the purchase. The first failing step aborts with nothing from
// later steps persisted.
func (s *ShopService) Purchase(ctx context.Context, requestID string, itemID, quantity, customerID int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	item, err := s.gateway.QueryItemByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("query item %d: %w", itemID, err)
	}
	if item == nil {
		return ErrNotFound
	}

	// Customer is verified before any stock mutation so a refused purchase
	// never leaves the count reduced.
	customer, err := s.gateway.QueryCustomerByID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("query customer %d: %w", customerID, err)
	}
	if customer == nil {
		return ErrUnknownCustomer
	}

	if s.idem != nil && requestID != "" {
		ok, err := s.idem.SetIdempotency(ctx, "purchase:"+requestID)
		if err != nil {
			return fmt.Errorf("idempotency check: %w", err)
		}
		if !ok {
			return ErrDuplicateRequest
		}
	}

	// Lock the item across decrement, quantity persistence, and order
	// consolidation: a later purchase must not fold into the order line
	// before an earlier decrement's consolidation has run.
	lock := s.itemLock(itemID)
	lock.Lock()
	defer lock.Unlock()

	remaining, ok, err := s.stock.Decrement(ctx, itemID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if !ok {
		return ErrInsufficientStock
	}

	if err := s.gateway.UpdateItemQuantity(ctx, itemID, remaining); err != nil {
		if rbErr := s.stock.Restock(ctx, itemID, quantity); rbErr != nil {
			return fmt.Errorf("persist quantity: %v (restock failed: %w)", err, rbErr)
		}
		return fmt.Errorf("persist quantity: %w", err)
	}

	item.Quantity = remaining
	if err := s.consolidateOrder(ctx, *item, quantity); err != nil {
		return fmt.Errorf("consolidate order: %w", err)
	}

	if err := s.gateway.InsertPurchaseRecord(ctx, requestID, itemID, customerID); err != nil {
		return fmt.Errorf("record purchase: %w", err)
	}
	return nil
}

// consolidateOrder merges an under-stocked item into today's order. The item
// carries its post-decrement quantity. A first shortfall of the day creates
// the order; a first shortfall of the item creates its line with the full
// gap to the threshold; repeats add the purchased quantity to that line.
func (s *ShopService) consolidateOrder(ctx context.Context, item domain.Item, purchased int) error {
	if item.Quantity >= domain.ReorderThreshold {
		return nil
	}

	s.orderMu.Lock()
	defer s.orderMu.Unlock()

	orderID := DailyOrderID(s.now())
	order, err := s.gateway.QueryOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("query order %d: %w", orderID, err)
	}
	if order == nil {
		o := domain.Order{ID: orderID, Date: s.now().UTC().Truncate(24 * time.Hour)}
		if err := s.gateway.InsertOrder(ctx, o); err != nil {
			return fmt.Errorf("insert order %d: %w", orderID, err)
		}
	}

	line, err := s.gateway.QueryOrderLine(ctx, item.ID, orderID)
	if err != nil {
		return fmt.Errorf("query order line (%d,%d): %w", item.ID, orderID, err)
	}
	if line == nil {
		supplier, err := s.gateway.QuerySupplier(ctx, item.SupplierID)
		if err != nil {
			return fmt.Errorf("query supplier %d: %w", item.SupplierID, err)
		}
		supplierName := ""
		if supplier != nil {
			supplierName = supplier.CompanyName
		}
		newLine := domain.OrderLine{
			ItemID:       item.ID,
			Quantity:     item.Shortfall(),
			SupplierName: supplierName,
		}
		if err := s.gateway.InsertOrderLine(ctx, newLine, orderID); err != nil {
			return fmt.Errorf("insert order line (%d,%d): %w", item.ID, orderID, err)
		}
		return nil
	}

	if err := s.gateway.UpdateOrderLine(ctx, *line, line.Quantity+purchased, orderID); err != nil {
		return fmt.Errorf("update order line (%d,%d): %w", item.ID, orderID, err)
	}
	return nil
}

// SaveCustomer inserts a new customer or updates the existing record with
// the same id.
func (s *ShopService) SaveCustomer(ctx context.Context, c domain.Customer) error {
	existing, err := s.gateway.QueryCustomerByID(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("query customer %d: %w", c.ID, err)
	}
	if existing == nil {
		return s.gateway.InsertCustomer(ctx, c)
	}
	return s.gateway.UpdateCustomer(ctx, c)
}

func (s *ShopService) RemoveCustomer(ctx context.Context, id int) error {
	existing, err := s.gateway.QueryCustomerByID(ctx, id)
	if err != nil {
		return fmt.Errorf("query customer %d: %w", id, err)
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.gateway.RemoveCustomer(ctx, id)
}

func (s *ShopService) CustomerByID(ctx context.Context, id int) (*domain.Customer, error) {
	return s.gateway.QueryCustomerByID(ctx, id)
}

func (s *ShopService) CustomersByLastName(ctx context.Context, lastName string) ([]domain.Customer, error) {
	return s.gateway.QueryCustomersByLastName(ctx, lastName)
}

func (s *ShopService) CustomersByType(ctx context.Context, t domain.CustomerType) ([]domain.Customer, error) {
	return s.gateway.QueryCustomersByType(ctx, t)
}

func (s *ShopService) ItemByID(ctx context.Context, id int) (*domain.Item, error) {
	return s.gateway.QueryItemByID(ctx, id)
}

func (s *ShopService) ItemsByDescription(ctx context.Context, substring string) ([]domain.Item, error) {
	return s.gateway.QueryItemsByDescription(ctx, substring)
}

func (s *ShopService) AllItems(ctx context.Context) ([]domain.Item, error) {
	return s.gateway.QueryAllItems(ctx)
}

// DailyOrderPrintout renders today's consolidated order, ErrNotFound when no
// purchase has opened one yet.
func (s *ShopService) DailyOrderPrintout(ctx context.Context) (string, error) {
	orderID := DailyOrderID(s.now())
	order, err := s.gateway.QueryOrder(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("query order %d: %w", orderID, err)
	}
	if order == nil {
		return "", ErrNotFound
	}
	return order.Printout(), nil
}
