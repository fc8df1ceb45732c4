package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/an2938/retail-shop/internal/core/domain"
)

// MySQLAdapter implements port.PersistenceGateway on the shop schema:
// items, customers, orders, order_lines, suppliers, purchases.
type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) QueryItemByID(ctx context.Context, id int) (*domain.Item, error) {
	var it domain.Item
	err := m.db.QueryRowContext(ctx, `
		SELECT id, kind, description, quantity, price, supplier_id
		FROM items WHERE id = ?`, id,
	).Scan(&it.ID, &it.Kind, &it.Description, &it.Quantity, &it.Price, &it.SupplierID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &it, nil
}

func (m *MySQLAdapter) QueryItemsByDescription(ctx context.Context, substring string) ([]domain.Item, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, kind, description, quantity, price, supplier_id
		FROM items WHERE description LIKE CONCAT('%', ?, '%')`, substring)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return scanItems(rows)
}

func (m *MySQLAdapter) QueryAllItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, kind, description, quantity, price, supplier_id FROM items`)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]domain.Item, error) {
	defer rows.Close()
	items := []domain.Item{}
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Kind, &it.Description, &it.Quantity, &it.Price, &it.SupplierID); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (m *MySQLAdapter) InsertItem(ctx context.Context, it domain.Item) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO items (id, kind, description, quantity, price, supplier_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE kind = VALUES(kind), description = VALUES(description),
			quantity = VALUES(quantity), price = VALUES(price), supplier_id = VALUES(supplier_id)`,
		it.ID, it.Kind, it.Description, it.Quantity, it.Price, it.SupplierID)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateItemQuantity(ctx context.Context, id, quantity int) error {
	_, err := m.db.ExecContext(ctx,
		`UPDATE items SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) QueryCustomerByID(ctx context.Context, id int) (*domain.Customer, error) {
	var c domain.Customer
	err := m.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, address, postal_code, phone, type
		FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.FirstName, &c.LastName, &c.Address, &c.PostalCode, &c.Phone, &c.Type)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query customer: %w", err)
	}
	return &c, nil
}

func (m *MySQLAdapter) QueryCustomersByLastName(ctx context.Context, lastName string) ([]domain.Customer, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, address, postal_code, phone, type
		FROM customers WHERE last_name = ?`, lastName)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	return scanCustomers(rows)
}

func (m *MySQLAdapter) QueryCustomersByType(ctx context.Context, t domain.CustomerType) ([]domain.Customer, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, address, postal_code, phone, type
		FROM customers WHERE type = ?`, string(t))
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	return scanCustomers(rows)
}

func scanCustomers(rows *sql.Rows) ([]domain.Customer, error) {
	defer rows.Close()
	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Address, &c.PostalCode, &c.Phone, &c.Type); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (m *MySQLAdapter) InsertCustomer(ctx context.Context, c domain.Customer) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO customers (id, first_name, last_name, address, postal_code, phone, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.FirstName, c.LastName, c.Address, c.PostalCode, c.Phone, string(c.Type))
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateCustomer(ctx context.Context, c domain.Customer) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE customers
		SET first_name = ?, last_name = ?, address = ?, postal_code = ?, phone = ?, type = ?
		WHERE id = ?`,
		c.FirstName, c.LastName, c.Address, c.PostalCode, c.Phone, string(c.Type), c.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) RemoveCustomer(ctx context.Context, id int) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("remove customer: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) QueryOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	var o domain.Order
	err := m.db.QueryRowContext(ctx,
		`SELECT id, order_date FROM orders WHERE id = ?`, orderID,
	).Scan(&o.ID, &o.Date)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT item_id, quantity, supplier_name
		FROM order_lines WHERE order_id = ? ORDER BY item_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ItemID, &l.Quantity, &l.SupplierName); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// InsertOrder is conditional: a second insert of the same day's order is a
// no-op, so two racing first-purchases can't create duplicates.
func (m *MySQLAdapter) InsertOrder(ctx context.Context, o domain.Order) error {
	_, err := m.db.ExecContext(ctx,
		`INSERT IGNORE INTO orders (id, order_date) VALUES (?, ?)`,
		o.ID, o.Date)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) QueryOrderLine(ctx context.Context, itemID, orderID int) (*domain.OrderLine, error) {
	var l domain.OrderLine
	err := m.db.QueryRowContext(ctx, `
		SELECT item_id, quantity, supplier_name
		FROM order_lines WHERE item_id = ? AND order_id = ?`, itemID, orderID,
	).Scan(&l.ItemID, &l.Quantity, &l.SupplierName)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query order line: %w", err)
	}
	return &l, nil
}

// InsertOrderLine upserts: if a racing purchase already created the line for
// this (item, order), the quantities merge additively instead of erroring.
func (m *MySQLAdapter) InsertOrderLine(ctx context.Context, l domain.OrderLine, orderID int) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO order_lines (item_id, order_id, quantity, supplier_name)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		l.ItemID, orderID, l.Quantity, l.SupplierName)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) UpdateOrderLine(ctx context.Context, l domain.OrderLine, newQuantity, orderID int) error {
	_, err := m.db.ExecContext(ctx, `
		UPDATE order_lines SET quantity = ? WHERE item_id = ? AND order_id = ?`,
		newQuantity, l.ItemID, orderID)
	if err != nil {
		return fmt.Errorf("update order line: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) QuerySupplier(ctx context.Context, id int) (*domain.Supplier, error) {
	var s domain.Supplier
	err := m.db.QueryRowContext(ctx, `
		SELECT id, kind, company_name, address, sales_contact, import_tax
		FROM suppliers WHERE id = ?`, id,
	).Scan(&s.ID, &s.Kind, &s.CompanyName, &s.Address, &s.SalesContact, &s.ImportTax)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query supplier: %w", err)
	}
	return &s, nil
}

func (m *MySQLAdapter) InsertSupplier(ctx context.Context, s domain.Supplier) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, kind, company_name, address, sales_contact, import_tax)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE kind = VALUES(kind), company_name = VALUES(company_name),
			address = VALUES(address), sales_contact = VALUES(sales_contact), import_tax = VALUES(import_tax)`,
		s.ID, s.Kind, s.CompanyName, s.Address, s.SalesContact, s.ImportTax)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) InsertPurchaseRecord(ctx context.Context, purchaseID string, itemID, customerID int) error {
	if purchaseID == "" {
		purchaseID = uuid.New().String()
	}
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO purchases (id, item_id, customer_id, created_at)
		VALUES (?, ?, ?, NOW())`,
		purchaseID, itemID, customerID)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}
