// Package seed parses the semicolon-delimited text files that carry the
// shop's initial items, suppliers, and customers.
package seed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/an2938/retail-shop/internal/core/domain"
)

// ParseItems reads lines of the form
// id;kind;description;quantity;price;supplierID[;extras...]; trailing fields
// beyond the supplier id are ignored.
func ParseItems(r io.Reader) ([]domain.Item, error) {
	var items []domain.Item
	err := eachLine(r, func(n int, fields []string) error {
		if len(fields) < 6 {
			return fmt.Errorf("line %d: want at least 6 fields, got %d", n, len(fields))
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("line %d: item id: %w", n, err)
		}
		qty, err := strconv.Atoi(fields[3])
		if err != nil {
			return fmt.Errorf("line %d: quantity: %w", n, err)
		}
		price, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return fmt.Errorf("line %d: price: %w", n, err)
		}
		supplierID, err := strconv.Atoi(fields[5])
		if err != nil {
			return fmt.Errorf("line %d: supplier id: %w", n, err)
		}
		items = append(items, domain.Item{
			ID:          id,
			Kind:        fields[1],
			Description: fields[2],
			Quantity:    qty,
			Price:       price,
			SupplierID:  supplierID,
		})
		return nil
	})
	return items, err
}

// ParseSuppliers reads lines of the form
// id;kind;companyName;address;salesContact[;importTax].
func ParseSuppliers(r io.Reader) ([]domain.Supplier, error) {
	var suppliers []domain.Supplier
	err := eachLine(r, func(n int, fields []string) error {
		if len(fields) < 5 {
			return fmt.Errorf("line %d: want at least 5 fields, got %d", n, len(fields))
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("line %d: supplier id: %w", n, err)
		}
		s := domain.Supplier{
			ID:           id,
			Kind:         fields[1],
			CompanyName:  fields[2],
			Address:      fields[3],
			SalesContact: fields[4],
		}
		if len(fields) > 5 && fields[5] != "NULL" {
			tax, err := strconv.ParseFloat(fields[5], 64)
			if err != nil {
				return fmt.Errorf("line %d: import tax: %w", n, err)
			}
			s.ImportTax = tax
		}
		suppliers = append(suppliers, s)
		return nil
	})
	return suppliers, err
}

// ParseCustomers reads lines of the form
// id;firstName;lastName;address;postalCode;phone;type.
func ParseCustomers(r io.Reader) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := eachLine(r, func(n int, fields []string) error {
		if len(fields) < 7 {
			return fmt.Errorf("line %d: want 7 fields, got %d", n, len(fields))
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("line %d: customer id: %w", n, err)
		}
		customers = append(customers, domain.Customer{
			ID:         id,
			FirstName:  fields[1],
			LastName:   fields[2],
			Address:    fields[3],
			PostalCode: fields[4],
			Phone:      fields[5],
			Type:       domain.CustomerType(fields[6]),
		})
		return nil
	})
	return customers, err
}

func eachLine(r io.Reader, fn func(n int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := fn(n, strings.Split(line, ";")); err != nil {
			return err
		}
	}
	return sc.Err()
}
