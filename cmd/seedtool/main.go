// Command seedtool bulk-imports the semicolon-delimited seed files into the
// shop database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"

	"github.com/an2938/retail-shop/internal/adapter/storage"
	"github.com/an2938/retail-shop/internal/config"
	"github.com/an2938/retail-shop/internal/seed"
)

func main() {
	itemsPath := flag.String("items", "items.txt", "items seed file")
	suppliersPath := flag.String("suppliers", "suppliers.txt", "suppliers seed file")
	customersPath := flag.String("customers", "customers.txt", "customers seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	gateway := storage.NewMySQLAdapter(db)

	if f, ok := open(*suppliersPath); ok {
		suppliers, err := seed.ParseSuppliers(f)
		f.Close()
		if err != nil {
			log.Fatalf("parse suppliers: %v", err)
		}
		for _, s := range suppliers {
			if err := gateway.InsertSupplier(ctx, s); err != nil {
				log.Fatalf("insert supplier %d: %v", s.ID, err)
			}
		}
		log.Printf("imported %d suppliers", len(suppliers))
	}

	if f, ok := open(*itemsPath); ok {
		items, err := seed.ParseItems(f)
		f.Close()
		if err != nil {
			log.Fatalf("parse items: %v", err)
		}
		for _, it := range items {
			if err := gateway.InsertItem(ctx, it); err != nil {
				log.Fatalf("insert item %d: %v", it.ID, err)
			}
		}
		log.Printf("imported %d items", len(items))
	}

	if f, ok := open(*customersPath); ok {
		customers, err := seed.ParseCustomers(f)
		f.Close()
		if err != nil {
			log.Fatalf("parse customers: %v", err)
		}
		for _, c := range customers {
			if err := gateway.InsertCustomer(ctx, c); err != nil {
				log.Fatalf("insert customer %d: %v", c.ID, err)
			}
		}
		log.Printf("imported %d customers", len(customers))
	}
}

func open(path string) (*os.File, bool) {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("skipping %s: %v", path, err)
		return nil, false
	}
	return f, true
}
