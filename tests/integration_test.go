package tests

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/an2938/retail-shop/internal/adapter/handler"
	"github.com/an2938/retail-shop/internal/adapter/protocol"
	"github.com/an2938/retail-shop/internal/adapter/storage"
	"github.com/an2938/retail-shop/internal/core/domain"
	"github.com/an2938/retail-shop/internal/core/service"
	"github.com/an2938/retail-shop/internal/testutil"
)

// startServer brings up the full stack short of MySQL/Redis: in-memory
// gateway, in-process stock store, real TCP listener with one session per
// connection.
func startServer(t *testing.T) (string, *testutil.FakeGateway) {
	t.Helper()

	gw := testutil.NewFakeGateway()
	gw.Items[100] = domain.Item{ID: 100, Kind: "E", Description: "cordless drill", Quantity: 45, Price: 129.99, SupplierID: 8000}
	gw.Items[200] = domain.Item{ID: 200, Kind: "T", Description: "claw hammer", Quantity: 500, Price: 17.49, SupplierID: 8000}
	gw.Customers[1] = domain.Customer{ID: 1, FirstName: "Ada", LastName: "Nguyen", Type: domain.CustomerResidential}
	gw.Suppliers[8000] = domain.Supplier{ID: 8000, CompanyName: "Acme Tool Supply"}

	shop := service.NewShopService(gw, service.NewInventoryStore(), storage.NewMemoryIdempotencyStore())
	if _, err := shop.LoadStock(context.Background()); err != nil {
		t.Fatalf("load stock: %v", err)
	}
	dispatcher := handler.NewDispatcher(shop)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { lis.Close() })

	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					t.Logf("accept: %v", err)
				}
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				handler.NewSession(c, dispatcher, c.RemoteAddr().String()).Run(context.Background())
			}(conn)
		}
	}()

	return lis.Addr().String(), gw
}

func dial(t *testing.T, addr string) *protocol.Codec {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return protocol.NewCodec(conn)
}

func roundTrip(t *testing.T, codec *protocol.Codec, req protocol.Envelope) protocol.Envelope {
	t.Helper()
	if err := codec.Write(req); err != nil {
		t.Fatalf("write: %v", err)
	}
	resp, err := codec.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func TestEndToEnd_PurchaseAndDailyOrder(t *testing.T) {
	addr, gw := startServer(t)
	codec := dial(t, addr)

	// First purchase drops 45 -> 35, below the threshold of 40.
	resp := roundTrip(t, codec, protocol.Envelope{
		Command:  protocol.CmdPurchase,
		Entity:   protocol.EntityItem,
		Purchase: &protocol.PurchaseRequest{RequestID: uuid.New().String(), ItemID: 100, Quantity: 10, CustomerID: 1},
	})
	if resp.Command != protocol.CmdPurchaseComplete {
		t.Fatalf("expected PURCHASE_COMPLETE, got %q", resp.Command)
	}

	// Second same-day purchase merges into the same order line.
	resp = roundTrip(t, codec, protocol.Envelope{
		Command:  protocol.CmdPurchase,
		Entity:   protocol.EntityItem,
		Purchase: &protocol.PurchaseRequest{RequestID: uuid.New().String(), ItemID: 100, Quantity: 3, CustomerID: 1},
	})
	if resp.Command != protocol.CmdPurchaseComplete {
		t.Fatalf("expected PURCHASE_COMPLETE, got %q", resp.Command)
	}

	if len(gw.Orders) != 1 {
		t.Fatalf("expected exactly one daily order, got %d", len(gw.Orders))
	}
	if len(gw.Lines) != 1 {
		t.Fatalf("expected exactly one order line, got %d", len(gw.Lines))
	}
	for _, l := range gw.Lines {
		if l.Quantity != 8 {
			t.Errorf("expected accumulated line quantity 8 (5+3), got %d", l.Quantity)
		}
		if l.SupplierName != "Acme Tool Supply" {
			t.Errorf("expected supplier name on the line, got %q", l.SupplierName)
		}
	}

	// The daily order printout comes back over the same connection.
	resp = roundTrip(t, codec, protocol.Envelope{
		Command: protocol.CmdSearchAll,
		Entity:  protocol.EntityOrder,
	})
	if resp.Command != protocol.CmdDisplay || resp.OrderText == "" {
		t.Errorf("expected order printout, got %q with %q", resp.Command, resp.OrderText)
	}

	codec.Write(protocol.Envelope{Command: protocol.CmdQuit})
}

func TestEndToEnd_PurchaseRefusals(t *testing.T) {
	addr, gw := startServer(t)
	codec := dial(t, addr)

	// Unknown customer: refused before any stock moves.
	resp := roundTrip(t, codec, protocol.Envelope{
		Command:  protocol.CmdPurchase,
		Entity:   protocol.EntityItem,
		Purchase: &protocol.PurchaseRequest{ItemID: 100, Quantity: 10, CustomerID: 404},
	})
	if resp.Command != protocol.CmdPurchaseFailed {
		t.Fatalf("expected PURCHASE_FAILED, got %q", resp.Command)
	}
	if gw.Items[100].Quantity != 45 {
		t.Errorf("stock must be untouched, got %d", gw.Items[100].Quantity)
	}

	// Replayed request id: second attempt refused.
	reqID := uuid.New().String()
	purchase := protocol.Envelope{
		Command:  protocol.CmdPurchase,
		Entity:   protocol.EntityItem,
		Purchase: &protocol.PurchaseRequest{RequestID: reqID, ItemID: 200, Quantity: 1, CustomerID: 1},
	}
	if resp := roundTrip(t, codec, purchase); resp.Command != protocol.CmdPurchaseComplete {
		t.Fatalf("expected PURCHASE_COMPLETE, got %q", resp.Command)
	}
	if resp := roundTrip(t, codec, purchase); resp.Command != protocol.CmdPurchaseFailed {
		t.Errorf("expected replay to fail, got %q", resp.Command)
	}

	codec.Write(protocol.Envelope{Command: protocol.CmdQuit})
}

func TestEndToEnd_CustomerLifecycle(t *testing.T) {
	addr, _ := startServer(t)
	codec := dial(t, addr)

	c := domain.Customer{ID: 7, FirstName: "Omar", LastName: "Haddad", Type: domain.CustomerCommercial}
	if resp := roundTrip(t, codec, protocol.Envelope{
		Command: protocol.CmdSave, Entity: protocol.EntityCustomer, Customer: &c,
	}); resp.Command != protocol.CmdComplete {
		t.Fatalf("save: expected COMPLETE, got %q", resp.Command)
	}

	resp := roundTrip(t, codec, protocol.Envelope{
		Command: protocol.CmdSearchByIDEdit, Entity: protocol.EntityCustomer, Customer: &domain.Customer{ID: 7},
	})
	if resp.Command != protocol.CmdDisplayEdit || len(resp.Customers) != 1 {
		t.Fatalf("expected DISPLAY_EDIT with one customer, got %q", resp.Command)
	}

	if resp := roundTrip(t, codec, protocol.Envelope{
		Command: protocol.CmdDelete, Entity: protocol.EntityCustomer, Customer: &domain.Customer{ID: 7},
	}); resp.Command != protocol.CmdComplete {
		t.Fatalf("delete: expected COMPLETE, got %q", resp.Command)
	}

	if resp := roundTrip(t, codec, protocol.Envelope{
		Command: protocol.CmdSearchByID, Entity: protocol.EntityCustomer, Customer: &domain.Customer{ID: 7},
	}); resp.Command != protocol.CmdFailed {
		t.Errorf("expected FAILED after delete, got %q", resp.Command)
	}

	codec.Write(protocol.Envelope{Command: protocol.CmdQuit})
}

func TestEndToEnd_ConcurrentPurchasesNeverOversell(t *testing.T) {
	addr, gw := startServer(t)

	const (
		clients  = 60
		perOrder = 1
	)
	// Item 100 has 45 in stock; 60 clients want one each.
	var (
		wg        sync.WaitGroup
		completed int64
		failed    int64
	)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, err := net.Dial("tcp", addr)
			if err != nil {
				t.Errorf("dial: %v", err)
				return
			}
			defer conn.Close()

			codec := protocol.NewCodec(conn)
			req := protocol.Envelope{
				Command:  protocol.CmdPurchase,
				Entity:   protocol.EntityItem,
				Purchase: &protocol.PurchaseRequest{RequestID: uuid.New().String(), ItemID: 100, Quantity: perOrder, CustomerID: 1},
			}
			if err := codec.Write(req); err != nil {
				t.Errorf("write: %v", err)
				return
			}
			resp, err := codec.Read()
			if err != nil {
				t.Errorf("read: %v", err)
				return
			}
			switch resp.Command {
			case protocol.CmdPurchaseComplete:
				atomic.AddInt64(&completed, 1)
			case protocol.CmdPurchaseFailed:
				atomic.AddInt64(&failed, 1)
			}
			codec.Write(protocol.Envelope{Command: protocol.CmdQuit})
		}()
	}
	wg.Wait()

	if completed != 45 {
		t.Errorf("expected exactly 45 completed purchases, got %d", completed)
	}
	if failed != clients-45 {
		t.Errorf("expected %d refusals, got %d", clients-45, failed)
	}
	if gw.Items[100].Quantity != 0 {
		t.Errorf("expected persisted stock 0, got %d", gw.Items[100].Quantity)
	}

	// 45 successes all below threshold at some point: exactly one order,
	// one line, accumulated to the full shortfall.
	if len(gw.Orders) != 1 || len(gw.Lines) != 1 {
		t.Fatalf("expected one order and one line, got %d/%d", len(gw.Orders), len(gw.Lines))
	}
	for _, l := range gw.Lines {
		if l.Quantity != domain.ReorderThreshold {
			t.Errorf("expected line quantity %d, got %d", domain.ReorderThreshold, l.Quantity)
		}
	}
}
