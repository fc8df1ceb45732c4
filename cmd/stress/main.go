// Command stress fires concurrent purchases at a running shop server over
// the envelope protocol and tallies the outcomes.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/an2938/retail-shop/internal/adapter/protocol"
)

func main() {
	addr := flag.String("addr", "localhost:9090", "server address")
	itemID := flag.Int("item", 100, "item id to purchase")
	customerID := flag.Int("customer", 1, "customer id making the purchases")
	requests := flag.Int("n", 50, "number of concurrent purchases")
	qty := flag.Int("qty", 1, "quantity per purchase")
	flag.Parse()

	var (
		wg        sync.WaitGroup
		completed int64
		failed    int64
		errored   int64
	)

	start := time.Now()
	for i := 0; i < *requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, err := net.Dial("tcp", *addr)
			if err != nil {
				atomic.AddInt64(&errored, 1)
				return
			}
			defer conn.Close()

			codec := protocol.NewCodec(conn)
			req := protocol.Envelope{
				Command: protocol.CmdPurchase,
				Entity:  protocol.EntityItem,
				Purchase: &protocol.PurchaseRequest{
					RequestID:  uuid.New().String(),
					ItemID:     *itemID,
					Quantity:   *qty,
					CustomerID: *customerID,
				},
			}
			if err := codec.Write(req); err != nil {
				atomic.AddInt64(&errored, 1)
				return
			}

			resp, err := codec.Read()
			if err != nil {
				atomic.AddInt64(&errored, 1)
				return
			}
			switch resp.Command {
			case protocol.CmdPurchaseComplete:
				atomic.AddInt64(&completed, 1)
			default:
				atomic.AddInt64(&failed, 1)
			}

			codec.Write(protocol.Envelope{Command: protocol.CmdQuit})
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	log.Printf("done in %s", elapsed)
	fmt.Printf("completed: %d\nfailed:    %d\nerrored:   %d\n", completed, failed, errored)
}
