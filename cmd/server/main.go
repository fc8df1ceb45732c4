package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/an2938/retail-shop/internal/adapter/handler"
	"github.com/an2938/retail-shop/internal/adapter/storage"
	"github.com/an2938/retail-shop/internal/config"
	"github.com/an2938/retail-shop/internal/core/service"
	"github.com/an2938/retail-shop/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	gateway := storage.NewMySQLAdapter(db)

	// Stock authority: in-process by default, Redis when configured.
	var (
		stock port.StockStore
		idem  port.IdempotencyStore
		rdb   *redis.Client
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 100,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		log.Println("connected to redis")
		redisAdapter := storage.NewRedisAdapter(rdb)
		stock = redisAdapter
		idem = redisAdapter
	} else {
		stock = service.NewInventoryStore()
		idem = storage.NewMemoryIdempotencyStore()
	}

	shop := service.NewShopService(gateway, stock, idem)
	count, err := shop.LoadStock(ctx)
	if err != nil {
		log.Fatalf("failed to seed stock: %v", err)
	}
	log.Printf("seeded stock for %d items", count)

	dispatcher := handler.NewDispatcher(shop)

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	log.Printf("shop server listening on %s", cfg.ListenAddr)

	var (
		wg      sync.WaitGroup
		connsMu sync.Mutex
		conns   = make(map[net.Conn]struct{})
	)

	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				if !errors.Is(err, net.ErrClosed) {
					log.Printf("accept: %v", err)
				}
				return
			}

			connsMu.Lock()
			conns[conn] = struct{}{}
			connsMu.Unlock()

			wg.Add(1)
			go func(c net.Conn) {
				defer wg.Done()
				defer func() {
					c.Close()
					connsMu.Lock()
					delete(conns, c)
					connsMu.Unlock()
				}()
				handler.NewSession(c, dispatcher, c.RemoteAddr().String()).Run(ctx)
			}(conn)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	lis.Close()

	// Closing the connections unblocks sessions idle in a read; a request
	// already being handled still runs to completion before its session
	// notices.
	connsMu.Lock()
	for c := range conns {
		c.Close()
	}
	connsMu.Unlock()

	wg.Wait()
	log.Println("sessions stopped")

	if rdb != nil {
		rdb.Close()
	}
	db.Close()
	log.Println("connections closed")
}
