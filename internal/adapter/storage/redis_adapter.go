package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	stockKeyPrefix    = "stock:"
	idempotencyKeyTTL = 24 * time.Hour
)

// decrementStockScript subtracts atomically with a zero floor and returns
// the remaining stock: -1 when the key is untracked, -2 when the subtraction
// would go negative.
var decrementStockScript = redis.NewScript(`
local key = KEYS[1]
local quantity = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return -1
end

current = tonumber(current)
if current - quantity < 0 then
	return -2
end

return redis.call('DECRBY', key, quantity)
`)

// RedisAdapter implements port.StockStore and port.IdempotencyStore for
// deployments where several server instances share one stock authority.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetStock(ctx context.Context, itemID, quantity int) error {
	return r.client.Set(ctx, stockKey(itemID), quantity, 0).Err()
}

func (r *RedisAdapter) Decrement(ctx context.Context, itemID, quantity int) (int, bool, error) {
	result, err := decrementStockScript.Run(ctx, r.client, []string{stockKey(itemID)}, quantity).Int()
	if err != nil {
		return 0, false, err
	}
	if result < 0 {
		return 0, false, nil
	}
	return result, true, nil
}

func (r *RedisAdapter) Restock(ctx context.Context, itemID, quantity int) error {
	return r.client.IncrBy(ctx, stockKey(itemID), int64(quantity)).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
}

func stockKey(itemID int) string {
	return stockKeyPrefix + strconv.Itoa(itemID)
}
