package redisx

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ProductCache holds serialized products so catalog reads can skip the DB.
// Misses return (nil, nil).
type ProductCache struct {
	RDB *redis.Client
}

func (c *ProductCache) Get(ctx context.Context, productID string) ([]byte, error) {
	b, err := c.RDB.Get(ctx, fmt.Sprintf(KeyProduct, productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c *ProductCache) Set(ctx context.Context, productID string, payload []byte) error {
	return c.RDB.Set(ctx, fmt.Sprintf(KeyProduct, productID), payload, TTLProductCache).Err()
}

func (c *ProductCache) Invalidate(ctx context.Context, productID string) error {
	return c.RDB.Del(ctx, fmt.Sprintf(KeyProduct, productID)).Err()
}

// OrderStatusCache shortcuts order status reads. DB stays the source of truth.
type OrderStatusCache struct {
	RDB *redis.Client
}

func (c *OrderStatusCache) SetStatus(ctx context.Context, orderID, status string) error {
	return c.RDB.Set(ctx, fmt.Sprintf(KeyOrderStatus, orderID), status, TTLStatusCache).Err()
}

func (c *OrderStatusCache) GetStatus(ctx context.Context, orderID string) (string, error) {
	s, err := c.RDB.Get(ctx, fmt.Sprintf(KeyOrderStatus, orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return s, err
}
