package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/reparto-app/reparto-sales-service/internal/config"
	"github.com/reparto-app/reparto-sales-service/internal/models"
)

const (
	customerKeyPrefix = "customer:"
	defaultCacheTTL   = 5 * time.Minute
)

// Ensure RedisCustomerCache implements CustomerCache
var _ CustomerCache = (*RedisCustomerCache)(nil)

// RedisCustomerCache implements CustomerCache using Redis. Cache failures
// are reported to the caller, which logs and moves on; they are never fatal.
type RedisCustomerCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisClient creates the shared Redis client used by the cache and the
// draft store.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisCustomerCache creates a new Redis-based customer cache.
func NewRedisCustomerCache(client *redis.Client, cfg config.RedisConfig, logger *slog.Logger) *RedisCustomerCache {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCustomerCache{client: client, ttl: ttl, logger: logger}
}

// Get retrieves a customer from cache. A miss returns (nil, nil).
func (c *RedisCustomerCache) Get(ctx context.Context, id string) (*models.Customer, error) {
	data, err := c.client.Get(ctx, customerKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache get error", "customer_id", id, "error", err)
		return nil, err
	}

	var customer models.Customer
	if err := json.Unmarshal(data, &customer); err != nil {
		return nil, err
	}

	c.logger.Debug("cache hit", "customer_id", id)
	return &customer, nil
}

// Set stores a customer in cache.
func (c *RedisCustomerCache) Set(ctx context.Context, customer *models.Customer) error {
	data, err := json.Marshal(customer)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, customerKeyPrefix+customer.ID, data, c.ttl).Err(); err != nil {
		c.logger.Error("cache set error", "customer_id", customer.ID, "error", err)
		return err
	}
	return nil
}

// Delete removes a customer from cache. Called after any write that touches
// the customer, including the debt overwrite at settlement.
func (c *RedisCustomerCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, customerKeyPrefix+id).Err(); err != nil {
		c.logger.Error("cache delete error", "customer_id", id, "error", err)
		return err
	}
	return nil
}
