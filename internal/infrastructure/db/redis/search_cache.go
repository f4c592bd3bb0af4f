package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custommatt/account-api/internal/core/domain"
)

const (
	defaultSearchTTL = 5 * time.Minute
	searchKeyPrefix  = "search:zip:"
	flushScanCount   = 100
)

// SearchCache keeps zip search results in Redis.
// Key format: search:zip:<zip_code>
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache creates a SearchCache wrapping the given Redis client.
// Entries expire after ttl, or defaultSearchTTL when ttl <= 0.
func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = defaultSearchTTL
	}
	return &SearchCache{client: client, ttl: ttl}
}

// Get reports a hit only for a stored, decodable entry.
func (c *SearchCache) Get(ctx context.Context, zip string) ([]domain.PublicAccount, bool, error) {
	raw, err := c.client.Get(ctx, searchKey(zip)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("search cache get: %w", err)
	}

	var accounts []domain.PublicAccount
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, false, fmt.Errorf("search cache decode: %w", err)
	}
	return accounts, true, nil
}

func (c *SearchCache) Set(ctx context.Context, zip string, accounts []domain.PublicAccount) error {
	raw, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("search cache encode: %w", err)
	}
	return c.client.Set(ctx, searchKey(zip), raw, c.ttl).Err()
}

func (c *SearchCache) Invalidate(ctx context.Context, zip string) error {
	return c.client.Del(ctx, searchKey(zip)).Err()
}

// Flush drops every cached search.
func (c *SearchCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, searchKeyPrefix+"*", flushScanCount).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("search cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func searchKey(zip string) string {
	return searchKeyPrefix + zip
}
