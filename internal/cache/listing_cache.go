package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

const listingKeyPrefix = "listing:"

// ListingCache keeps published listings in Redis for public reads.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewListingCache returns a cache whose entries expire after ttl.
func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: ttl}
}

func listingKey(id string) string {
	return listingKeyPrefix + id
}

// Get returns the cached listing, or nil when it is not cached.
func (c *ListingCache) Get(ctx context.Context, id string) (*models.Listing, error) {
	data, err := c.rdb.Get(ctx, listingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read listing %s from cache: %w", id, err)
	}
	var l models.Listing
	if err := json.Unmarshal(data, &l); err != nil {
		// A stale or foreign entry; drop it rather than fail the read.
		_ = c.rdb.Del(ctx, listingKey(id)).Err()
		return nil, nil
	}
	return &l, nil
}

// Set stores a listing under its ID.
func (c *ListingCache) Set(ctx context.Context, l *models.Listing) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode listing %s for cache: %w", l.ID.Hex(), err)
	}
	if err := c.rdb.Set(ctx, listingKey(l.ID.Hex()), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache listing %s: %w", l.ID.Hex(), err)
	}
	return nil
}

// Invalidate removes a listing from the cache.
func (c *ListingCache) Invalidate(ctx context.Context, id string) error {
	if err := c.rdb.Del(ctx, listingKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached listing %s: %w", id, err)
	}
	return nil
}
