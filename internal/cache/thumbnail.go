package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ThumbnailCachePrefix is the key prefix for template thumbnail URLs.
	ThumbnailCachePrefix = "template:thumb:"

	// ThumbnailCacheTTL bounds how long a fetched thumbnail URL is reused
	// before image search is consulted again.
	ThumbnailCacheTTL = 24 * time.Hour
)

// ThumbnailCache stores fetched template thumbnail URLs so the gallery does
// not hit the image-search API on every request. Using an interface enables
// testing with mocks and running without Redis.
type ThumbnailCache interface {
	// Get returns the cached URL for a template. found=false on a miss.
	Get(ctx context.Context, templateID string) (url string, found bool, err error)

	// Set stores the URL for a template with the cache TTL.
	Set(ctx context.Context, templateID, url string) error
}

// RedisThumbnailCache implements ThumbnailCache using plain Redis strings.
type RedisThumbnailCache struct {
	client *redis.Client
}

// NewThumbnailCache creates a ThumbnailCache backed by Redis.
func NewThumbnailCache(client *redis.Client) ThumbnailCache {
	return &RedisThumbnailCache{client: client}
}

func thumbnailKey(templateID string) string {
	return ThumbnailCachePrefix + templateID
}

func (c *RedisThumbnailCache) Get(ctx context.Context, templateID string) (string, bool, error) {
	url, err := c.client.Get(ctx, thumbnailKey(templateID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get thumbnail: %w", err)
	}
	return url, true, nil
}

func (c *RedisThumbnailCache) Set(ctx context.Context, templateID, url string) error {
	if err := c.client.Set(ctx, thumbnailKey(templateID), url, ThumbnailCacheTTL).Err(); err != nil {
		return fmt.Errorf("set thumbnail: %w", err)
	}
	return nil
}
