package question

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// Cache provides Redis-backed question batch caching to offload DB/API calls.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ BatchCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(req BatchRequest) string {
	return strings.Join([]string{
		"questionbatch",
		req.Difficulty,
		req.CollectionID,
		fmt.Sprint(req.Limit),
		fmt.Sprint(req.Offset),
	}, ":")
}

func (c *Cache) Get(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	data, err := c.client.Get(ctx, c.key(req)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var resp BatchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Cache) Set(ctx context.Context, req BatchRequest, resp BatchResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(req), data, c.ttl).Err()
}
