package redis

import (
	"context"
	"encoding/json"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/emagraphy/backend/domain"
	"github.com/emagraphy/backend/repository"
)

type classCache struct {
	client *redislib.Client
	key    string
	ttl    time.Duration
}

// NewClassCache creates a Redis-backed cache for the public class listing.
func NewClassCache(client *redislib.Client, ttl time.Duration) repository.ClassCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &classCache{
		client: client,
		key:    "classes:approved",
		ttl:    ttl,
	}
}

func (c *classCache) Get(ctx context.Context) ([]domain.Class, error) {
	result, err := c.client.Get(ctx, c.key).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrClassNotFound
		}
		return nil, err
	}

	var classes []domain.Class
	if err := json.Unmarshal([]byte(result), &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *classCache) Set(ctx context.Context, classes []domain.Class) error {
	payload, err := json.Marshal(classes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, payload, c.ttl).Err()
}

func (c *classCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
