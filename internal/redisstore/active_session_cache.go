package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"parkada/internal/models"
)

// Cache keeps the active session per user in redis for quick reads by the
// floating session indicator without touching the durable store.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache returns a redis-backed active-session cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(userID string) string {
	return fmt.Sprintf("parking:active:%s", userID)
}

// Save caches the user's active session.
func (c *Cache) Save(ctx context.Context, session *models.ParkingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.UserID), data, c.ttl).Err()
}

// Get returns the cached active session, or redis.Nil when absent.
func (c *Cache) Get(ctx context.Context, userID string) (*models.ParkingSession, error) {
	result, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, err
	}
	var session models.ParkingSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete clears the user's cached active session.
func (c *Cache) Delete(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}
