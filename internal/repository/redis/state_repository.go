package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateRepository is the local persistence tier for feed state blobs
// (affinity records, interest profiles). Keys are namespaced so one
// Redis instance can back many customers.
type StateRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateRepository(client *redis.Client, ttl time.Duration) *StateRepository {
	return &StateRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *StateRepository) key(k string) string {
	return fmt.Sprintf("feed:state:%s", k)
}

// Read returns the stored blob, or nil when nothing is stored yet.
func (r *StateRepository) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed state from Redis: %w", err)
	}

	return val, nil
}

func (r *StateRepository) Write(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.client.Set(ctx, r.key(key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store feed state in Redis: %w", err)
	}

	return nil
}

func (r *StateRepository) Reset(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete feed state from Redis: %w", err)
	}

	return nil
}
