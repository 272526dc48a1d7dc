package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = time.Hour

// IdempotencyStore records Idempotency-Key replays for expense creation.
// Key format: idem:<project_id>:<key>, value: the created expense id.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Get returns the expense id recorded for the key, or "" when unseen.
func (s *IdempotencyStore) Get(ctx context.Context, projectID, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(projectID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("idempotency get: %w", err)
	}
	return val, nil
}

// Set records the created expense id for the key (expires after idempotencyTTL).
func (s *IdempotencyStore) Set(ctx context.Context, projectID, key, expenseID string) error {
	return s.client.Set(ctx, s.key(projectID, key), expenseID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(projectID, key string) string {
	return fmt.Sprintf("idem:%s:%s", projectID, key)
}
