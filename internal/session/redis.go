package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/schoolhub/schoolhub-backend/internal/model"
)

// RedisStore persists sessions in Redis with a TTL matching the token
// lifetime.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, token string, user *model.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	return s.rdb.Set(ctx, keyPrefix+token, payload, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, token string) (*model.User, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	user := &model.User{}
	if err := json.Unmarshal(raw, user); err != nil {
		// Corrupt entry: clear it and report absence.
		_ = s.Clear(ctx, token)
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *RedisStore) Clear(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, keyPrefix+token).Err()
}
