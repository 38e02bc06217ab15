package intentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a redis client; expiry is handled server-side
// via SETEX.
func NewRedisStore(client *redis.Client) (Store, error) {
	if client == nil {
		return nil, errors.New("intent store redis client is required")
	}
	return &redisStore{client: client}, nil
}

func (s *redisStore) Put(ctx context.Context, secret, intentID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return s.client.Set(ctx, KeyPrefix+secret, intentID, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, secret string) (string, bool, error) {
	value, err := s.client.Get(ctx, KeyPrefix+secret).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *redisStore) Delete(ctx context.Context, secret string) error {
	return s.client.Del(ctx, KeyPrefix+secret).Err()
}

func (s *redisStore) ReverseLookup(ctx context.Context, intentID string) (string, bool, error) {
	iter := s.client.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		value, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			// Expired between SCAN and GET.
			continue
		}
		if err != nil {
			return "", false, err
		}
		if value == intentID {
			return strings.TrimPrefix(key, KeyPrefix), true, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", false, err
	}
	return "", false, nil
}
