package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Swethakotuluru11/user-dashboard/internal/config"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore keeps sessions in Redis with the TTL handled by the server.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient builds a client from the session configuration and verifies
// the connection.
func NewRedisClient(cfg config.SessionConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (string, error) {
	token, err := s.client.Get(ctx, redisKeyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return token, nil
}

func (s *RedisStore) Set(ctx context.Context, sid, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, redisKeyPrefix+sid, token, ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
