package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/print-expert/repair-service/internal/config"
)

// RedisSlot stores slot values as plain Redis strings.
type RedisSlot struct {
	client *redis.Client
}

// NewRedisSlot connects to Redis using the provided configuration.
func NewRedisSlot(cfg config.RedisConfig, logger *zap.Logger) *RedisSlot {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisSlot{client: client}
}

func (r *RedisSlot) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSlotEmpty
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *RedisSlot) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Ping verifies Redis connectivity.
func (r *RedisSlot) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("redis client not configured")
	}
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *RedisSlot) Close() {
	if r != nil && r.client != nil {
		_ = r.client.Close()
	}
}
