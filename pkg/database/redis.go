package database

import (
	"context"
	"fmt"

	"github.com/ShatadruDhar/tekshila/pkg/config"
	"github.com/go-redis/redis/v8"
)

// NewRedisClient conecta el cliente del cache de listados y lo verifica
// con un ping acotado
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
