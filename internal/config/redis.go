package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens and pings the Redis client used for wizard state.
func ConnectRedis(ctx context.Context, env Env) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	log.Printf("connected to redis at %s", env.RedisAddr)
	return client, nil
}

// RedisHealth adapts a client to the health endpoint.
type RedisHealth struct {
	Client *redis.Client
}

func (h RedisHealth) Ping(ctx context.Context) error {
	return h.Client.Ping(ctx).Err()
}
