package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Stiven2023/vio-app-sub001/pkg/config"
)

type redisPublisher struct {
	client  *redis.Client
	channel string
}

func newRedisPublisher(ctx context.Context, cfg config.NotifyConfig) (*redisPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("notify: conectar a redis %s: %w", cfg.RedisAddr, err)
	}
	return &redisPublisher{client: client, channel: cfg.RedisChannel}, nil
}

// Publish ignora la clave: el evento ya viaja dentro del cuerpo JSON.
func (r *redisPublisher) Publish(ctx context.Context, _, value []byte) error {
	return r.client.Publish(ctx, r.channel, value).Err()
}

func (r *redisPublisher) Close() error {
	return r.client.Close()
}
