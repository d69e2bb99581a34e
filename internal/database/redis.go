package database

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to the redis server described by url, e.g.
// redis://:password@localhost:6379/0.
func InitRedis(ctx context.Context, url string) (*redis.Client, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	slog.Info("redis connection successful", slog.String("addr", options.Addr))
	return client, nil
}
