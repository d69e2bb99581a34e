package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nhAnik/modelhashid/hashid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding the global options. Per-model
// options live under DefaultRedisKey + ":" + model.
const DefaultRedisKey = "hashid:config"

type HashGetter interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// LoadRedis applies the options stored in the redis hash key, then those
// in key:<model> for each given model.
func LoadRedis(ctx context.Context, client HashGetter, store *hashid.Store, key string, models ...string) error {
	if key == "" {
		key = DefaultRedisKey
	}
	global, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := applyMap(store, "", global); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	for _, model := range models {
		modelKey := key + ":" + model
		values, err := client.HGetAll(ctx, modelKey).Result()
		if err != nil {
			return fmt.Errorf("read %s: %w", modelKey, err)
		}
		if err := applyMap(store, model, values); err != nil {
			return fmt.Errorf("%s: %w", modelKey, err)
		}
	}
	slog.Info("hashid config loaded from redis", slog.String("key", key), slog.Int("models", len(models)))
	return nil
}
