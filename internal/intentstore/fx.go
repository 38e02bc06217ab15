package intentstore

import (
	"context"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/tabwise/epos/internal/clock"
	"github.com/tabwise/epos/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("intent.store",
	fx.Provide(New),
)

// New picks the redis-backed store when an address is configured and
// falls back to the in-process map otherwise.
func New(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, log *zap.Logger) (Store, error) {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		log.Warn("no redis address configured, payment secrets held in process memory")
		return NewMemoryStore(clk), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	log.Info("payment secret store using redis", zap.String("addr", addr))
	return NewRedisStore(client)
}
