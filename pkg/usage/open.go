package usage

import (
	"context"
	"fmt"

	"mercator-hq/scribe/pkg/config"
)

// OpenStore opens the store selected by cfg.Backend.
func OpenStore(ctx context.Context, cfg config.UsageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStoreWithConfig(SQLiteStoreConfig{
			DBPath:      cfg.SQLite.Path,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
	case "redis":
		return NewRedisStore(ctx, RedisStoreConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			TTL:         cfg.Redis.TTL,
			DialTimeout: cfg.Redis.DialTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown usage backend %q", cfg.Backend)
	}
}

// RetentionFromConfig returns the retention settings in cfg.
func RetentionFromConfig(cfg config.UsageConfig) RetentionConfig {
	return RetentionConfig{
		Schedule:      cfg.Retention.Schedule,
		RetentionDays: cfg.Retention.Days,
	}
}
