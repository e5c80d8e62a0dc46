package usage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("mercator-hq/scribe/usage")

// RedisStoreConfig configures the Redis store.
type RedisStoreConfig struct {
	Addr     string
	Password string
	DB       int

	// KeyPrefix namespaces the usage keys. Default: "scribe:usage:"
	KeyPrefix string

	// TTL is how long a day's hash is kept after its last write.
	// Default: 8 days
	TTL time.Duration

	DialTimeout time.Duration
}

// RedisStore implements Store on Redis hashes, one hash per UTC day.
// Multiple instances sharing a Redis see the same daily counters.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisStoreConfig) (*RedisStore, error) {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStoreWithClient(rdb, cfg), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(rdb redis.UniversalClient, cfg RedisStoreConfig) *RedisStore {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "scribe:usage:"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 8 * 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, prefix: cfg.KeyPrefix, ttl: cfg.TTL}
}

func (s *RedisStore) key(day string) string {
	return s.prefix + day
}

// Add implements Store.
func (s *RedisStore) Add(ctx context.Context, day, provider string, tokens int64, cost float64) error {
	ctx, span := tracer.Start(ctx, "usage.redis.Add", trace.WithAttributes(
		attribute.String("usage.day", day),
		attribute.String("usage.provider", provider),
	))
	defer span.End()

	key := s.key(day)
	pipe := s.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, provider+":tokens", tokens)
	pipe.HIncrByFloat(ctx, key, provider+":cost", cost)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to add usage: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, day string) (map[string]DailyUsage, error) {
	ctx, span := tracer.Start(ctx, "usage.redis.Load", trace.WithAttributes(
		attribute.String("usage.day", day),
	))
	defer span.End()

	fields, err := s.rdb.HGetAll(ctx, s.key(day)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load usage: %w", err)
	}

	out := make(map[string]DailyUsage)
	for field, value := range fields {
		i := strings.LastIndex(field, ":")
		if i <= 0 {
			continue
		}
		provider, kind := field[:i], field[i+1:]
		u := out[provider]
		switch kind {
		case "tokens":
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("corrupt token counter %q: %w", field, err)
			}
			u.Tokens = n
		case "cost":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("corrupt cost counter %q: %w", field, err)
			}
			u.Cost = f
		default:
			continue
		}
		out[provider] = u
	}
	return out, nil
}

// Cleanup implements Store. Keys also expire on their own via TTL.
func (s *RedisStore) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	cutoff := DayKey(olderThan)
	deleted := 0

	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.TrimPrefix(key, s.prefix) >= cutoff {
			continue
		}
		n, err := s.rdb.Del(ctx, key).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", key, err)
		}
		deleted += int(n)
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan usage keys: %w", err)
	}
	return deleted, nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
