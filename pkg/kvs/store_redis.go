package kvs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultKeyPrefix namespaces store keys in a shared Redis database.
const defaultKeyPrefix = "kvs:"

// RedisStore persists entries in Redis. This is the recommended backend for
// distributed deployments: expiry rides on native key TTLs and all instances
// share state.
type RedisStore struct {
	client  *redis.Client
	prefix  string
	metrics *Metrics
}

// RedisOption configures a RedisStore instance.
type RedisOption func(*RedisStore)

// WithRedisPrefix overrides the key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisMetrics attaches operation metrics.
func WithRedisMetrics(m *Metrics) RedisOption {
	return func(s *RedisStore) {
		s.metrics = m
	}
}

// NewRedis constructs a Redis-backed store. The client lifecycle is managed
// by the caller.
func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	ctx, span := tracer.Start(ctx, "kvs.redis.get",
		trace.WithAttributes(attribute.String("kvs.key", key)))
	defer span.End()

	start := time.Now()
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	s.metrics.ObserveOp(storeRedis, opGet, time.Since(start))

	if errors.Is(err, redis.Nil) {
		s.metrics.IncrementMiss(storeRedis)
		return "", false, nil
	}
	if err != nil {
		s.metrics.IncrementError(storeRedis, opGet)
		span.RecordError(err)
		span.SetStatus(codes.Error, "redis get failed")
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	s.metrics.IncrementHit(storeRedis)
	return value, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	ctx, span := tracer.Start(ctx, "kvs.redis.put",
		trace.WithAttributes(attribute.String("kvs.key", key)))
	defer span.End()

	if ttl < 0 {
		ttl = 0 // go-redis treats 0 as no expiry
	}
	start := time.Now()
	err := s.client.Set(ctx, s.prefix+key, value, ttl).Err()
	s.metrics.ObserveOp(storeRedis, opPut, time.Since(start))
	if err != nil {
		s.metrics.IncrementError(storeRedis, opPut)
		span.RecordError(err)
		span.SetStatus(codes.Error, "redis set failed")
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	ctx, span := tracer.Start(ctx, "kvs.redis.delete",
		trace.WithAttributes(attribute.String("kvs.key", key)))
	defer span.End()

	start := time.Now()
	err := s.client.Del(ctx, s.prefix+key).Err()
	s.metrics.ObserveOp(storeRedis, opDelete, time.Since(start))
	if err != nil {
		s.metrics.IncrementError(storeRedis, opDelete)
		span.RecordError(err)
		span.SetStatus(codes.Error, "redis del failed")
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
