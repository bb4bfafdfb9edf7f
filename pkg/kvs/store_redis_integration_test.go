//go:build integration

package kvs_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/dentsusoken/oid4vc-core/pkg/kvs"
	"github.com/dentsusoken/oid4vc-core/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *kvs.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = kvs.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.redis.FlushAll(ctx)
	s.Require().NoError(err)
}

func (s *RedisStoreSuite) TestRoundtrip() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, "session:1", "payload", 0))

	value, found, err := s.store.Get(ctx, "session:1")
	s.Require().NoError(err)
	s.True(found)
	s.Equal("payload", value)
}

func (s *RedisStoreSuite) TestAbsentKey() {
	ctx := context.Background()

	value, found, err := s.store.Get(ctx, uuid.NewString())
	s.Require().NoError(err)
	s.False(found)
	s.Empty(value)
}

func (s *RedisStoreSuite) TestOverwrite() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, "k", "first", 0))
	s.Require().NoError(s.store.Put(ctx, "k", "second", 0))

	value, found, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.True(found)
	s.Equal("second", value)
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, "k", "v", 0))
	s.Require().NoError(s.store.Delete(ctx, "k"))

	_, found, err := s.store.Get(ctx, "k")
	s.Require().NoError(err)
	s.False(found)

	// deleting again is still fine
	s.NoError(s.store.Delete(ctx, "k"))
}

// TestTTLExpiry verifies that expiry rides on native Redis key TTLs.
func (s *RedisStoreSuite) TestTTLExpiry() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, "short-lived", "v", time.Second))

	_, found, err := s.store.Get(ctx, "short-lived")
	s.Require().NoError(err)
	s.True(found)

	s.Require().Eventually(func() bool {
		_, found, err := s.store.Get(context.Background(), "short-lived")
		return err == nil && !found
	}, 5*time.Second, 100*time.Millisecond, "key should expire server-side")
}

func (s *RedisStoreSuite) TestKeysAreNamespaced() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, "abc", "v", 0))

	raw, err := s.redis.Client.Get(ctx, "kvs:abc").Result()
	s.Require().NoError(err)
	s.Equal("v", raw)
}

func (s *RedisStoreSuite) TestEmptyKeyRejected() {
	ctx := context.Background()

	_, _, err := s.store.Get(ctx, "")
	s.ErrorIs(err, kvs.ErrEmptyKey)
	s.ErrorIs(s.store.Put(ctx, "", "v", 0), kvs.ErrEmptyKey)
	s.ErrorIs(s.store.Delete(ctx, ""), kvs.ErrEmptyKey)
}

// TestNewRedisClientConnects exercises the production connect path against a
// live instance: URL parsing, option overrides and the ping check.
func (s *RedisStoreSuite) TestNewRedisClientConnects() {
	ctx := context.Background()

	cfg := kvs.DefaultRedisConfig()
	cfg.URL = s.redis.Addr

	client, err := kvs.NewRedisClient(ctx, cfg)
	s.Require().NoError(err)
	defer client.Close()

	store := kvs.NewRedis(client)
	s.Require().NoError(store.Put(ctx, "connect-check", "ok", 0))

	value, found, err := store.Get(ctx, "connect-check")
	s.Require().NoError(err)
	s.True(found)
	s.Equal("ok", value)
}
