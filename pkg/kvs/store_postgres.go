package kvs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PostgresStore persists entries in PostgreSQL. Reads filter expired entries
// server-side; the cleanup loop removes them for good.
type PostgresStore struct {
	db      *sql.DB
	clock   Clock
	metrics *Metrics
	logger  *slog.Logger
}

// PostgresOption configures a PostgresStore instance.
type PostgresOption func(*PostgresStore)

// WithPostgresClock sets the clock used for expiry decisions.
func WithPostgresClock(clock Clock) PostgresOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithPostgresMetrics attaches operation metrics.
func WithPostgresMetrics(m *Metrics) PostgresOption {
	return func(s *PostgresStore) {
		s.metrics = m
	}
}

// WithPostgresLogger attaches a structured logger.
func WithPostgresLogger(logger *slog.Logger) PostgresOption {
	return func(s *PostgresStore) {
		s.logger = logger
	}
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{
		db:    db,
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// EnsureSchema creates the backing table when it does not exist yet. Meant
// for bootstrap and tests; production deployments usually migrate schemas out
// of band.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS oid4vc_kvs (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			expires_at TIMESTAMPTZ
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure kvs schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	ctx, span := tracer.Start(ctx, "kvs.postgres.get",
		trace.WithAttributes(attribute.String("kvs.key", key)))
	defer span.End()

	query := `SELECT value FROM oid4vc_kvs WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`

	start := time.Now()
	var value string
	err := s.db.QueryRowContext(ctx, query, key, s.clock()).Scan(&value)
	s.metrics.ObserveOp(storePostgres, opGet, time.Since(start))

	if err == sql.ErrNoRows {
		s.metrics.IncrementMiss(storePostgres)
		return "", false, nil
	}
	if err != nil {
		s.metrics.IncrementError(storePostgres, opGet)
		span.RecordError(err)
		span.SetStatus(codes.Error, "postgres get failed")
		return "", false, fmt.Errorf("get kvs entry: %w", err)
	}
	s.metrics.IncrementHit(storePostgres)
	return value, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	ctx, span := tracer.Start(ctx, "kvs.postgres.put",
		trace.WithAttributes(attribute.String("kvs.key", key)))
	defer span.End()

	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: s.clock().Add(ttl), Valid: true}
	}

	query := `
		INSERT INTO oid4vc_kvs (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value      = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at
	`
	start := time.Now()
	_, err := s.db.ExecContext(ctx, query, key, value, expiresAt)
	s.metrics.ObserveOp(storePostgres, opPut, time.Since(start))
	if err != nil {
		s.metrics.IncrementError(storePostgres, opPut)
		span.RecordError(err)
		span.SetStatus(codes.Error, "postgres put failed")
		return fmt.Errorf("put kvs entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	ctx, span := tracer.Start(ctx, "kvs.postgres.delete",
		trace.WithAttributes(attribute.String("kvs.key", key)))
	defer span.End()

	start := time.Now()
	_, err := s.db.ExecContext(ctx, `DELETE FROM oid4vc_kvs WHERE key = $1`, key)
	s.metrics.ObserveOp(storePostgres, opDelete, time.Since(start))
	if err != nil {
		s.metrics.IncrementError(storePostgres, opDelete)
		span.RecordError(err)
		span.SetStatus(codes.Error, "postgres delete failed")
		return fmt.Errorf("delete kvs entry: %w", err)
	}
	return nil
}

// StartCleanup removes expired entries every interval until ctx is
// cancelled. A failed pass is logged and retried on the next tick.
func (s *PostgresStore) StartCleanup(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.RemoveExpiredAt(ctx, s.clock()); err != nil {
				if s.logger != nil {
					s.logger.WarnContext(ctx, "kvs cleanup pass failed", "error", err)
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RemoveExpiredAt removes all entries that have expired as of the given
// time. Exported for testability; the cleanup loop passes the store clock.
func (s *PostgresStore) RemoveExpiredAt(ctx context.Context, now time.Time) error {
	query := `DELETE FROM oid4vc_kvs WHERE expires_at IS NOT NULL AND expires_at <= $1`
	if _, err := s.db.ExecContext(ctx, query, now); err != nil {
		return fmt.Errorf("cleanup kvs entries: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
