package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/dentsusoken/oid4vc-core/pkg/kvs"
)

const defaultSweepInterval = time.Minute

// main wires the expiry sweep for the postgres-backed key-value store and
// keeps the process lifecycle small. Redis expires keys server-side; the
// kvs table needs a host process to do the same.
func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, sweepIntervalFromEnv(log)); err != nil {
		log.Error("kvs sweeper failed", "error", err)
		os.Exit(1)
	}
}

// sweepIntervalFromEnv reads OID4VC_KVS_SWEEP_INTERVAL so main stays lean.
func sweepIntervalFromEnv(log *slog.Logger) time.Duration {
	raw := os.Getenv("OID4VC_KVS_SWEEP_INTERVAL")
	if raw == "" {
		return defaultSweepInterval
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		log.Warn("invalid OID4VC_KVS_SWEEP_INTERVAL, using default", "value", raw)
		return defaultSweepInterval
	}
	return interval
}

func run(ctx context.Context, log *slog.Logger, interval time.Duration) error {
	db, err := kvs.NewPostgresDB(ctx, kvs.PostgresConfigFromEnv())
	if err != nil {
		return err
	}
	defer db.Close()

	store := kvs.NewPostgres(db, kvs.WithPostgresLogger(log))
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	log.Info("starting kvs sweeper", "interval", interval.String())

	if err := store.StartCleanup(ctx, interval); !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("kvs sweeper stopped")
	return nil
}
