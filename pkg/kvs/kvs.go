// Package kvs provides key-value storage over string keys and values with
// optional expiry: a Store interface plus in-memory, Redis, and PostgreSQL
// implementations. Absence of a key is data (a false found flag), not an
// error; a non-nil error means the backend itself failed. Callers that want
// storage faults as Results wrap calls in result.RunCatching or
// result.RunAsyncCatching at the call site.
package kvs

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
)

// ErrEmptyKey is returned by every implementation when the key is empty.
var ErrEmptyKey = errors.New("empty key")

var tracer = otel.Tracer("github.com/dentsusoken/oid4vc-core/pkg/kvs")

// Clock supplies the current time. Stores default to time.Now; tests inject
// a fixed clock to exercise expiry without sleeping.
type Clock func() time.Time

// Store reads and writes string values by key.
//
// Error contract:
//   - Get reports a missing or expired key as found == false with a nil error
//   - write operations return nil on success
//   - infrastructure failures are returned wrapped with context
type Store interface {
	// Get returns the value stored under key, or found == false when the
	// key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Put stores value under key. A positive ttl expires the entry after
	// that duration; ttl <= 0 stores it without expiry.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the entry under key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error
}
