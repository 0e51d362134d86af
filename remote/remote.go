// Package remote defines the shared cache tier used by tiercache.
//
// A remote Store holds serialized payloads for cross-process caching. Calls
// cross the network and can fail; implementations must let connectivity and
// timeout failures stay distinguishable from other errors (wrap
// ErrUnavailable or surface net/context errors unchanged) so the engine can
// degrade instead of erroring.
package remote

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"
)

// Policy selects how a remote entry expires. Exactly one field should be set;
// the zero Policy means "engine default" (absolute, now + default remote TTL).
type Policy struct {
	// AbsoluteAt expires the entry at a fixed instant regardless of access.
	AbsoluteAt time.Time
	// SlidingIdle expires the entry after this long without a read; each
	// read resets the clock. Enforced by the store's own mechanism.
	SlidingIdle time.Duration
}

// IsZero reports whether the policy is unset (engine default applies).
func (p Policy) IsZero() bool {
	return p.AbsoluteAt.IsZero() && p.SlidingIdle <= 0
}

// Store is a minimal networked byte store with per-entry expiry.
// Get returns (payload, true, nil) on hit and (nil, false, nil) on miss;
// errors are transport/server failures, never misses.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte, p Policy) error
	Del(ctx context.Context, key string) error
	Close(ctx context.Context) error
}

// ErrUnavailable marks the remote tier as unreachable. Adapters wrap it when
// they can classify a failure themselves (e.g. an open circuit breaker);
// IsUnavailable also recognizes the usual transport-level causes directly.
var ErrUnavailable = errors.New("remote tier unavailable")

// IsUnavailable reports whether err is a connectivity/timeout failure, as
// opposed to any other backend error. The engine logs the former as warnings
// and the latter as errors; both degrade the same way.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
