package tiercache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/tiercache/codec"
	"github.com/unkn0wn-root/tiercache/config"
	lc "github.com/unkn0wn-root/tiercache/local"
	rm "github.com/unkn0wn-root/tiercache/remote"
)

// Factory produces a fresh value for GetOrCreate on a miss.
type Factory[V any] func(ctx context.Context) (V, error)

// Cache is the two-level cache API. V is the caller's value type;
// serialization across the tier boundary is handled by a pluggable Codec[V].
//
// Presence is explicit: reads return ok=false on a miss, so zero values are
// cacheable and indistinguishable from any other value. All methods are safe
// for concurrent use; run them in a goroutine for fire-and-forget call sites.
type Cache[V any] interface {
	// Get returns the cached value for key, trying the local tier first.
	// Backend failures surface as a miss, never as an error.
	Get(ctx context.Context, key string) (v V, ok bool, err error)

	// GetMany maps Get over keys, skipping misses. The result holds an
	// entry only for keys that hit.
	GetMany(ctx context.Context, keys []string) (map[string]V, error)

	// Set stores value with the default remote TTL.
	Set(ctx context.Context, key string, value V) error
	// SetAbsolute stores value expiring at a fixed instant.
	SetAbsolute(ctx context.Context, key string, value V, at time.Time) error
	// SetSliding stores value expiring after idle time without a read.
	SetSliding(ctx context.Context, key string, value V, idle time.Duration) error

	// Remove deletes key from both tiers. Concurrent removals are
	// serialized through a latency-bounded single-permit gate.
	Remove(ctx context.Context, key string) error

	// GetOrCreate returns the cached value or runs fn, stores its result
	// with the default policy, and returns it. Concurrent callers for the
	// same key share one fn run. fn errors propagate unchanged.
	GetOrCreate(ctx context.Context, key string, fn Factory[V]) (V, error)
	// GetOrCreateWith is GetOrCreate with an explicit expiry policy.
	GetOrCreateWith(ctx context.Context, key string, fn Factory[V], p rm.Policy) (V, error)

	// Close releases both tiers.
	Close(ctx context.Context) error
}

// Options tune the engine. Local, Remote and Codec are required; others have
// sensible defaults.
type Options[V any] struct {
	// Required
	Local  lc.Store
	Remote rm.Store
	Codec  c.Codec[V]

	Namespace     string        // key prefix to avoid collisions; "" => none
	Logger        Logger        // nil => NopLogger
	Hooks         Hooks         // nil => NopHooks
	LocalTTL      time.Duration // local repopulation TTL; 0 => 1m
	RemoteTTL     time.Duration // default remote TTL; 0 => 1h
	RemoveTimeout time.Duration // remove-gate acquire bound; 0 => 5s
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}

// NewWithConfig maps a loaded config.Config onto Options. The remote store is
// still injected: the engine never dials anything itself (cfg.RemoteAddr is
// for the host, see remote/redis.NewFromAddr).
func NewWithConfig[V any](cfg *config.Config, local lc.Store, remote rm.Store, codec c.Codec[V]) (Cache[V], error) {
	return New[V](Options[V]{
		Local:         local,
		Remote:        remote,
		Codec:         codec,
		Namespace:     cfg.Namespace,
		LocalTTL:      cfg.LocalTTL.Duration(),
		RemoteTTL:     cfg.RemoteTTL.Duration(),
		RemoveTimeout: cfg.RemoveTimeout.Duration(),
	})
}
