package tiercache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	cd "github.com/unkn0wn-root/tiercache/codec"
	"github.com/unkn0wn-root/tiercache/internal/keys"
	lc "github.com/unkn0wn-root/tiercache/local"
	rm "github.com/unkn0wn-root/tiercache/remote"
)

const (
	defaultLocalTTL      = time.Minute
	defaultRemoteTTL     = time.Hour
	defaultRemoveTimeout = 5 * time.Second

	// Bound for the detached corrupt-entry purge goroutine.
	purgeTimeout = 10 * time.Second
)

type cache[V any] struct {
	ns     string
	local  lc.Store
	remote rm.Store
	codec  cd.Codec[V]
	log    Logger
	hooks  Hooks

	localTTL      time.Duration
	remoteTTL     time.Duration
	removeTimeout time.Duration

	// Single-permit gate serializing removals against the remote tier.
	gate   *semaphore.Weighted
	flight singleflight.Group
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Local == nil {
		return nil, fmt.Errorf("tiercache: local store is required")
	}
	if opts.Remote == nil {
		return nil, fmt.Errorf("tiercache: remote store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("tiercache: codec is required")
	}

	c := &cache[V]{
		ns:     opts.Namespace,
		local:  opts.Local,
		remote: opts.Remote,
		codec:  opts.Codec,
		gate:   semaphore.NewWeighted(1),
	}

	// defaults
	c.log = opts.Logger
	if c.log == nil {
		c.log = NopLogger{}
	}
	c.hooks = opts.Hooks
	if c.hooks == nil {
		c.hooks = NopHooks{}
	}
	c.localTTL = coalesce[time.Duration](opts.LocalTTL, defaultLocalTTL)
	c.remoteTTL = coalesce[time.Duration](opts.RemoteTTL, defaultRemoteTTL)
	c.removeTimeout = coalesce[time.Duration](opts.RemoveTimeout, defaultRemoveTimeout)

	return c, nil
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if err := keys.Validate(key); err != nil {
		return zero, false, err
	}
	k := c.storageKey(key)

	if raw, ok := c.local.Get(k); ok {
		if v, ok := raw.(V); ok {
			return v, true, nil
		}
		// foreign entry shape under our key; drop and fall through
		c.local.Del(k)
	}

	payload, ok, err := c.remote.Get(ctx, k)
	if err != nil {
		c.remoteFailure("get", key, err)
		return zero, false, nil
	}
	if !ok || len(payload) == 0 {
		return zero, false, nil
	}

	v, err := c.codec.Decode(payload)
	if err != nil {
		c.log.Error("corrupt remote payload, purging", Fields{"key": key, "err": err})
		c.hooks.CorruptEntryPurged(key)
		c.purgeAsync(key)
		return zero, false, nil
	}

	if !c.local.Set(k, v, c.localTTL) {
		c.hooks.LocalSetRejected(key)
	}
	return v, true, nil
}

func (c *cache[V]) GetMany(ctx context.Context, ks []string) (map[string]V, error) {
	if err := keys.ValidateAll(ks); err != nil {
		return nil, err
	}
	out := make(map[string]V, len(ks))
	for _, k := range ks {
		if v, ok, err := c.Get(ctx, k); err == nil && ok {
			out[k] = v
		}
	}
	return out, nil
}

func (c *cache[V]) Set(ctx context.Context, key string, value V) error {
	return c.set(ctx, key, value, rm.Policy{})
}

func (c *cache[V]) SetAbsolute(ctx context.Context, key string, value V, at time.Time) error {
	return c.set(ctx, key, value, rm.Policy{AbsoluteAt: at})
}

func (c *cache[V]) SetSliding(ctx context.Context, key string, value V, idle time.Duration) error {
	return c.set(ctx, key, value, rm.Policy{SlidingIdle: idle})
}

// set writes remote-first. Remote success also refreshes the local tier with
// the default local TTL; an unreachable remote falls back to a local-only
// write carrying the caller's intended policy; any other remote failure
// leaves both tiers untouched. Backend errors never propagate.
func (c *cache[V]) set(ctx context.Context, key string, value V, p rm.Policy) error {
	if err := keys.Validate(key); err != nil {
		return err
	}
	payload, err := c.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("tiercache: encode %q: %w", key, err)
	}

	resolved := p
	if resolved.IsZero() {
		resolved = rm.Policy{AbsoluteAt: time.Now().Add(c.remoteTTL)}
	}

	k := c.storageKey(key)
	if err := c.remote.Set(ctx, k, payload, resolved); err != nil {
		if !rm.IsUnavailable(err) {
			c.log.Error("remote set failed", Fields{"key": key, "err": err})
			c.hooks.RemoteError("set", key, err)
			return nil
		}
		c.log.Warn("remote tier unavailable, caching locally only", Fields{"key": key, "err": err})
		c.hooks.RemoteUnavailable("set", key, err)
		c.localFallback(k, key, value, p)
		return nil
	}

	if !c.local.Set(k, value, c.localTTL) {
		c.hooks.LocalSetRejected(key)
	}
	return nil
}

// localFallback writes value into the local tier with the policy the caller
// originally asked the remote tier to enforce.
func (c *cache[V]) localFallback(k, key string, value V, p rm.Policy) {
	var ok bool
	switch {
	case p.SlidingIdle > 0:
		if s, sliding := c.local.(lc.SlidingStore); sliding {
			ok = s.SetSliding(k, value, p.SlidingIdle)
		} else {
			ok = c.local.Set(k, value, p.SlidingIdle)
		}
	case !p.AbsoluteAt.IsZero():
		ttl := time.Until(p.AbsoluteAt)
		if ttl <= 0 {
			return // already expired, nothing to keep
		}
		ok = c.local.Set(k, value, ttl)
	default:
		ok = c.local.Set(k, value, c.remoteTTL)
	}
	if !ok {
		c.hooks.LocalSetRejected(key)
	}
}

// Remove deletes key from both tiers. The gate bounds wait latency only: a
// caller that times out acquiring it still issues the remote delete. The
// local delete always runs, whatever the remote outcome.
func (c *cache[V]) Remove(ctx context.Context, key string) error {
	if err := keys.Validate(key); err != nil {
		return err
	}
	k := c.storageKey(key)

	gctx, cancel := context.WithTimeout(ctx, c.removeTimeout)
	acquired := c.gate.Acquire(gctx, 1) == nil
	cancel()
	if acquired {
		defer c.gate.Release(1)
	} else {
		c.log.Warn("remove gate timeout", Fields{"key": key})
		c.hooks.GateTimeout(key)
	}

	if err := c.remote.Del(ctx, k); err != nil {
		c.remoteFailure("remove", key, err)
	}
	c.local.Del(k)
	return nil
}

func (c *cache[V]) GetOrCreate(ctx context.Context, key string, fn Factory[V]) (V, error) {
	return c.GetOrCreateWith(ctx, key, fn, rm.Policy{})
}

func (c *cache[V]) GetOrCreateWith(ctx context.Context, key string, fn Factory[V], p rm.Policy) (V, error) {
	var zero V
	if err := keys.Validate(key); err != nil {
		return zero, err
	}
	if fn == nil {
		return zero, ErrNilFactory
	}

	if v, ok, _ := c.Get(ctx, key); ok {
		return v, nil
	}

	// Collapse concurrent factory runs for the same key.
	res, err, _ := c.flight.Do(c.storageKey(key), func() (any, error) {
		if v, ok, _ := c.Get(ctx, key); ok {
			return v, nil
		}
		v, err := fn(ctx)
		if err != nil {
			return zero, err
		}
		_ = c.set(ctx, key, v, p)
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return res.(V), nil
}

func (c *cache[V]) Close(ctx context.Context) error {
	if c.local != nil {
		_ = c.local.Close()
	}
	if c.remote != nil {
		return c.remote.Close(ctx)
	}
	return nil
}

// purgeAsync removes key from both tiers in the background with a detached,
// deadline-bounded context, so a slow remote cannot stall the read path.
func (c *cache[V]) purgeAsync(key string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()
		_ = c.Remove(ctx, key)
	}()
}

func (c *cache[V]) remoteFailure(op, key string, err error) {
	if rm.IsUnavailable(err) {
		c.log.Warn("remote tier unavailable", Fields{"op": op, "key": key, "err": err})
		c.hooks.RemoteUnavailable(op, key, err)
		return
	}
	c.log.Error("remote tier error", Fields{"op": op, "key": key, "err": err})
	c.hooks.RemoteError(op, key, err)
}

func (c *cache[V]) storageKey(userKey string) string {
	return keys.Join(c.ns, userKey)
}
