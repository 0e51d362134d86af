// Package breaker wraps a remote.Store behind a sony/gobreaker circuit
// breaker. While the breaker is open every call fails fast with
// remote.ErrUnavailable, so the engine degrades to local-only instead of
// waiting on a dead backend.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	rm "github.com/unkn0wn-root/tiercache/remote"
)

type Store struct {
	inner rm.Store
	cb    *gobreaker.CircuitBreaker
}

var _ rm.Store = (*Store)(nil)

type Config struct {
	Name        string
	MaxRequests uint32        // half-open probe budget; 0 => 1
	Interval    time.Duration // closed-state counter reset window
	Timeout     time.Duration // open -> half-open; 0 => gobreaker default (60s)
	// ReadyToTrip decides when the breaker opens; nil => 5 consecutive
	// unavailable failures.
	ReadyToTrip func(gobreaker.Counts) bool
}

func New(inner rm.Store, cfg Config) *Store {
	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
	}
	if cfg.ReadyToTrip != nil {
		st.ReadyToTrip = cfg.ReadyToTrip
	} else {
		st.ReadyToTrip = func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 5 }
	}
	// Only transport-level failures count against the breaker; a plain
	// backend error (bad command, OOM) is not a reason to stop calling.
	st.IsSuccessful = func(err error) bool { return err == nil || !rm.IsUnavailable(err) }
	return &Store{inner: inner, cb: gobreaker.NewCircuitBreaker(st)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	type res struct {
		b  []byte
		ok bool
	}
	out, err := s.cb.Execute(func() (any, error) {
		b, ok, err := s.inner.Get(ctx, key)
		return res{b: b, ok: ok}, err
	})
	if err != nil {
		return nil, false, mapErr(err)
	}
	r := out.(res)
	return r.b, r.ok, nil
}

func (s *Store) Set(ctx context.Context, key string, payload []byte, p rm.Policy) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.inner.Set(ctx, key, payload, p)
	})
	return mapErr(err)
}

func (s *Store) Del(ctx context.Context, key string) error {
	_, err := s.cb.Execute(func() (any, error) {
		return nil, s.inner.Del(ctx, key)
	})
	return mapErr(err)
}

// Close bypasses the breaker; shutdown must reach the inner store.
func (s *Store) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}

// State exposes the breaker state for the host application.
func (s *Store) State() gobreaker.State { return s.cb.State() }

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", rm.ErrUnavailable, err)
	}
	return err
}
