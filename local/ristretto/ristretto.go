// Package ristretto adapts dgraph-io/ristretto as a tiercache local tier.
package ristretto

import (
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/tiercache/local"
)

type Store struct {
	c *rc.Cache
}

var _ local.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(key string) (any, bool) {
	return s.c.Get(key)
}

// Set stores value with uniform cost 1. Ristretto admits writes
// probabilistically; ok=false means the entry was rejected under pressure.
// Sliding expiry is not supported; the engine falls back to a plain TTL.
func (s *Store) Set(key string, value any, ttl time.Duration) bool {
	if ttl > 0 {
		return s.c.SetWithTTL(key, value, 1, ttl)
	}
	return s.c.Set(key, value, 1)
}

func (s *Store) Del(key string) {
	s.c.Del(key)
}

func (s *Store) Close() error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto's counters for the host application
// (not part of local.Store).
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
