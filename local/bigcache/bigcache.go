// Package bigcache adapts allegro/bigcache as a tiercache local tier for
// []byte values (pair it with codec.Bytes, i.e. Cache[[]byte]).
//
// BigCache stores raw bytes only: Set rejects any non-[]byte value. It also
// has no per-entry TTL; every entry lives for the configured global
// LifeWindow, so the engine's per-call TTLs are ignored here.
package bigcache

import (
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/tiercache/local"
)

type Store struct {
	c *bc.BigCache
}

var _ local.Store = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(key string) (any, bool) {
	b, err := s.c.Get(key)
	if err != nil {
		return nil, false
	}
	return b, true
}

func (s *Store) Set(key string, value any, _ time.Duration) bool {
	b, ok := value.([]byte)
	if !ok {
		return false
	}
	return s.c.Set(key, b) == nil
}

func (s *Store) Del(key string) {
	_ = s.c.Delete(key)
}

func (s *Store) Close() error {
	return s.c.Close()
}
