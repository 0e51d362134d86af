// Package local defines the process-local cache tier used by tiercache.
//
// A local Store holds raw (undecoded) values for fast in-process reads. It is
// a short-TTL front for the remote tier: entries are repopulated from remote
// reads and writes, so a local value is never older than the remote one for
// the same key. Implementations must be safe for concurrent use and must not
// block on Get/Set/Del.
package local

import (
	"sync"
	"time"
)

// Store is a minimal value store with TTLs.
// Get returns (value, true) on hit. Set returns ok=false when the store
// rejected the write under pressure; ttl<=0 means the store's own default
// (or no expiry for stores without one).
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration) bool
	Del(key string)
	Close() error
}

// SlidingStore is an optional capability for stores that can expire an entry
// after a period of inactivity, resetting the clock on each Get. The engine
// discovers it by type assertion; stores without it get a plain idle-window
// TTL instead.
type SlidingStore interface {
	Store
	SetSliding(key string, value any, idle time.Duration) bool
}

type memEntry struct {
	v        any
	deadline time.Time     // zero => no expiry
	idle     time.Duration // >0 => sliding; deadline pushed on each Get
}

// Memory is the built-in Store: a mutex-guarded map with absolute and
// sliding per-entry deadlines and an optional janitor goroutine that sweeps
// expired entries. Expired entries are also dropped lazily on Get, so the
// janitor only bounds memory, not correctness.
type Memory struct {
	mu sync.Mutex
	m  map[string]memEntry

	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ SlidingStore = (*Memory)(nil)

// NewMemory constructs a Memory store. sweepInterval <= 0 disables the
// janitor; lazy expiry on Get still applies.
func NewMemory(sweepInterval time.Duration) *Memory {
	s := &Memory{m: make(map[string]memEntry)}
	if sweepInterval > 0 {
		s.ticker = time.NewTicker(sweepInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.sweep(time.Now())
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Memory) Get(key string) (any, bool) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[key]
	if !ok {
		return nil, false
	}
	if !e.deadline.IsZero() && now.After(e.deadline) {
		delete(s.m, key)
		return nil, false
	}
	if e.idle > 0 {
		e.deadline = now.Add(e.idle)
		s.m[key] = e
	}
	return e.v, true
}

func (s *Memory) Set(key string, value any, ttl time.Duration) bool {
	var dl time.Time
	if ttl > 0 {
		dl = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.m[key] = memEntry{v: value, deadline: dl}
	s.mu.Unlock()
	return true
}

func (s *Memory) SetSliding(key string, value any, idle time.Duration) bool {
	if idle <= 0 {
		return s.Set(key, value, 0)
	}
	s.mu.Lock()
	s.m[key] = memEntry{v: value, deadline: time.Now().Add(idle), idle: idle}
	s.mu.Unlock()
	return true
}

func (s *Memory) Del(key string) {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
}

// Len reports the number of live entries (expired-but-unswept included).
func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *Memory) sweep(now time.Time) {
	s.mu.Lock()
	for k, e := range s.m {
		if !e.deadline.IsZero() && now.After(e.deadline) {
			delete(s.m, k)
		}
	}
	s.mu.Unlock()
}

func (s *Memory) Close() error {
	s.once.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			s.ticker.Stop()
			s.wg.Wait()
		}
	})
	return nil
}
