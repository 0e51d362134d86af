// Package asynchook decouples hook sinks from the cache hot path: events are
// queued and delivered by worker goroutines, and dropped when the queue is
// full.
//
//	raw := sloghook.New(slog.Default(), sloghook.Options{RemoteEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/tiercache"
)

type Hooks struct {
	inner tiercache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ tiercache.Hooks = (*Hooks)(nil)

func New(inner tiercache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) RemoteUnavailable(op, key string, err error) {
	h.try(func() { h.inner.RemoteUnavailable(op, key, err) })
}
func (h *Hooks) RemoteError(op, key string, err error) {
	h.try(func() { h.inner.RemoteError(op, key, err) })
}
func (h *Hooks) CorruptEntryPurged(key string) { h.try(func() { h.inner.CorruptEntryPurged(key) }) }
func (h *Hooks) LocalSetRejected(key string)   { h.try(func() { h.inner.LocalSetRejected(key) }) }
func (h *Hooks) GateTimeout(key string)        { h.try(func() { h.inner.GateTimeout(key) }) }
