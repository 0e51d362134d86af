// Package sloghook logs engine events through log/slog with sampling and key
// redaction, for when hook events should land in application logs rather
// than metrics.
package sloghook

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/tiercache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	RemoteEvery uint64 // unavailable + error events
	PurgeEvery  uint64 // corrupt-entry purges
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	remoteCtr atomic.Uint64
	purgeCtr  atomic.Uint64
}

var _ tiercache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) RemoteUnavailable(op, key string, err error) {
	if h.l == nil || !sample(h.opts.RemoteEvery, &h.remoteCtr) {
		return
	}
	h.l.Warn("tiercache.remote_unavailable",
		"op", op,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) RemoteError(op, key string, err error) {
	if h.l == nil || !sample(h.opts.RemoteEvery, &h.remoteCtr) {
		return
	}
	h.l.Error("tiercache.remote_error",
		"op", op,
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) CorruptEntryPurged(key string) {
	if h.l == nil || !sample(h.opts.PurgeEvery, &h.purgeCtr) {
		return
	}
	h.l.Error("tiercache.corrupt_entry_purged", "key", h.redact(key))
}

func (h *Hooks) LocalSetRejected(key string) {
	if h.l == nil {
		return
	}
	h.l.Debug("tiercache.local_set_rejected", "key", h.redact(key))
}

func (h *Hooks) GateTimeout(key string) {
	if h.l == nil {
		return
	}
	h.l.Warn("tiercache.remove_gate_timeout", "key", h.redact(key))
}
