// Package prom exports engine events as Prometheus counters.
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/tiercache"
)

type Hooks struct {
	remoteUnavailable *prometheus.CounterVec
	remoteErrors      *prometheus.CounterVec
	corruptPurged     prometheus.Counter
	localSetRejected  prometheus.Counter
	gateTimeouts      prometheus.Counter
}

var _ tiercache.Hooks = (*Hooks)(nil)

// New builds the counters and registers them with reg (nil skips
// registration, useful in tests).
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		remoteUnavailable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tiercache_remote_unavailable_total",
			Help: "Remote tier calls that failed as unreachable or timed out.",
		}, []string{"op"}),
		remoteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tiercache_remote_errors_total",
			Help: "Remote tier calls that failed for non-connectivity reasons.",
		}, []string{"op"}),
		corruptPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tiercache_corrupt_entries_purged_total",
			Help: "Remote payloads that failed to decode and were purged.",
		}),
		localSetRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tiercache_local_set_rejected_total",
			Help: "Local tier writes rejected under pressure.",
		}),
		gateTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tiercache_remove_gate_timeouts_total",
			Help: "Remove callers that timed out waiting on the gate.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			h.remoteUnavailable,
			h.remoteErrors,
			h.corruptPurged,
			h.localSetRejected,
			h.gateTimeouts,
		)
	}
	return h
}

func (h *Hooks) RemoteUnavailable(op, _ string, _ error) {
	h.remoteUnavailable.WithLabelValues(op).Inc()
}
func (h *Hooks) RemoteError(op, _ string, _ error) { h.remoteErrors.WithLabelValues(op).Inc() }
func (h *Hooks) CorruptEntryPurged(string)         { h.corruptPurged.Inc() }
func (h *Hooks) LocalSetRejected(string)           { h.localSetRejected.Inc() }
func (h *Hooks) GateTimeout(string)                { h.gateTimeouts.Inc() }
