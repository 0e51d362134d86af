package tiercache

// Hooks are lightweight callbacks for high-signal events. Implementations
// MUST be cheap and non-blocking; the engine calls them on hot paths. Wrap
// with hooks/async if a sink can block.
type Hooks interface {
	// The remote tier was unreachable (connectivity/timeout).
	// op ∈ {"get", "set", "remove"}.
	RemoteUnavailable(op, key string, err error)

	// The remote tier failed for any other reason.
	RemoteError(op, key string, err error)

	// A remote payload failed to decode; both tiers are being purged.
	CorruptEntryPurged(key string)

	// The local tier rejected a write (backpressure/eviction).
	LocalSetRejected(key string)

	// A Remove caller timed out waiting on the gate and proceeded anyway.
	GateTimeout(key string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) RemoteUnavailable(string, string, error) {}
func (NopHooks) RemoteError(string, string, error)       {}
func (NopHooks) CorruptEntryPurged(string)               {}
func (NopHooks) LocalSetRejected(string)                 {}
func (NopHooks) GateTimeout(string)                      {}
