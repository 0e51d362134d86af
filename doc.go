// Package tiercache implements a two-level cache: a fast process-local tier
// in front of a shared remote tier, behind a single get/set/remove API.
//
// Components:
//   - local.Store: in-process value store with TTLs (built-in Memory,
//     Ristretto, BigCache).
//   - remote.Store: shared byte store with absolute/sliding expiry
//     (Redis; optionally wrapped in a circuit breaker).
//   - codec.Codec[V]: (de)serializes V <-> []byte at the tier boundary.
//
// Reads try the local tier first and only then the remote tier, repopulating
// the local tier on a remote hit. Writes go remote-first, then local. When
// the remote tier is unreachable the engine degrades instead of failing:
// gets miss, sets land in the local tier with the caller's intended expiry,
// removes proceed locally. No backend error ever reaches the caller; only
// input validation (and Set encode failures) propagate. A Get miss is
// therefore ambiguous between "never cached", "expired" and "remote down".
//
//	cache, _ := tiercache.New[User](tiercache.Options[User]{
//	    Namespace: "user",
//	    Local:     local.NewMemory(time.Minute),
//	    Remote:    remoteStore, // e.g. redis.New(...)
//	    Codec:     codec.JSON[User]{},
//	})
//	_ = cache.Set(ctx, "u:1", u)
//	u, ok, _ := cache.Get(ctx, "u:1")
package tiercache
