// Package keys holds key validation and namespacing shared by the engine.
package keys

import "errors"

// ErrEmpty is returned for empty keys. Surfaced to callers before any tier
// is touched; re-exported by the root package as ErrEmptyKey.
var ErrEmpty = errors.New("tiercache: empty key")

// Validate rejects keys the tiers must never see.
func Validate(key string) error {
	if key == "" {
		return ErrEmpty
	}
	return nil
}

// ValidateAll validates a batch up front so a bad key fails the whole call
// before any tier access.
func ValidateAll(keys []string) error {
	for _, k := range keys {
		if err := Validate(k); err != nil {
			return err
		}
	}
	return nil
}

// Join builds the storage key for a user key. An empty namespace means no
// prefix.
func Join(ns, key string) string {
	if ns == "" {
		return key
	}
	return ns + ":" + key
}
