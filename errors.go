package tiercache

import (
	"errors"

	"github.com/unkn0wn-root/tiercache/internal/keys"
)

// ErrEmptyKey is returned when an operation is called with an empty key,
// before either tier is touched.
var ErrEmptyKey = keys.ErrEmpty

// ErrNilFactory is returned by GetOrCreate when fn is nil.
var ErrNilFactory = errors.New("tiercache: nil factory")
