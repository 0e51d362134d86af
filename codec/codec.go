// Package codec (de)serializes values crossing the tier boundary. The local
// tier holds raw values; only payloads headed to or from the remote tier go
// through a Codec.
package codec

// Codec encodes/decodes values V to []byte for remote storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
