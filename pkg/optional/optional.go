package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds a T that may be absent. The zero Value is absent.
//
// When used as a JSON field, a missing key or an explicit null decode to an
// absent Value, anything else decodes to a present one. Combine with
// `json:",omitzero"` to drop absent values on encode.
type Value[T any] struct {
	value T
	ok    bool
}

// Some returns a present Value wrapping v.
func Some[T any](v T) Value[T] {
	return Value[T]{value: v, ok: true}
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the wrapped value and whether it is present.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.ok
}

// Present reports whether a value was set.
func (v Value[T]) Present() bool {
	return v.ok
}

// OrZero returns the wrapped value or the zero T when absent.
func (v Value[T]) OrZero() T {
	return v.value
}

// IsZero lets encoding/json omit absent values with the omitzero option.
func (v Value[T]) IsZero() bool {
	return !v.ok
}

// MarshalJSON encodes the wrapped value, or null when absent.
func (v Value[T]) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}

// UnmarshalJSON decodes a present value unless the input is null.
func (v *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value[T]{}
		return nil
	}
	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*v = Value[T]{value: decoded, ok: true}
	return nil
}
