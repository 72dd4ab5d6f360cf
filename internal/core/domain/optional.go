package domain

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state JSON field used by partial updates:
// absent (Set == false), explicit null (Set && Null) or a value.
type Optional[T any] struct {
	Set  bool
	Null bool
	V    T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, V: v}
}

// Null returns an Optional that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is only called when the key
// is present, which is how absence is detected.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.V = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.V)
}

// Value returns the held value and whether one is present.
func (o Optional[T]) Value() (T, bool) {
	return o.V, o.Set && !o.Null
}

// Ptr returns a pointer to the held value, or nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.V
	return &v
}
