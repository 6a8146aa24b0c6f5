package dto

import (
	"bytes"
	"encoding/json"
)

// Optional is a PATCH field that tells "absent" apart from "null".
// Set is true whenever the key was present in the body; Value is nil for an
// explicit null, which clears the column.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// IsZero lets `omitzero` drop absent fields when a client encodes a patch.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// Validatable hands validator the wrapped value, or nil when there is none.
func (o Optional[T]) Validatable() any {
	if o.Value == nil {
		return nil
	}
	return *o.Value
}
