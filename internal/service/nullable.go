package service

import (
	"bytes"
	"encoding/json"
)

// Nullable is a partial-update field that tells an explicit JSON null apart
// from an absent key. Set is true whenever the key was present.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some is a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null is a present null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
