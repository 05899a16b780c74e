package domain

import (
	"bytes"
	"encoding/json"
)

// Field is a patch value that distinguishes "absent" from "set to null" and
// "set to a value". The zero Field is absent.
type Field[T any] struct {
	set  bool
	null bool
	val  T
}

// Set returns a Field holding v.
func Set[T any](v T) Field[T] { return Field[T]{set: true, val: v} }

// Null returns a Field that explicitly clears the value.
func Null[T any]() Field[T] { return Field[T]{set: true, null: true} }

func (f Field[T]) IsSet() bool  { return f.set }
func (f Field[T]) IsNull() bool { return f.set && f.null }

// Value returns the held value and whether it is present and non-null.
func (f Field[T]) Value() (T, bool) {
	return f.val, f.set && !f.null
}

// UnmarshalJSON is only called for keys present in the document, so an
// absent key leaves the Field unset.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.null = true
		var zero T
		f.val = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.val)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return []byte("null"), nil
	}
	return json.Marshal(f.val)
}
