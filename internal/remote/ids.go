package remote

import (
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDFunc produces identifiers for inserted records that carry none.
type IDFunc func() string

// ULIDs returns ids like "task_01HZ...", sortable by creation time.
func ULIDs(prefix string) IDFunc {
	return func() string { return prefix + ulid.Make().String() }
}

// UUIDs returns random version 4 UUIDs.
func UUIDs() IDFunc {
	return func() string { return uuid.NewString() }
}

// Schema configures id assignment per collection name.
type Schema map[string]IDFunc

func (s Schema) idFunc(name string) IDFunc {
	if f, ok := s[name]; ok && f != nil {
		return f
	}
	return UUIDs()
}
