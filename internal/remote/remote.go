// Package remote defines the object-collection API the entity stores talk to
// and its Postgres and in-memory implementations.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Record is one untyped object as the remote side returns it.
type Record map[string]any

// ID returns the record identifier or "" when absent.
func (r Record) ID() string {
	s, _ := r["id"].(string)
	return s
}

type Op int

const (
	OpEq Op = iota
	OpIn
)

// Filter is an equality or membership predicate on a top-level field.
type Filter struct {
	Field  string
	Op     Op
	Value  any
	Values []any
}

func Eq(field string, v any) Filter { return Filter{Field: field, Op: OpEq, Value: v} }

func In(field string, vs ...any) Filter { return Filter{Field: field, Op: OpIn, Values: vs} }

type Order struct {
	Field string
	Desc  bool
}

// Query selects records. The zero Query selects everything in insertion order.
type Query struct {
	Filters []Filter
	Order   []Order
}

func (q Query) Where(f ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), f...)
	return q
}

func (q Query) OrderBy(field string, desc bool) Query {
	q.Order = append(append([]Order(nil), q.Order...), Order{Field: field, Desc: desc})
	return q
}

// Collection is a request/response API over one named collection.
type Collection interface {
	Select(ctx context.Context, q Query) ([]Record, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, id string, patch Record) (Record, error)
	Delete(ctx context.Context, id string) error
}

// Database hands out collections by name.
type Database interface {
	Collection(name string) Collection
}

type Code string

const (
	CodeUnavailable Code = "unavailable"
	CodeNotFound    Code = "not_found"
	CodeInvalid     Code = "invalid"
)

// Error is the structured failure every collection call returns.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("remote %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the code of a remote error, or CodeUnavailable for any other
// non-nil error.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeUnavailable
}

// normalize round-trips a record through JSON so every value has the shape a
// network response would have (strings, float64, bool, []any, map[string]any).
func normalize(rec Record) (Record, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, errorf(CodeInvalid, err, "encode record")
	}
	var out Record
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, errorf(CodeInvalid, err, "decode record")
	}
	if out == nil {
		out = Record{}
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errorf(CodeInvalid, err, "encode value")
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, errorf(CodeInvalid, err, "decode value")
	}
	return out, nil
}
