// Package store provides the typed task and article stores over a remote
// collection. Stores hold no cache; every read goes to the remote side and
// every record is validated before it is returned.
package store

import (
	"errors"
	"fmt"
	"time"

	"taskflow/internal/remote"
)

const (
	TasksCollection    = "tasks"
	ArticlesCollection = "articles"
)

var (
	ErrUnavailable = errors.New("store unavailable")
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation rejected")
)

// Schema returns the id assignment used for the store collections.
func Schema() remote.Schema {
	return remote.Schema{
		TasksCollection:    remote.ULIDs("task_"),
		ArticlesCollection: remote.UUIDs(),
	}
}

// Clock returns the current time. Stores stamp timestamps with it.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// classify wraps a remote failure with the matching store sentinel while
// keeping the cause in the chain.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch remote.CodeOf(err) {
	case remote.CodeNotFound:
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	case remote.CodeInvalid:
		return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
}
