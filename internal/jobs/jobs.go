// Package jobs runs simulated background jobs that clients poll for
// progress.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNotFound    = errors.New("job not found")
	ErrInvalidType = errors.New("invalid job type")
	ErrClosed      = errors.New("job runner closed")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the job will not change any more.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusFailed }

const progressStep = 20

type Job struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Store keeps job snapshots. Finish stores a terminal snapshot that must
// disappear from Get after ttl.
type Store interface {
	Put(ctx context.Context, j Job) error
	Finish(ctx context.Context, j Job, ttl time.Duration) error
	Get(ctx context.Context, id string) (Job, bool, error)
}

// StepFunc is called at every progress step of a job of its type. Returning
// an error fails the job.
type StepFunc func(ctx context.Context, job Job) error

type Options struct {
	Tick      time.Duration
	Retention time.Duration
}

// Runner enqueues jobs and advances them on a fixed tick.
type Runner struct {
	store Store
	opts  Options
	log   *slog.Logger

	mu       sync.RWMutex
	handlers map[string]StepFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRunner(store Store, opts Options, log *slog.Logger) *Runner {
	if opts.Tick <= 0 {
		opts.Tick = 500 * time.Millisecond
	}
	if opts.Retention <= 0 {
		opts.Retention = 5 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		store:    store,
		opts:     opts,
		log:      log,
		handlers: make(map[string]StepFunc),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Handle registers fn for jobs of type typ. Types without a handler only
// report progress.
func (r *Runner) Handle(typ string, fn StepFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[typ] = fn
}

// Enqueue stores a pending job and starts processing it.
func (r *Runner) Enqueue(ctx context.Context, typ string) (string, error) {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return "", ErrInvalidType
	}
	if r.ctx.Err() != nil {
		return "", ErrClosed
	}
	j := Job{
		ID:        "job_" + ulid.Make().String(),
		Type:      typ,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.Put(ctx, j); err != nil {
		return "", fmt.Errorf("enqueue %s: %w", typ, err)
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.process(j)
	}()
	return j.ID, nil
}

// Status returns the latest snapshot of job id.
func (r *Runner) Status(ctx context.Context, id string) (Job, error) {
	j, ok, err := r.store.Get(ctx, id)
	if err != nil {
		return Job{}, fmt.Errorf("job %s: %w", id, err)
	}
	if !ok {
		return Job{}, ErrNotFound
	}
	return j, nil
}

// Close stops every running job and waits for them to return.
func (r *Runner) Close() {
	r.cancel()
	r.wg.Wait()
}

func (r *Runner) process(j Job) {
	ctx := r.ctx
	r.mu.RLock()
	step := r.handlers[j.Type]
	r.mu.RUnlock()

	j.Status = StatusProcessing
	if err := r.store.Put(ctx, j); err != nil {
		r.log.Error("job store", "job", j.ID, "error", err)
	}

	ticker := time.NewTicker(r.opts.Tick)
	defer ticker.Stop()
	for progress := 0; progress <= 100; progress += progressStep {
		select {
		case <-ctx.Done():
			r.finish(j, fmt.Errorf("interrupted: %w", ctx.Err()))
			return
		case <-ticker.C:
		}
		j.Progress = progress
		if step != nil {
			if err := step(ctx, j); err != nil {
				r.finish(j, err)
				return
			}
		}
		if err := r.store.Put(ctx, j); err != nil {
			r.log.Error("job store", "job", j.ID, "error", err)
		}
	}
	r.finish(j, nil)
}

func (r *Runner) finish(j Job, cause error) {
	now := time.Now().UTC()
	j.CompletedAt = &now
	if cause != nil {
		j.Status = StatusFailed
		j.Error = cause.Error()
		r.log.Warn("job failed", "job", j.ID, "type", j.Type, "error", cause)
	} else {
		j.Status = StatusCompleted
		j.Progress = 100
		r.log.Info("job completed", "job", j.ID, "type", j.Type)
	}
	// The runner context may already be cancelled; the final write must
	// still land.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.store.Finish(ctx, j, r.opts.Retention); err != nil {
		r.log.Error("job store", "job", j.ID, "error", err)
	}
}
