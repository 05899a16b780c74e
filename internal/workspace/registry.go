package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Options struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// Registry keeps one Workspace per browser session ID and closes the ones
// that have been idle longer than IdleTimeout.
type Registry struct {
	deps Deps
	opts Options
	log  *slog.Logger

	// base outlives requests; workspace resolution and loads run under it.
	base   context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	spaces map[string]*Workspace
	sf     singleflight.Group
}

func NewRegistry(deps Deps, opts Options) *Registry {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 30 * time.Minute
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = 5 * time.Minute
	}
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	base, cancel := context.WithCancel(context.Background())
	return &Registry{
		deps:   deps,
		opts:   opts,
		log:    log,
		base:   base,
		cancel: cancel,
		spaces: make(map[string]*Workspace),
	}
}

// Open returns the workspace of sid, creating and starting it on first use.
// Concurrent first requests of one session share a single workspace.
func (r *Registry) Open(sid string) *Workspace {
	r.mu.Lock()
	w, ok := r.spaces[sid]
	r.mu.Unlock()
	if ok {
		w.touch()
		return w
	}

	v, _, _ := r.sf.Do(sid, func() (any, error) {
		r.mu.Lock()
		if w, ok := r.spaces[sid]; ok {
			r.mu.Unlock()
			return w, nil
		}
		r.mu.Unlock()

		w := newWorkspace(sid, r.deps)
		w.start(r.base)

		r.mu.Lock()
		r.spaces[sid] = w
		r.mu.Unlock()
		r.log.Debug("workspace opened", "workspace", shortID(sid))
		return w, nil
	})
	w = v.(*Workspace)
	w.touch()
	return w
}

// Len returns the number of open workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

// Run sweeps idle workspaces until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// Sweep closes workspaces idle since before now minus IdleTimeout.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.opts.IdleTimeout)
	var idle []*Workspace
	r.mu.Lock()
	for sid, w := range r.spaces {
		if w.idleSince().Before(cutoff) {
			idle = append(idle, w)
			delete(r.spaces, sid)
		}
	}
	r.mu.Unlock()

	for _, w := range idle {
		w.close()
	}
	if len(idle) > 0 {
		r.log.Info("closed idle workspaces", "count", len(idle))
	}
	return len(idle)
}

// Close closes every workspace.
func (r *Registry) Close() {
	r.cancel()
	r.mu.Lock()
	spaces := r.spaces
	r.spaces = make(map[string]*Workspace)
	r.mu.Unlock()
	for _, w := range spaces {
		w.close()
	}
}
