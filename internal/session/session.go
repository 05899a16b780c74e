// Package session tracks who is signed in to a workspace.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	dom "taskflow/internal/domain"
	"taskflow/internal/notify"
)

// ErrResolutionFailed marks a failed lookup of the current session. It is
// never fatal; the manager falls back to Anonymous.
var ErrResolutionFailed = errors.New("session resolution failed")

const restoreFailedMessage = "Unable to restore your session. Please sign in again."

type State int

const (
	Resolving State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Identity is the remote identity collaborator as seen by the manager.
// CurrentSession returns nil when nobody is signed in. Subscribe delivers nil
// on sign-out.
type Identity interface {
	CurrentSession(ctx context.Context) (*dom.Account, error)
	Subscribe(fn func(*dom.Account)) (unsubscribe func())
}

// Snapshot is the observable state of a Manager. User is set only when
// State is Authenticated.
type Snapshot struct {
	State State     `json:"state"`
	User  *dom.User `json:"user,omitempty"`
}

type Listener func(Snapshot)

// Manager is the session state machine. It starts in Resolving and leaves it
// exactly once, on whichever of the initial lookup or a change notification
// arrives first.
type Manager struct {
	identity Identity
	notifier notify.Notifier
	log      *slog.Logger

	// emit serialises transitions with their listener calls so listeners
	// observe states in order.
	emit sync.Mutex

	mu          sync.Mutex
	state       State
	user        *dom.User
	ready       chan struct{}
	started     bool
	unsubscribe func()
	listeners   map[int]Listener
	nextID      int
}

func NewManager(identity Identity, n notify.Notifier, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		identity:  identity,
		notifier:  n,
		log:       log,
		state:     Resolving,
		ready:     make(chan struct{}),
		listeners: make(map[int]Listener),
	}
}

// Start subscribes to change notifications and resolves the current session
// in the background. Calling it again does nothing.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	unsubscribe := m.identity.Subscribe(m.changed)
	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()

	go m.resolve(ctx)
}

// Stop detaches from the identity collaborator. The current state is kept.
func (m *Manager) Stop() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Ready is closed once the manager has left Resolving.
func (m *Manager) Ready() <-chan struct{} { return m.ready }

// Wait blocks until the manager has left Resolving or ctx is done.
func (m *Manager) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-m.ready:
		return m.Current(), nil
	case <-ctx.Done():
		return m.Current(), ctx.Err()
	}
}

func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// User returns the signed-in identity, if any.
func (m *Manager) User() (dom.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return dom.User{}, false
	}
	return *m.user, true
}

// Subscribe registers l for every later transition.
func (m *Manager) Subscribe(l Listener) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = l
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) resolve(ctx context.Context) {
	acct, err := m.identity.CurrentSession(ctx)
	if err != nil {
		if m.finalize(nil) {
			m.log.Warn("restore session", "error", errors.Join(ErrResolutionFailed, err))
			notify.Warning(m.notifier, restoreFailedMessage)
		}
		return
	}
	if !m.finalize(acct) {
		m.log.Debug("initial session lookup arrived after a change notification")
	}
}

// changed handles a notification from the identity collaborator.
func (m *Manager) changed(acct *dom.Account) {
	if m.finalize(acct) {
		return
	}
	m.transition(acct)
}

// finalize leaves Resolving. It reports false if that already happened.
func (m *Manager) finalize(acct *dom.Account) bool {
	m.emit.Lock()
	defer m.emit.Unlock()

	m.mu.Lock()
	if m.state != Resolving {
		m.mu.Unlock()
		return false
	}
	m.set(acct)
	close(m.ready)
	snap, listeners := m.snapshot(), m.listenerList()
	m.mu.Unlock()

	m.publish(snap, listeners)
	return true
}

func (m *Manager) transition(acct *dom.Account) {
	m.emit.Lock()
	defer m.emit.Unlock()

	m.mu.Lock()
	before := m.snapshot()
	m.set(acct)
	snap, listeners := m.snapshot(), m.listenerList()
	m.mu.Unlock()

	if sameSnapshot(before, snap) {
		return
	}
	m.publish(snap, listeners)
}

func (m *Manager) set(acct *dom.Account) {
	if acct == nil {
		m.state, m.user = Anonymous, nil
		return
	}
	u := Project(*acct)
	m.state, m.user = Authenticated, &u
}

func (m *Manager) snapshot() Snapshot {
	s := Snapshot{State: m.state}
	if m.user != nil {
		u := *m.user
		s.User = &u
	}
	return s
}

func (m *Manager) listenerList() []Listener {
	out := make([]Listener, 0, len(m.listeners))
	for _, l := range m.listeners {
		out = append(out, l)
	}
	return out
}

func (m *Manager) publish(s Snapshot, listeners []Listener) {
	m.log.Info("session state", "state", s.State.String())
	for _, l := range listeners {
		l(s)
	}
}

func sameSnapshot(a, b Snapshot) bool {
	if a.State != b.State {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == nil && b.User == nil
	}
	return *a.User == *b.User
}
