package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dom "taskflow/internal/domain"
	"taskflow/internal/notify"

	"github.com/go-playground/assert/v2"
)

type fakeIdentity struct {
	mu      sync.Mutex
	acct    *dom.Account
	err     error
	gate    chan struct{}
	subs    map[int]func(*dom.Account)
	nextSub int
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{subs: make(map[int]func(*dom.Account))}
}

func (f *fakeIdentity) CurrentSession(ctx context.Context) (*dom.Account, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acct, f.err
}

func (f *fakeIdentity) Subscribe(fn func(*dom.Account)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeIdentity) fire(acct *dom.Account) {
	f.mu.Lock()
	subs := make([]func(*dom.Account), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(acct)
	}
}

func (f *fakeIdentity) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func waitReady(t *testing.T, m *Manager) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := m.Wait(ctx)
	if err != nil {
		t.Fatalf("manager never left resolving: %v", err)
	}
	return snap
}

func TestResolvesAuthenticated(t *testing.T) {
	id := newFakeIdentity()
	id.acct = &dom.Account{ID: "u1", Email: "ada@example.com", Metadata: map[string]any{"role": "editor"}}
	m := NewManager(id, nil, nil)

	assert.Equal(t, m.Current().State, Resolving)
	m.Start(context.Background())
	snap := waitReady(t, m)

	assert.Equal(t, snap.State, Authenticated)
	assert.Equal(t, snap.User.Login, "ada")
	assert.Equal(t, snap.User.Role, dom.RoleEditor)
}

func TestResolvesAnonymousWithoutSession(t *testing.T) {
	id := newFakeIdentity()
	inbox := notify.NewInbox(0, nil)
	m := NewManager(id, inbox, nil)
	m.Start(context.Background())

	snap := waitReady(t, m)
	assert.Equal(t, snap.State, Anonymous)
	assert.Equal(t, snap.User == nil, true)
	assert.Equal(t, len(inbox.Drain()), 0)
}

func TestResolutionFailureDegradesToAnonymous(t *testing.T) {
	id := newFakeIdentity()
	id.err = errors.New("identity service down")
	inbox := notify.NewInbox(0, nil)
	m := NewManager(id, inbox, nil)
	m.Start(context.Background())

	snap := waitReady(t, m)
	assert.Equal(t, snap.State, Anonymous)

	notices := inbox.Drain()
	assert.Equal(t, len(notices), 1)
	assert.Equal(t, notices[0].Level, notify.LevelWarning)
	assert.Equal(t, notices[0].Message, "Unable to restore your session. Please sign in again.")
}

func TestNotificationWinsRaceWithInitialLookup(t *testing.T) {
	id := newFakeIdentity()
	id.gate = make(chan struct{})
	id.err = errors.New("slow failure")
	inbox := notify.NewInbox(0, nil)
	m := NewManager(id, inbox, nil)
	m.Start(context.Background())

	id.fire(&dom.Account{ID: "u2", Email: "grace@example.com"})
	snap := waitReady(t, m)
	assert.Equal(t, snap.State, Authenticated)

	// The late lookup is a duplicate resolution and must change nothing.
	close(id.gate)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, m.Current().State, Authenticated)
	assert.Equal(t, len(inbox.Drain()), 0)
}

func TestLaterNotificationsMoveBetweenStates(t *testing.T) {
	id := newFakeIdentity()
	m := NewManager(id, nil, nil)

	var mu sync.Mutex
	var seen []State
	m.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s.State)
	})
	m.Start(context.Background())
	waitReady(t, m)

	id.fire(&dom.Account{ID: "u3", Email: "lin@example.com"})
	id.fire(&dom.Account{ID: "u3", Email: "lin@example.com"})
	id.fire(nil)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, seen, []State{Anonymous, Authenticated, Anonymous})
}

func TestStopUnsubscribes(t *testing.T) {
	id := newFakeIdentity()
	m := NewManager(id, nil, nil)
	m.Start(context.Background())
	m.Start(context.Background())
	assert.Equal(t, id.subscribers(), 1)

	m.Stop()
	assert.Equal(t, id.subscribers(), 0)
}

func TestProjectLoginChain(t *testing.T) {
	tests := []struct {
		name string
		acct dom.Account
		want string
	}{
		{"user name", dom.Account{Email: "a@x.io", Metadata: map[string]any{"user_name": "ada", "name": "Ada L"}}, "ada"},
		{"preferred", dom.Account{Email: "a@x.io", Metadata: map[string]any{"preferred_username": "lovelace", "full_name": "Ada"}}, "lovelace"},
		{"display name", dom.Account{Metadata: map[string]any{"user_name": "  ", "name": "Ada L"}}, "Ada L"},
		{"full name", dom.Account{Metadata: map[string]any{"full_name": "Ada Lovelace"}}, "Ada Lovelace"},
		{"email", dom.Account{Email: "countess@example.com"}, "countess"},
		{"default", dom.Account{}, "user"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Project(tt.acct).Login, tt.want)
		})
	}
}

func TestProjectRole(t *testing.T) {
	owner := Project(dom.Account{Metadata: map[string]any{"is_owner": true}})
	assert.Equal(t, owner.Role, dom.RoleOwner)
	assert.Equal(t, owner.IsOwner, true)
	assert.Equal(t, owner.CanTagNews(), true)

	editor := Project(dom.Account{Metadata: map[string]any{"role": "Editor"}})
	assert.Equal(t, editor.Role, dom.RoleEditor)
	assert.Equal(t, editor.IsOwner, false)

	member := Project(dom.Account{})
	assert.Equal(t, member.Role, dom.RoleMember)
	assert.Equal(t, member.CanTagNews(), false)
}
