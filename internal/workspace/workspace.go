// Package workspace bundles the per-browser-session state machines and
// collections and keeps one workspace per session ID.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	dom "taskflow/internal/domain"
	"taskflow/internal/mutation"
	"taskflow/internal/navigation"
	"taskflow/internal/notify"
	"taskflow/internal/session"
	"taskflow/internal/view"
)

var ErrSignedOut = errors.New("not signed in")

// Identity is the identity collaborator of one browser session.
type Identity interface {
	session.Identity
	SignIn(ctx context.Context, email, password string) (dom.Account, error)
	SignUp(ctx context.Context, email, password, displayName string) (dom.Account, error)
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error)
	SignOut(ctx context.Context) error
}

// Workspace is everything the UI of one browser session sees.
type Workspace struct {
	ID       string
	Identity Identity
	Session  *session.Manager
	Nav      *navigation.Machine
	History  *navigation.MemoryHistory
	Inbox    *notify.Inbox

	Tasks    *mutation.Tasks
	Articles *mutation.Articles
	News     *mutation.News

	TaskView    *view.Composer[dom.Task, dom.FilterCriteria]
	ArticleView *view.Composer[dom.Article, string]
	NewsView    *view.Composer[dom.Article, string]

	log      *slog.Logger
	mu       sync.Mutex
	mode     view.Mode
	lastSeen time.Time

	syncMu    sync.Mutex
	ready     chan struct{}
	readyOnce sync.Once
	stops     []func()
}

// Deps are the shared collaborators every workspace is built from.
type Deps struct {
	Tasks    mutation.TaskStore
	Articles mutation.ArticleStore
	Identity func(sid string) Identity
	Log      *slog.Logger
}

func newWorkspace(sid string, d Deps) *Workspace {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("workspace", shortID(sid))
	inbox := notify.NewInbox(50, log)
	history := navigation.NewMemoryHistory("/")
	w := &Workspace{
		ID:       sid,
		Identity: d.Identity(sid),
		History:  history,
		Nav:      navigation.New(history),
		Inbox:    inbox,
		Tasks:    mutation.NewTasks(d.Tasks, inbox, log),
		Articles: mutation.NewArticles(d.Articles, inbox, log),
		News:     mutation.NewNews(d.Articles, inbox, log),
		log:      log,
		mode:     view.ModeBoard,
		lastSeen: time.Now(),
		ready:    make(chan struct{}),
	}
	w.Session = session.NewManager(w.Identity, inbox, log)
	w.TaskView = view.NewTaskComposer(w.Tasks)
	w.ArticleView = view.NewArticleComposer(w.Articles)
	w.NewsView = view.NewArticleComposer(w.News)
	return w
}

// start wires the session to the collections and begins resolution.
func (w *Workspace) start(ctx context.Context) {
	w.stops = append(w.stops, w.Session.Subscribe(func(s session.Snapshot) { w.sync(ctx, s) }))
	w.Session.Start(ctx)
}

// sync loads or clears the collections for a session state.
func (w *Workspace) sync(ctx context.Context, s session.Snapshot) {
	w.syncMu.Lock()
	defer w.syncMu.Unlock()
	defer w.readyOnce.Do(func() { close(w.ready) })

	if s.State != session.Authenticated || s.User == nil {
		w.Tasks.Reset()
		w.Articles.Reset()
		w.News.Reset()
		return
	}
	// Failures are already reported as notices.
	_ = w.Tasks.Load(ctx)
	_ = w.Articles.Load(ctx, s.User.ID)
	_ = w.News.Load(ctx)
}

// Wait blocks until the session is resolved and the collections reflect it.
func (w *Workspace) Wait(ctx context.Context) (session.Snapshot, error) {
	select {
	case <-w.ready:
	case <-ctx.Done():
		return w.Session.Current(), ctx.Err()
	}
	// A sync triggered by a later transition may still be running.
	w.syncMu.Lock()
	defer w.syncMu.Unlock()
	return w.Session.Current(), nil
}

// User returns the signed-in identity.
func (w *Workspace) User() (dom.User, bool) { return w.Session.User() }

func (w *Workspace) Mode() view.Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

func (w *Workspace) SetMode(m view.Mode) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = m
}

// Reload refreshes the collections from the stores.
func (w *Workspace) Reload(ctx context.Context) error {
	s := w.Session.Current()
	if s.State != session.Authenticated {
		return ErrSignedOut
	}
	w.sync(ctx, s)
	return nil
}

func (w *Workspace) touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = time.Now()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) close() {
	for _, stop := range w.stops {
		stop()
	}
	w.Session.Stop()
	w.TaskView.Close()
	w.ArticleView.Close()
	w.NewsView.Close()
}

func shortID(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}
