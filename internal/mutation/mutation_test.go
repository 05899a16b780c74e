package mutation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dom "taskflow/internal/domain"
	"taskflow/internal/notify"
	"taskflow/internal/remote"
	"taskflow/internal/store"

	"github.com/go-playground/assert/v2"
)

func newTaskFixture(t *testing.T) (*remote.Memory, *Tasks, *notify.Inbox) {
	t.Helper()
	db := remote.NewMemory(store.Schema())
	inbox := notify.NewInbox(0, nil)
	return db, NewTasks(store.NewTaskStore(db, nil), inbox, nil), inbox
}

func createTask(t *testing.T, c *Tasks, title string) dom.Task {
	t.Helper()
	task, err := c.Create(context.Background(), dom.TaskInput{
		Title:    title,
		Status:   dom.StatusTodo,
		Priority: dom.PriorityMedium,
	}, "user-1")
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func ids(items []dom.Task) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestTasksCreatePrependsAndNotifies(t *testing.T) {
	_, c, inbox := newTaskFixture(t)

	first := createTask(t, c, "first")
	second := createTask(t, c, "second")

	assert.Equal(t, ids(c.Items()), []string{second.ID, first.ID})
	notices := inbox.Drain()
	assert.Equal(t, len(notices), 2)
	assert.Equal(t, notices[0].Level, notify.LevelSuccess)
	assert.Equal(t, notices[0].Message, "Task created successfully")
}

func TestTasksLoadReplacesState(t *testing.T) {
	db, c, _ := newTaskFixture(t)
	other := NewTasks(store.NewTaskStore(db, nil), nil, nil)
	a := createTask(t, other, "a")
	b := createTask(t, other, "b")

	assert.Equal(t, c.Len(), 0)
	assert.Equal(t, c.Load(context.Background()), nil)
	assert.Equal(t, ids(c.Items()), []string{b.ID, a.ID})

	c.Reset()
	assert.Equal(t, c.Len(), 0)
}

func TestTasksChangeStatusReplacesHeldEntity(t *testing.T) {
	_, c, inbox := newTaskFixture(t)
	task := createTask(t, c, "ship it")
	inbox.Drain()

	updated, err := c.ChangeStatus(context.Background(), task.ID, dom.StatusDone)
	assert.Equal(t, err, nil)
	assert.Equal(t, updated.Status, dom.StatusDone)

	held, ok := c.Get(task.ID)
	assert.Equal(t, ok, true)
	assert.Equal(t, held.Status, dom.StatusDone)
	assert.Equal(t, held.Title, "ship it")
	assert.Equal(t, inbox.Drain()[0].Message, "Status updated")
}

func TestTasksFailureLeavesStateUntouched(t *testing.T) {
	db, c, inbox := newTaskFixture(t)
	task := createTask(t, c, "keep me")
	inbox.Drain()
	before := c.Items()

	db.Intercept(func(collection, op string) error {
		if op == "select" {
			return nil
		}
		return errors.New("connection reset")
	})

	_, err := c.Update(context.Background(), task.ID, dom.TaskPatch{Title: dom.Set("changed")})
	assert.Equal(t, errors.Is(err, ErrUpdateFailed), true)
	assert.Equal(t, errors.Is(err, store.ErrUnavailable), true)

	_, err = c.ChangeStatus(context.Background(), task.ID, dom.StatusDone)
	assert.Equal(t, errors.Is(err, ErrStatusChangeFailed), true)

	err = c.Delete(context.Background(), task.ID)
	assert.Equal(t, errors.Is(err, ErrDeleteFailed), true)

	_, err = c.Create(context.Background(), dom.TaskInput{Title: "x", Status: dom.StatusTodo, Priority: dom.PriorityLow}, "user-1")
	assert.Equal(t, errors.Is(err, ErrCreateFailed), true)

	assert.Equal(t, c.Items(), before)
	notices := inbox.Drain()
	assert.Equal(t, len(notices), 4)
	for _, n := range notices {
		assert.Equal(t, n.Level, notify.LevelError)
	}
	assert.Equal(t, notices[0].Message, "Failed to update task")
	assert.Equal(t, notices[1].Message, "Failed to update status")
	assert.Equal(t, notices[2].Message, "Failed to delete task")
	assert.Equal(t, notices[3].Message, "Failed to create task")
}

func TestTasksDeletePrunes(t *testing.T) {
	_, c, _ := newTaskFixture(t)
	a := createTask(t, c, "a")
	b := createTask(t, c, "b")

	assert.Equal(t, c.Delete(context.Background(), a.ID), nil)
	assert.Equal(t, ids(c.Items()), []string{b.ID})
}

func TestTasksChangeStatuses(t *testing.T) {
	_, c, _ := newTaskFixture(t)
	a := createTask(t, c, "a")
	b := createTask(t, c, "b")

	n, err := c.ChangeStatuses(context.Background(), []string{a.ID, "missing", b.ID}, dom.StatusInReview)
	assert.Equal(t, n, 2)
	assert.Equal(t, errors.Is(err, ErrStatusChangeFailed), true)
	assert.Equal(t, errors.Is(err, store.ErrNotFound), true)

	for _, task := range c.Items() {
		assert.Equal(t, task.Status, dom.StatusInReview)
	}
}

// gatedTaskStore holds Update calls until the test releases them.
type gatedTaskStore struct {
	TaskStore
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func (g *gatedTaskStore) hold(title string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.gates[title] = ch
	return ch
}

func (g *gatedTaskStore) Update(ctx context.Context, id string, p dom.TaskPatch) (dom.Task, error) {
	task, err := g.TaskStore.Update(ctx, id, p)
	title, _ := p.Title.Value()
	g.mu.Lock()
	ch := g.gates[title]
	g.mu.Unlock()
	if ch != nil {
		<-ch
	}
	return task, err
}

func TestTasksStaleResponseIsDiscarded(t *testing.T) {
	db := remote.NewMemory(store.Schema())
	gated := &gatedTaskStore{TaskStore: store.NewTaskStore(db, nil), gates: map[string]chan struct{}{}}
	c := NewTasks(gated, nil, nil)
	task := createTask(t, c, "original")

	release := gated.hold("slow")
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Update(context.Background(), task.ID, dom.TaskPatch{Title: dom.Set("slow")})
	}()

	// Wait until the slow update has been dispatched before sending the next.
	waitFor(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.gen[task.ID] == 1
	})
	_, err := c.Update(context.Background(), task.ID, dom.TaskPatch{Title: dom.Set("fast")})
	assert.Equal(t, err, nil)

	close(release)
	<-done

	held, _ := c.Get(task.ID)
	assert.Equal(t, held.Title, "fast")
}

func TestTasksDeletedEntityIsNotResurrected(t *testing.T) {
	db := remote.NewMemory(store.Schema())
	gated := &gatedTaskStore{TaskStore: store.NewTaskStore(db, nil), gates: map[string]chan struct{}{}}
	c := NewTasks(gated, nil, nil)
	task := createTask(t, c, "doomed")

	release := gated.hold("late")
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Update(context.Background(), task.ID, dom.TaskPatch{Title: dom.Set("late")})
	}()
	waitFor(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.gen[task.ID] == 1
	})

	// The remote update already happened, so deleting afterwards succeeds.
	waitFor(t, func() bool {
		rec, err := db.Collection(store.TasksCollection).Select(context.Background(), remote.Query{}.Where(remote.Eq("title", "late")))
		return err == nil && len(rec) == 1
	})
	assert.Equal(t, c.Delete(context.Background(), task.ID), nil)

	close(release)
	<-done

	_, ok := c.Get(task.ID)
	assert.Equal(t, ok, false)
	assert.Equal(t, c.Len(), 0)
}

func TestObserversSeeEveryChange(t *testing.T) {
	_, c, _ := newTaskFixture(t)
	var seen []int
	unsubscribe := c.Subscribe(func(items []dom.Task) { seen = append(seen, len(items)) })

	a := createTask(t, c, "a")
	createTask(t, c, "b")
	assert.Equal(t, c.Delete(context.Background(), a.ID), nil)
	unsubscribe()
	createTask(t, c, "c")

	assert.Equal(t, seen, []int{0, 1, 2, 1})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNormalizeArticleInput(t *testing.T) {
	in := dom.ArticleInput{Title: "t", IsNews: true, Visibility: dom.VisibilityPrivate}

	member := NormalizeArticleInput(in, false)
	assert.Equal(t, member.IsNews, false)
	assert.Equal(t, member.Visibility, dom.VisibilityPrivate)

	editor := NormalizeArticleInput(in, true)
	assert.Equal(t, editor.IsNews, true)
	assert.Equal(t, editor.Visibility, dom.VisibilityPublic)
}

func TestNormalizeArticlePatchUsesHeldNewsFlag(t *testing.T) {
	held := &dom.Article{ID: "a1", IsNews: true, Visibility: dom.VisibilityPublic}

	p := NormalizeArticlePatch(dom.ArticlePatch{Visibility: dom.Set(dom.VisibilityPrivate)}, held, true)
	v, _ := p.Visibility.Value()
	assert.Equal(t, v, dom.VisibilityPublic)

	p = NormalizeArticlePatch(dom.ArticlePatch{Visibility: dom.Set(dom.VisibilityPrivate)}, held, false)
	isNews, _ := p.IsNews.Value()
	v, _ = p.Visibility.Value()
	assert.Equal(t, isNews, false)
	assert.Equal(t, v, dom.VisibilityPrivate)

	p = NormalizeArticlePatch(dom.ArticlePatch{Title: dom.Set("x")}, &dom.Article{ID: "a2"}, true)
	assert.Equal(t, p.Visibility.IsSet(), false)
	assert.Equal(t, p.IsNews.IsSet(), false)
}

func TestArticlesCoordinator(t *testing.T) {
	db := remote.NewMemory(store.Schema())
	articles := store.NewArticleStore(db, nil)
	inbox := notify.NewInbox(0, nil)
	mine := NewArticles(articles, inbox, nil)
	news := NewNews(articles, inbox, nil)
	ctx := context.Background()

	member := dom.User{ID: "u-member", Role: dom.RoleMember}
	editor := dom.User{ID: "u-editor", Role: dom.RoleEditor}

	draft, err := mine.Create(ctx, dom.ArticleInput{Title: "draft", IsNews: true, Visibility: dom.VisibilityPrivate}, member)
	assert.Equal(t, err, nil)
	assert.Equal(t, draft.IsNews, false)
	assert.Equal(t, draft.Visibility, dom.VisibilityPrivate)

	scoop, err := mine.Create(ctx, dom.ArticleInput{Title: "scoop", IsNews: true, Visibility: dom.VisibilityPrivate}, editor)
	assert.Equal(t, err, nil)
	assert.Equal(t, scoop.IsNews, true)
	assert.Equal(t, scoop.Visibility, dom.VisibilityPublic)

	assert.Equal(t, news.Load(ctx), nil)
	assert.Equal(t, len(news.Items()), 1)
	assert.Equal(t, news.Items()[0].ID, scoop.ID)

	assert.Equal(t, mine.Load(ctx, editor.ID), nil)
	assert.Equal(t, mine.Len(), 1)

	updated, err := mine.Update(ctx, scoop.ID, dom.ArticlePatch{Visibility: dom.Set(dom.VisibilityPrivate)}, editor)
	assert.Equal(t, err, nil)
	assert.Equal(t, updated.Visibility, dom.VisibilityPublic)

	assert.Equal(t, mine.Delete(ctx, scoop.ID, editor), nil)
	assert.Equal(t, mine.Len(), 0)
	assert.Equal(t, inbox.Drain()[0].Message, "Article created successfully")
}

func TestArticleUpdateReadsNewsFlagWhenNotHeld(t *testing.T) {
	db := remote.NewMemory(store.Schema())
	articles := store.NewArticleStore(db, nil)
	ctx := context.Background()
	editor := dom.User{ID: "u-editor", Role: dom.RoleEditor}

	first := NewArticles(articles, notify.NewInbox(0, nil), nil)
	scoop, err := first.Create(ctx, dom.ArticleInput{Title: "scoop", IsNews: true, Visibility: dom.VisibilityPublic}, editor)
	assert.Equal(t, err, nil)

	// A second workspace of the same editor that never loaded its articles.
	second := NewArticles(articles, notify.NewInbox(0, nil), nil)
	updated, err := second.Update(ctx, scoop.ID, dom.ArticlePatch{Visibility: dom.Set(dom.VisibilityPrivate)}, editor)
	assert.Equal(t, err, nil)
	assert.Equal(t, updated.IsNews, true)
	assert.Equal(t, updated.Visibility, dom.VisibilityPublic)

	assert.Equal(t, first.Load(ctx, editor.ID), nil)
	assert.Equal(t, first.Items()[0].Visibility, dom.VisibilityPublic)
}

func TestArticleChangesAreLimitedToTheAuthor(t *testing.T) {
	db := remote.NewMemory(store.Schema())
	articles := store.NewArticleStore(db, nil)
	ctx := context.Background()
	author := dom.User{ID: "u-author", Role: dom.RoleEditor}
	other := dom.User{ID: "u-other", Role: dom.RoleEditor}

	mine := NewArticles(articles, notify.NewInbox(0, nil), nil)
	a, err := mine.Create(ctx, dom.ArticleInput{Title: "mine", Visibility: dom.VisibilityPrivate}, author)
	assert.Equal(t, err, nil)

	inbox := notify.NewInbox(0, nil)
	theirs := NewArticles(articles, inbox, nil)
	_, err = theirs.Update(ctx, a.ID, dom.ArticlePatch{Title: dom.Set("taken")}, other)
	assert.Equal(t, errors.Is(err, ErrUpdateFailed), true)
	assert.Equal(t, errors.Is(err, ErrNotAuthor), true)

	err = theirs.Delete(ctx, a.ID, other)
	assert.Equal(t, errors.Is(err, ErrDeleteFailed), true)
	assert.Equal(t, errors.Is(err, ErrNotAuthor), true)
	assert.Equal(t, len(inbox.Drain()), 2)

	got, err := articles.GetByID(ctx, a.ID)
	assert.Equal(t, err, nil)
	assert.Equal(t, got.Title, "mine")
}

func TestRejectedPatchKeepsTasksLoadable(t *testing.T) {
	db, c, inbox := newTaskFixture(t)
	task := createTask(t, c, "stays valid")
	inbox.Drain()

	_, err := c.Update(context.Background(), task.ID, dom.TaskPatch{Status: dom.Null[dom.TaskStatus]()})
	assert.Equal(t, errors.Is(err, ErrUpdateFailed), true)
	assert.Equal(t, errors.Is(err, store.ErrValidation), true)
	assert.Equal(t, c.Items()[0], task)

	fresh := NewTasks(store.NewTaskStore(db, nil), inbox, nil)
	assert.Equal(t, fresh.Load(context.Background()), nil)
	assert.Equal(t, fresh.Items(), []dom.Task{task})
}
