package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	dom "taskflow/internal/domain"
	"taskflow/internal/notify"
)

// ErrNotAuthor is returned when a user changes an article someone else wrote.
var ErrNotAuthor = errors.New("not the article's author")

// ArticleStore is the subset of the article store the coordinators need.
type ArticleStore interface {
	ListForCreator(ctx context.Context, userID string) ([]dom.Article, error)
	ListNews(ctx context.Context) ([]dom.Article, error)
	GetByID(ctx context.Context, id string) (dom.Article, error)
	Create(ctx context.Context, in dom.ArticleInput, creatorID string) (dom.Article, error)
	Update(ctx context.Context, id string, p dom.ArticlePatch) (dom.Article, error)
	Delete(ctx context.Context, id string) error
}

// NormalizeArticleInput enforces the news rules on a new article: only
// editors may tag news, and news is always public.
func NormalizeArticleInput(in dom.ArticleInput, canTagNews bool) dom.ArticleInput {
	if !canTagNews {
		in.IsNews = false
	}
	if in.IsNews {
		in.Visibility = dom.VisibilityPublic
	}
	return in
}

// NormalizeArticlePatch applies the same rules to a partial update. held is
// the current article; its news flag counts when the patch does not set one.
func NormalizeArticlePatch(p dom.ArticlePatch, held *dom.Article, canTagNews bool) dom.ArticlePatch {
	if !canTagNews {
		p.IsNews = dom.Set(false)
	}
	isNews := false
	if p.IsNews.IsSet() {
		isNews, _ = p.IsNews.Value()
	} else if held != nil {
		isNews = held.IsNews
	}
	if isNews {
		p.Visibility = dom.Set(dom.VisibilityPublic)
	}
	return p
}

// Articles coordinates mutations of the signed-in user's articles.
type Articles struct {
	*Collection[dom.Article]
	store    ArticleStore
	notifier notify.Notifier
	log      *slog.Logger
}

func NewArticles(store ArticleStore, n notify.Notifier, log *slog.Logger) *Articles {
	if log == nil {
		log = slog.Default()
	}
	return &Articles{Collection: newCollection[dom.Article](), store: store, notifier: n, log: log}
}

// Load replaces the held articles with those created by userID.
func (a *Articles) Load(ctx context.Context, userID string) error {
	list, err := a.store.ListForCreator(ctx, userID)
	if err != nil {
		a.log.Warn("load articles", "error", err)
		notify.Error(a.notifier, "Failed to load articles")
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	a.replace(list)
	return nil
}

func (a *Articles) Reset() { a.replace(nil) }

func (a *Articles) Create(ctx context.Context, in dom.ArticleInput, author dom.User) (dom.Article, error) {
	in = NormalizeArticleInput(in, author.CanTagNews())
	article, err := a.store.Create(ctx, in, author.ID)
	if err != nil {
		a.log.Warn("create article", "error", err)
		notify.Error(a.notifier, "Failed to create article")
		return dom.Article{}, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	a.insert(article)
	notify.Success(a.notifier, "Article created successfully")
	return article, nil
}

func (a *Articles) Update(ctx context.Context, id string, p dom.ArticlePatch, editor dom.User) (dom.Article, error) {
	cur, err := a.current(ctx, id, editor)
	if err != nil {
		a.log.Warn("update article", "id", id, "error", err)
		notify.Error(a.notifier, "Failed to update article")
		return dom.Article{}, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	p = NormalizeArticlePatch(p, &cur, editor.CanTagNews())

	gen := a.begin(id)
	article, err := a.store.Update(ctx, id, p)
	if err != nil {
		a.log.Warn("update article", "id", id, "error", err)
		notify.Error(a.notifier, "Failed to update article")
		return dom.Article{}, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	if !a.upsert(gen, article) {
		a.log.Debug("discarded stale article response", "id", id)
	}
	notify.Success(a.notifier, "Article updated successfully")
	return article, nil
}

func (a *Articles) Delete(ctx context.Context, id string, author dom.User) error {
	_, err := a.current(ctx, id, author)
	if err == nil {
		err = a.store.Delete(ctx, id)
	}
	if err != nil {
		a.log.Warn("delete article", "id", id, "error", err)
		notify.Error(a.notifier, "Failed to delete article")
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	a.remove(id)
	notify.Success(a.notifier, "Article deleted successfully")
	return nil
}

// current returns the article as held, or as stored when this workspace does
// not hold it, and checks that u wrote it.
func (a *Articles) current(ctx context.Context, id string, u dom.User) (dom.Article, error) {
	cur, ok := a.Get(id)
	if !ok {
		var err error
		if cur, err = a.store.GetByID(ctx, id); err != nil {
			return dom.Article{}, err
		}
	}
	if cur.CreatedBy != u.ID {
		return dom.Article{}, ErrNotAuthor
	}
	return cur, nil
}

// News is the read-only public news feed.
type News struct {
	*Collection[dom.Article]
	store    ArticleStore
	notifier notify.Notifier
	log      *slog.Logger
}

func NewNews(store ArticleStore, n notify.Notifier, log *slog.Logger) *News {
	if log == nil {
		log = slog.Default()
	}
	return &News{Collection: newCollection[dom.Article](), store: store, notifier: n, log: log}
}

func (n *News) Load(ctx context.Context) error {
	list, err := n.store.ListNews(ctx)
	if err != nil {
		n.log.Warn("load news", "error", err)
		notify.Error(n.notifier, "Failed to load news")
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	n.replace(list)
	return nil
}

func (n *News) Reset() { n.replace(nil) }
