package store

import (
	"context"

	dom "taskflow/internal/domain"
	"taskflow/internal/remote"
)

// ArticleStore is the CRUD facade for articles.
type ArticleStore struct {
	col remote.Collection
	now Clock
}

func NewArticleStore(db remote.Database, now Clock) *ArticleStore {
	if now == nil {
		now = systemClock
	}
	return &ArticleStore{col: db.Collection(ArticlesCollection), now: now}
}

// List returns every article, newest creation first.
func (s *ArticleStore) List(ctx context.Context) ([]dom.Article, error) {
	return s.selectArticles(ctx, remote.Query{}.OrderBy("createdAt", true), "list articles")
}

// ListForCreator returns the articles created by userID, newest first.
func (s *ArticleStore) ListForCreator(ctx context.Context, userID string) ([]dom.Article, error) {
	q := remote.Query{}.Where(remote.Eq("createdBy", userID)).OrderBy("createdAt", true)
	return s.selectArticles(ctx, q, "list articles for creator")
}

// ListNews returns public news articles, most recently published first.
func (s *ArticleStore) ListNews(ctx context.Context) ([]dom.Article, error) {
	q := remote.Query{}.
		Where(remote.Eq("isNews", true), remote.Eq("visibility", string(dom.VisibilityPublic))).
		OrderBy("publishedAt", true)
	return s.selectArticles(ctx, q, "list news")
}

func (s *ArticleStore) GetByID(ctx context.Context, id string) (dom.Article, error) {
	recs, err := s.col.Select(ctx, remote.Query{}.Where(remote.Eq("id", id)))
	if err != nil {
		return dom.Article{}, classify(err, "get article")
	}
	if len(recs) == 0 {
		return dom.Article{}, classify(ErrNotFound, "get article "+id)
	}
	a, err := decodeArticle(recs[0])
	return a, classify(err, "get article")
}

// Create inserts a new article. Public articles without a publish time are
// published now.
func (s *ArticleStore) Create(ctx context.Context, in dom.ArticleInput, creatorID string) (dom.Article, error) {
	if err := checkArticleInput(in); err != nil {
		return dom.Article{}, classify(err, "create article")
	}
	rec, err := s.col.Insert(ctx, encodeArticleInput(in, creatorID, s.now()))
	if err != nil {
		return dom.Article{}, classify(err, "create article")
	}
	a, err := decodeArticle(rec)
	return a, classify(err, "create article")
}

func (s *ArticleStore) Update(ctx context.Context, id string, p dom.ArticlePatch) (dom.Article, error) {
	if err := checkArticlePatch(p); err != nil {
		return dom.Article{}, classify(err, "update article")
	}
	rec, err := s.col.Update(ctx, id, encodeArticlePatch(p, s.now()))
	if err != nil {
		return dom.Article{}, classify(err, "update article")
	}
	a, err := decodeArticle(rec)
	return a, classify(err, "update article")
}

func (s *ArticleStore) Delete(ctx context.Context, id string) error {
	return classify(s.col.Delete(ctx, id), "delete article")
}

func (s *ArticleStore) selectArticles(ctx context.Context, q remote.Query, op string) ([]dom.Article, error) {
	recs, err := s.col.Select(ctx, q)
	if err != nil {
		return nil, classify(err, op)
	}
	list := make([]dom.Article, 0, len(recs))
	for _, rec := range recs {
		a, err := decodeArticle(rec)
		if err != nil {
			return nil, classify(err, op)
		}
		list = append(list, a)
	}
	return list, nil
}
