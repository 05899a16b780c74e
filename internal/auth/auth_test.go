package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	dom "taskflow/internal/domain"
	"taskflow/internal/repo"
	"taskflow/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123"

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewStore(rdb, time.Hour)
}

func TestStoreBindLookupDelete(t *testing.T) {
	mr, s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.UserID(ctx, "sid-1")
	assert.Equal(t, err, nil)
	assert.Equal(t, ok, false)

	assert.Equal(t, s.Bind(ctx, "sid-1", "user-1"), nil)
	userID, ok, err := s.UserID(ctx, "sid-1")
	assert.Equal(t, err, nil)
	assert.Equal(t, ok, true)
	assert.Equal(t, userID, "user-1")
	assert.Equal(t, mr.TTL("session:sid-1"), time.Hour)

	assert.Equal(t, s.Delete(ctx, "sid-1"), nil)
	_, ok, _ = s.UserID(ctx, "sid-1")
	assert.Equal(t, ok, false)
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	tok, err := tokens.Issue("sid-9", "user-9")
	assert.Equal(t, err, nil)

	sid, err := tokens.SessionID(tok)
	assert.Equal(t, err, nil)
	assert.Equal(t, sid, "sid-9")

	other := NewTokens("another-secret-value", time.Hour)
	_, err = other.SessionID(tok)
	assert.Equal(t, errors.Is(err, ErrInvalidToken), true)
}

func TestTokensExpire(t *testing.T) {
	tokens := NewTokens(testSecret, time.Minute)
	issued := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return issued }
	tok, err := tokens.Issue("sid", "user")
	assert.Equal(t, err, nil)

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tokens.SessionID(tok)
	assert.Equal(t, errors.Is(err, ErrInvalidToken), true)
}

func TestOAuthStateIsNotAnAccessToken(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	o := NewOAuth(map[string]string{"github": "https://github.com/login/oauth/authorize"}, "client-1", tokens)

	raw, err := o.AuthorizeURL("sid-3", "GitHub", "https://app.example.com/articles")
	assert.Equal(t, err, nil)
	u, err := url.Parse(raw)
	assert.Equal(t, err, nil)
	assert.Equal(t, u.Host, "github.com")
	assert.Equal(t, u.Query().Get("client_id"), "client-1")

	state, err := tokens.VerifyState(u.Query().Get("state"))
	assert.Equal(t, err, nil)
	assert.Equal(t, state.SessionID, "sid-3")
	assert.Equal(t, state.Provider, "github")
	assert.Equal(t, state.RedirectTo, "https://app.example.com/articles")

	_, err = tokens.SessionID(u.Query().Get("state"))
	assert.Equal(t, errors.Is(err, ErrInvalidToken), true)

	_, err = o.AuthorizeURL("sid-3", "myspace", "")
	assert.Equal(t, errors.Is(err, ErrUnknownProvider), true)
}

func TestClientSignInOut(t *testing.T) {
	_, store := newTestStore(t)
	accounts := service.NewAccountService(repo.NewMemoryAccountRepo(), bcrypt.MinCost)
	p := Provider{Sessions: store, Accounts: accounts, OAuth: NewOAuth(nil, "", NewTokens(testSecret, 0))}
	ctx := context.Background()

	c := p.Client("sid-5")
	var events []*dom.Account
	c.Subscribe(func(a *dom.Account) { events = append(events, a) })

	cur, err := c.CurrentSession(ctx)
	assert.Equal(t, err, nil)
	assert.Equal(t, cur == nil, true)

	a, err := c.SignUp(ctx, "lin@example.com", "hunter22", "Lin")
	assert.Equal(t, err, nil)

	// Another client for the same browser session sees the sign-in.
	cur, err = p.Client("sid-5").CurrentSession(ctx)
	assert.Equal(t, err, nil)
	assert.Equal(t, cur.ID, a.ID)

	_, err = c.SignIn(ctx, "lin@example.com", "nope")
	assert.Equal(t, errors.Is(err, service.ErrInvalidCredentials), true)

	assert.Equal(t, c.SignOut(ctx), nil)
	cur, _ = c.CurrentSession(ctx)
	assert.Equal(t, cur == nil, true)

	assert.Equal(t, len(events), 2)
	assert.Equal(t, events[0].ID, a.ID)
	assert.Equal(t, events[1] == nil, true)
}

func TestCurrentSessionFailsWhenRedisDown(t *testing.T) {
	mr, store := newTestStore(t)
	accounts := service.NewAccountService(repo.NewMemoryAccountRepo(), bcrypt.MinCost)
	c := Provider{Sessions: store, Accounts: accounts}.Client("sid-6")

	mr.Close()
	_, err := c.CurrentSession(context.Background())
	assert.NotEqual(t, err, nil)
}

func TestBrowserMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := NewTokens(testSecret, time.Hour)
	r := gin.New()
	r.Use(Browser(tokens, 3600, false))
	r.GET("/sid", func(c *gin.Context) { c.String(http.StatusOK, SessionIDFromContext(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sid", nil))
	assert.Equal(t, w.Code, http.StatusOK)
	fresh := w.Body.String()
	assert.Equal(t, len(fresh), 32)
	assert.Equal(t, len(w.Result().Cookies()), 1)

	req := httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: fresh})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Body.String(), fresh)

	tok, _ := tokens.Issue("bearer-sid", "user")
	req = httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Body.String(), "bearer-sid")

	req = httptest.NewRequest(http.MethodGet, "/sid", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, w.Code, http.StatusUnauthorized)
}
