package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	dom "taskflow/internal/domain"
	"taskflow/internal/repo"
	"taskflow/internal/service"
)

// Client is the identity collaborator of one browser session. Sign-in and
// sign-out notify every subscriber with the new account, or nil.
type Client struct {
	sid      string
	sessions *Store
	accounts *service.AccountService
	oauth    *OAuth

	mu      sync.Mutex
	subs    map[int]func(*dom.Account)
	nextSub int
}

// Provider builds the Client for each browser session.
type Provider struct {
	Sessions *Store
	Accounts *service.AccountService
	OAuth    *OAuth
}

func (p Provider) Client(sid string) *Client {
	return &Client{
		sid:      sid,
		sessions: p.Sessions,
		accounts: p.Accounts,
		oauth:    p.OAuth,
		subs:     make(map[int]func(*dom.Account)),
	}
}

// SessionID is the browser session the client belongs to.
func (c *Client) SessionID() string { return c.sid }

// CurrentSession returns the signed-in account, or nil.
func (c *Client) CurrentSession(ctx context.Context) (*dom.Account, error) {
	userID, ok, err := c.sessions.UserID(ctx, c.sid)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if !ok {
		return nil, nil
	}
	a, err := c.accounts.Get(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		// The account is gone; drop the stale binding.
		_ = c.sessions.Delete(ctx, c.sid)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &a, nil
}

func (c *Client) Subscribe(fn func(*dom.Account)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Client) SignIn(ctx context.Context, email, password string) (dom.Account, error) {
	a, err := c.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return dom.Account{}, err
	}
	return a, c.bind(ctx, a)
}

func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (dom.Account, error) {
	a, err := c.accounts.Register(ctx, email, password, displayName)
	if err != nil {
		return dom.Account{}, err
	}
	return a, c.bind(ctx, a)
}

// SignInWithOAuth returns the provider URL to send the browser to.
func (c *Client) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	return c.oauth.AuthorizeURL(c.sid, provider, redirectTo)
}

func (c *Client) SignOut(ctx context.Context) error {
	if err := c.sessions.Delete(ctx, c.sid); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	c.publish(nil)
	return nil
}

func (c *Client) bind(ctx context.Context, a dom.Account) error {
	if err := c.sessions.Bind(ctx, c.sid, a.ID); err != nil {
		return fmt.Errorf("bind session: %w", err)
	}
	c.publish(&a)
	return nil
}

func (c *Client) publish(a *dom.Account) {
	c.mu.Lock()
	subs := make([]func(*dom.Account), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()
	for _, fn := range subs {
		var cp *dom.Account
		if a != nil {
			v := *a
			cp = &v
		}
		fn(cp)
	}
}
