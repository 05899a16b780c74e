package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrUnknownProvider = errors.New("unknown oauth provider")

// OAuth builds provider authorize URLs for the sign-in redirect.
type OAuth struct {
	providers map[string]string
	clientID  string
	tokens    *Tokens
}

// NewOAuth takes a provider name to authorize URL map.
func NewOAuth(providers map[string]string, clientID string, tokens *Tokens) *OAuth {
	return &OAuth{providers: providers, clientID: clientID, tokens: tokens}
}

// AuthorizeURL returns where to send the browser of session sid to sign in
// with provider. redirectTo comes back in the signed state.
func (o *OAuth) AuthorizeURL(sid, provider, redirectTo string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	base, ok := o.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("provider %s: %w", provider, err)
	}
	state, err := o.tokens.issueState(sid, provider, redirectTo)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("response_type", "code")
	if o.clientID != "" {
		q.Set("client_id", o.clientID)
	}
	if redirectTo != "" {
		q.Set("redirect_uri", redirectTo)
	}
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
