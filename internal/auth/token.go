package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	issuer        = "taskflow"
	audienceAPI   = "api"
	audienceOAuth = "oauth-state"
)

// Tokens signs and verifies HS256 tokens. Access tokens let non-browser
// clients carry their session ID in an Authorization header.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns an access token for session sid signed in as userID.
func (t *Tokens) Issue(sid, userID string) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		Audience:  jwt.ClaimStrings{audienceAPI},
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// SessionID returns the session ID carried by an access token.
func (t *Tokens) SessionID(token string) (string, error) {
	claims, err := t.parse(token, audienceAPI)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

type stateClaims struct {
	Provider   string `json:"provider"`
	RedirectTo string `json:"redirect_to"`
	jwt.RegisteredClaims
}

// issueState signs the OAuth state parameter for session sid.
func (t *Tokens) issueState(sid, provider, redirectTo string) (string, error) {
	now := t.now()
	claims := stateClaims{
		Provider:   provider,
		RedirectTo: redirectTo,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audienceOAuth},
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// OAuthState is the verified content of an OAuth state parameter.
type OAuthState struct {
	SessionID  string
	Provider   string
	RedirectTo string
}

// VerifyState checks an OAuth state parameter returned by a provider.
func (t *Tokens) VerifyState(state string) (OAuthState, error) {
	var claims stateClaims
	if err := t.parseInto(state, audienceOAuth, &claims); err != nil {
		return OAuthState{}, err
	}
	return OAuthState{SessionID: claims.ID, Provider: claims.Provider, RedirectTo: claims.RedirectTo}, nil
}

func (t *Tokens) parse(token, audience string) (*jwt.RegisteredClaims, error) {
	var claims jwt.RegisteredClaims
	if err := t.parseInto(token, audience, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (t *Tokens) parseInto(token, audience string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return nil
}
