package service

import (
	"context"
	"errors"
	"strings"

	dom "taskflow/internal/domain"
	"taskflow/internal/repo"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

const minPasswordLen = 6

// AccountService handles credential checks and registration.
type AccountService struct {
	repo repo.AccountRepo
	cost int
}

// NewAccountService returns a new AccountService. cost <= 0 uses the bcrypt
// default.
func NewAccountService(repo repo.AccountRepo, cost int) *AccountService {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &AccountService{repo: repo, cost: cost}
}

// Authenticate checks email and password; returns the account if valid.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (dom.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.Account{}, ErrInvalidCredentials
	}
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.Account{}, ErrInvalidCredentials
		}
		return dom.Account{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return dom.Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// Register creates a new account with a hashed password. displayName, when
// given, becomes the full_name profile attribute.
func (s *AccountService) Register(ctx context.Context, email, password, displayName string) (dom.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.Account{}, ErrInvalidCredentials
	}
	if len(password) < minPasswordLen {
		return dom.Account{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return dom.Account{}, err
	}
	meta := map[string]any{"role": string(dom.RoleMember)}
	if name := strings.TrimSpace(displayName); name != "" {
		meta["full_name"] = name
	}
	a, err := s.repo.Create(ctx, dom.Account{Email: email, PasswordHash: string(hash), Metadata: meta})
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return dom.Account{}, ErrEmailTaken
		}
		return dom.Account{}, err
	}
	return a, nil
}

// Get returns the account with id.
func (s *AccountService) Get(ctx context.Context, id string) (dom.Account, error) {
	return s.repo.GetByID(ctx, id)
}
