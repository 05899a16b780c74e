package service

import (
	"context"
	"errors"
	"testing"

	"taskflow/internal/repo"

	"github.com/go-playground/assert/v2"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *AccountService {
	return NewAccountService(repo.NewMemoryAccountRepo(), bcrypt.MinCost)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	a, err := s.Register(ctx, " Ada@Example.com ", "secret42", "Ada Lovelace")
	assert.Equal(t, err, nil)
	assert.Equal(t, a.Email, "ada@example.com")
	assert.Equal(t, a.Metadata["full_name"], "Ada Lovelace")
	assert.NotEqual(t, a.PasswordHash, "secret42")

	got, err := s.Authenticate(ctx, "ada@example.com", "secret42")
	assert.Equal(t, err, nil)
	assert.Equal(t, got.ID, a.ID)

	_, err = s.Authenticate(ctx, "ada@example.com", "wrong")
	assert.Equal(t, errors.Is(err, ErrInvalidCredentials), true)

	_, err = s.Authenticate(ctx, "nobody@example.com", "secret42")
	assert.Equal(t, errors.Is(err, ErrInvalidCredentials), true)
}

func TestRegisterRejects(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Register(ctx, "", "secret42", "")
	assert.Equal(t, errors.Is(err, ErrInvalidCredentials), true)

	_, err = s.Register(ctx, "a@b.c", "123", "")
	assert.Equal(t, errors.Is(err, ErrWeakPassword), true)

	_, err = s.Register(ctx, "a@b.c", "secret42", "")
	assert.Equal(t, err, nil)
	_, err = s.Register(ctx, "A@B.C", "secret42", "")
	assert.Equal(t, errors.Is(err, ErrEmailTaken), true)
}
