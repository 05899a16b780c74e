package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	dom "taskflow/internal/domain"
	"taskflow/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email already registered")
)

// AccountRepo provides account persistence.
type AccountRepo interface {
	GetByEmail(ctx context.Context, email string) (dom.Account, error)
	GetByID(ctx context.Context, id string) (dom.Account, error)
	Create(ctx context.Context, a dom.Account) (dom.Account, error)
}

// PGAccountRepo implements AccountRepo with Postgres.
type PGAccountRepo struct {
	db *pgxpool.Pool
}

// NewPGAccountRepo returns a new PGAccountRepo.
func NewPGAccountRepo(db *pgxpool.Pool) *PGAccountRepo {
	return &PGAccountRepo{db: db}
}

const accountColumns = `id::text, email, password_hash, avatar_url, metadata::text, created_at`

// GetByEmail returns the account registered with email.
func (r *PGAccountRepo) GetByEmail(ctx context.Context, email string) (dom.Account, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		normalizeEmail(email),
	)
	return scanAccount(row)
}

// GetByID returns the account by ID.
func (r *PGAccountRepo) GetByID(ctx context.Context, id string) (dom.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return dom.Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1::uuid`,
		id,
	)
	return scanAccount(row)
}

// Create inserts a new account and returns it.
func (r *PGAccountRepo) Create(ctx context.Context, a dom.Account) (dom.Account, error) {
	meta, err := json.Marshal(metadataOrEmpty(a.Metadata))
	if err != nil {
		return dom.Account{}, err
	}
	query := `
		INSERT INTO accounts (id, email, password_hash, avatar_url, metadata)
		VALUES ($1::uuid, $2, $3, $4, $5::text::jsonb)
		RETURNING ` + accountColumns
	row := r.db.QueryRow(ctx, query, uuid.NewString(), normalizeEmail(a.Email), a.PasswordHash, a.AvatarURL, string(meta))
	out, err := scanAccount(row)
	if utils.IsPGUniqueViolation(err) {
		return dom.Account{}, ErrEmailTaken
	}
	return out, err
}

func scanAccount(row pgx.Row) (dom.Account, error) {
	var (
		a    dom.Account
		meta string
	)
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.AvatarURL, &meta, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Account{}, ErrNotFound
	}
	if err != nil {
		return dom.Account{}, err
	}
	if err := json.Unmarshal([]byte(meta), &a.Metadata); err != nil {
		return dom.Account{}, err
	}
	return a, nil
}

// MemoryAccountRepo keeps accounts in process. It backs the memory storage
// mode and tests.
type MemoryAccountRepo struct {
	mu      sync.RWMutex
	byID    map[string]dom.Account
	byEmail map[string]string
}

func NewMemoryAccountRepo() *MemoryAccountRepo {
	return &MemoryAccountRepo{byID: make(map[string]dom.Account), byEmail: make(map[string]string)}
}

func (r *MemoryAccountRepo) GetByEmail(ctx context.Context, email string) (dom.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return dom.Account{}, ErrNotFound
	}
	return copyAccount(r.byID[id]), nil
}

func (r *MemoryAccountRepo) GetByID(ctx context.Context, id string) (dom.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return dom.Account{}, ErrNotFound
	}
	return copyAccount(a), nil
}

func (r *MemoryAccountRepo) Create(ctx context.Context, a dom.Account) (dom.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.Email = normalizeEmail(a.Email)
	if _, ok := r.byEmail[a.Email]; ok {
		return dom.Account{}, ErrEmailTaken
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	a.Metadata = metadataOrEmpty(a.Metadata)
	r.byID[a.ID] = copyAccount(a)
	r.byEmail[a.Email] = a.ID
	return a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func metadataOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func copyAccount(a dom.Account) dom.Account {
	meta := make(map[string]any, len(a.Metadata))
	for k, v := range a.Metadata {
		meta[k] = v
	}
	a.Metadata = meta
	return a
}
