package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"spacify/internal/domain"
	"spacify/internal/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var errEmailRegistered = domain.ConflictError{Resource: "account", Msg: "User with this email already exists"}

// MemoryUserRepository keeps accounts in memory, keyed by lowercased email.
type MemoryUserRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

func NewMemoryUserRepository(seed ...models.Account) *MemoryUserRepository {
	r := &MemoryUserRepository{accounts: map[string]models.Account{}}
	for _, a := range seed {
		r.accounts[strings.ToLower(a.Email)] = a
	}
	return r
}

func (r *MemoryUserRepository) Create(_ context.Context, acc models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(acc.Email)
	if _, ok := r.accounts[key]; ok {
		return errEmailRegistered
	}
	r.accounts[key] = acc
	return nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accounts[strings.ToLower(email)]
	if !ok {
		return models.Account{}, domain.NotFoundError{Resource: "account"}
	}
	return acc, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acc := range r.accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return models.Account{}, domain.NotFoundError{Resource: "account"}
}

// PgQuerier is the part of *pgxpool.Pool the account repository uses.
type PgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgQuerier = (*pgxpool.Pool)(nil)

// PgUserRepository stores accounts in PostgreSQL.
type PgUserRepository struct {
	Pool PgQuerier
}

func (r PgUserRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id            TEXT PRIMARY KEY,
			full_name     TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			phone         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create accounts table: %w", err)
	}
	return nil
}

func (r PgUserRepository) Create(ctx context.Context, acc models.Account) error {
	_, err := r.Pool.Exec(ctx,
		`INSERT INTO accounts (id, full_name, email, phone, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		acc.ID, acc.Name, strings.ToLower(acc.Email), acc.Phone, acc.PasswordHash, acc.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errEmailRegistered
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r PgUserRepository) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	return r.getOne(ctx, `WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r PgUserRepository) GetByID(ctx context.Context, id string) (models.Account, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r PgUserRepository) getOne(ctx context.Context, where string, arg any) (models.Account, error) {
	var a models.Account
	err := r.Pool.QueryRow(ctx,
		`SELECT id, full_name, email, phone, password_hash, created_at FROM accounts `+where,
		arg,
	).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, domain.NotFoundError{Resource: "account", Err: err}
		}
		return models.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}
