package postgres

import (
	"context"
	"database/sql"
	"errors"

	"acadrepo/internal/model"
	"acadrepo/internal/repository"
)

// PrincipalPostgres stores editor accounts in the users table.
type PrincipalPostgres struct {
	db *sql.DB
}

func NewPrincipalPostgres(db *sql.DB) *PrincipalPostgres {
	return &PrincipalPostgres{db: db}
}

var _ repository.PrincipalRepository = (*PrincipalPostgres)(nil)

func (r *PrincipalPostgres) Create(ctx context.Context, p *model.Principal) error {
	const q = `
		INSERT INTO users (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.Username, p.PasswordHash, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrConflict
	}
	return nil
}

func (r *PrincipalPostgres) FindByUsername(ctx context.Context, username string) (*model.Principal, error) {
	const q = `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	var p model.Principal
	err := r.db.QueryRowContext(ctx, q, username).Scan(
		&p.ID,
		&p.Username,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PrincipalPostgres) UpdatePassword(ctx context.Context, username, hash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE username = $1`
	res, err := r.db.ExecContext(ctx, q, username, hash)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// Upsert keeps the existing id and created_at when the username is present.
func (r *PrincipalPostgres) Upsert(ctx context.Context, p *model.Principal) error {
	const q = `
		INSERT INTO users (id, username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, q, p.ID, p.Username, p.PasswordHash, p.CreatedAt, p.UpdatedAt)
	return err
}
