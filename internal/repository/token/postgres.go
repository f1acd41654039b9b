package token

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, t RefreshToken) error {
	const q = `
INSERT INTO refresh_tokens (token, customer_id, expires_at)
VALUES ($1, $2, $3)
`
	_, err := r.pool.Exec(ctx, q, t.Token, t.CustomerID, t.ExpiresAt)
	return err
}

func (r *postgresRepo) Get(ctx context.Context, token string) (*RefreshToken, error) {
	const q = `
SELECT token, customer_id::text, expires_at, revoked, created_at
FROM refresh_tokens
WHERE token = $1
`
	var out RefreshToken
	if err := r.pool.QueryRow(ctx, q, token).Scan(
		&out.Token,
		&out.CustomerID,
		&out.ExpiresAt,
		&out.Revoked,
		&out.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) Revoke(ctx context.Context, token string) error {
	cmd, err := r.pool.Exec(ctx, "UPDATE refresh_tokens SET revoked = true WHERE token = $1", token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RevokeAll(ctx context.Context, customerID string) error {
	_, err := r.pool.Exec(ctx, "UPDATE refresh_tokens SET revoked = true WHERE customer_id = $1", customerID)
	return err
}
