package coupon

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront/internal/domain"
)

const couponColumns = `id::text, code, kind, value, min_subtotal_cents, expires_at, active, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+couponColumns+" FROM coupons ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	c, err := scanCoupon(r.pool.QueryRow(ctx, "SELECT "+couponColumns+" FROM coupons WHERE code = $1", code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	const q = `
INSERT INTO coupons (code, kind, value, min_subtotal_cents, expires_at, active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + couponColumns
	out, err := scanCoupon(r.pool.QueryRow(ctx, q, c.Code, c.Kind, c.Value, c.MinSubtotalCents, c.ExpiresAt, c.Active))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	const q = `
UPDATE coupons
SET code = $2, kind = $3, value = $4, min_subtotal_cents = $5, expires_at = $6, active = $7
WHERE id = $1
RETURNING ` + couponColumns
	out, err := scanCoupon(r.pool.QueryRow(ctx, q, c.ID, c.Code, c.Kind, c.Value, c.MinSubtotalCents, c.ExpiresAt, c.Active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM coupons WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	if err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Kind,
		&c.Value,
		&c.MinSubtotalCents,
		&c.ExpiresAt,
		&c.Active,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
