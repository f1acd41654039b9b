package customer

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront/internal/domain"
)

const customerColumns = `id::text, email, password_hash, first_name, last_name, role, addresses, default_shipping_address_id, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (email, password_hash, first_name, last_name, role, addresses, default_shipping_address_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + customerColumns
	addresses := c.Addresses
	if addresses == nil {
		addresses = []domain.CustomerAddress{}
	}
	role := c.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	out, err := scanCustomer(r.pool.QueryRow(ctx, q,
		c.Email, c.PasswordHash, c.FirstName, c.LastName, role, addresses, c.DefaultShippingAddressID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.fetch(ctx, "SELECT "+customerColumns+" FROM customers WHERE email = $1", email)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.fetch(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id)
}

func (r *postgresRepo) List(ctx context.Context, limit, offset int) ([]domain.Customer, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM customers").Scan(&total); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		"SELECT "+customerColumns+" FROM customers ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (r *postgresRepo) fetch(ctx context.Context, query string, args ...interface{}) (*domain.Customer, error) {
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(
		&c.ID,
		&c.Email,
		&c.PasswordHash,
		&c.FirstName,
		&c.LastName,
		&c.Role,
		&c.Addresses,
		&c.DefaultShippingAddressID,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
