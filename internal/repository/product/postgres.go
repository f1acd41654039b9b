package product

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront/internal/domain"
)

const productColumns = `id::text, sku, slug, name, description, COALESCE(category_id::text, ''), price_cents, currency, stock, images, variants, active, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]domain.Product, int, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.ActiveOnly {
		conds = append(conds, "active")
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+strings.ToLower(q)+"%")
		conds = append(conds, fmt.Sprintf("(lower(name) LIKE $%d OR lower(sku) LIKE $%d)", len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM products "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM products %s ORDER BY created_at DESC", productColumns, where)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.fetch(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.fetch(ctx, "SELECT "+productColumns+" FROM products WHERE slug = $1", slug)
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, slug, name, description, category_id, price_cents, currency, stock, images, variants, active)
VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8, $9, $10, $11)
ON CONFLICT (sku) DO UPDATE SET
    slug = EXCLUDED.slug,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    category_id = EXCLUDED.category_id,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    stock = EXCLUDED.stock,
    images = EXCLUDED.images,
    variants = EXCLUDED.variants,
    active = EXCLUDED.active,
    updated_at = now()
RETURNING ` + productColumns
	images := p.Images
	if images == nil {
		images = []string{}
	}
	variants := p.Variants
	if variants == nil {
		variants = []domain.ProductVariant{}
	}
	row := r.pool.QueryRow(ctx, q,
		p.SKU, p.Slug, p.Name, p.Description, p.CategoryID,
		p.PriceCents, p.Currency, p.Stock, images, variants, p.Active,
	)
	return scanProduct(row)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetch(ctx context.Context, query string, args ...interface{}) (*domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.Slug,
		&p.Name,
		&p.Description,
		&p.CategoryID,
		&p.PriceCents,
		&p.Currency,
		&p.Stock,
		&p.Images,
		&p.Variants,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
