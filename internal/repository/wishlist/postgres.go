package wishlist

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetOrCreate(ctx context.Context, customerID string) (*domain.Wishlist, error) {
	const q = `
INSERT INTO wishlists (customer_id)
VALUES ($1)
ON CONFLICT (customer_id) DO UPDATE SET customer_id = EXCLUDED.customer_id
RETURNING id::text, customer_id::text, created_at
`
	var list domain.Wishlist
	if err := r.pool.QueryRow(ctx, q, customerID).Scan(&list.ID, &list.CustomerID, &list.CreatedAt); err != nil {
		return nil, err
	}

	const linesQ = `
SELECT id::text, wishlist_id::text, product_id::text, variant_id, options, price_cents, currency, name, image, created_at
FROM wishlist_lines
WHERE wishlist_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQ, list.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.WishlistLine
		var variantID string
		var options map[string]string
		if err := rows.Scan(
			&line.ID,
			&line.WishlistID,
			&line.Key.ProductID,
			&variantID,
			&options,
			&line.PriceCents,
			&line.Currency,
			&line.Name,
			&line.Image,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		line.Key.VariantID = variantID
		if len(options) > 0 {
			line.Key.Options = options
		}
		line.Key = line.Key.Normalized()
		list.Lines = append(list.Lines, line)
	}
	return &list, rows.Err()
}

func (r *postgresRepo) AddLine(ctx context.Context, wishlistID string, line domain.WishlistLine) error {
	const q = `
INSERT INTO wishlist_lines (wishlist_id, product_id, variant_id, options, fingerprint, price_cents, currency, name, image)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (wishlist_id, fingerprint) DO NOTHING
`
	options := line.Key.Options
	if options == nil {
		options = map[string]string{}
	}
	_, err := r.pool.Exec(ctx, q,
		wishlistID, line.Key.ProductID, line.Key.VariantID, options, line.Key.Fingerprint(),
		line.PriceCents, line.Currency, line.Name, line.Image,
	)
	return err
}

func (r *postgresRepo) RemoveLine(ctx context.Context, wishlistID string, key domain.ItemKey) error {
	_, err := r.pool.Exec(ctx,
		"DELETE FROM wishlist_lines WHERE wishlist_id = $1 AND fingerprint = $2",
		wishlistID, key.Fingerprint(),
	)
	return err
}

func (r *postgresRepo) Clear(ctx context.Context, wishlistID string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM wishlist_lines WHERE wishlist_id = $1", wishlistID)
	return err
}
