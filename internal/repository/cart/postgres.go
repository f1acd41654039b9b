package cart

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

func (r *postgresRepo) GetOrCreate(ctx context.Context, customerID, currency string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (customer_id, currency)
VALUES ($1, $2)
ON CONFLICT (customer_id) DO UPDATE SET updated_at = carts.updated_at
RETURNING id::text, customer_id::text, currency, total_cents, total_items, created_at, updated_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, customerID, currency).Scan(
		&cart.ID,
		&cart.CustomerID,
		&cart.Currency,
		&cart.TotalCents,
		&cart.TotalItems,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}

	lines, err := r.fetchLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Lines = lines
	return &cart, nil
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID string, line domain.CartLine) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	fp := line.Key.Fingerprint()

	var lineID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_lines
WHERE cart_id = $1 AND fingerprint = $2
`, cartID, fp).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		newQty := clamp(existingQty+line.Quantity, line.Stock)
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total_cents = unit_price_cents * $1, stock = $2
WHERE id = $3
`, newQty, line.Stock, lineID); err != nil {
			return err
		}
	} else {
		qty := clamp(line.Quantity, line.Stock)
		options := line.Key.Options
		if options == nil {
			options = map[string]string{}
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, variant_id, options, fingerprint, quantity, stock, unit_price_cents, total_cents, name, image)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`, cartID, line.Key.ProductID, line.Key.VariantID, options, fp,
			qty, line.Stock, line.UnitPriceCents, line.UnitPriceCents*int64(qty), line.Name, line.Image); err != nil {
			return err
		}
	}

	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, cartID string, key domain.ItemKey, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	fp := key.Fingerprint()

	if quantity <= 0 {
		cmd, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE cart_id = $1 AND fingerprint = $2
`, cartID, fp)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
	} else {
		var stock int
		err := tx.QueryRow(ctx, `
SELECT stock
FROM cart_lines
WHERE cart_id = $1 AND fingerprint = $2
`, cartID, fp).Scan(&stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		qty := clamp(quantity, stock)
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, total_cents = unit_price_cents * $1
WHERE cart_id = $2 AND fingerprint = $3
`, qty, cartID, fp); err != nil {
			return err
		}
	}

	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID string, key domain.ItemKey) error {
	err := r.SetLineQuantity(ctx, cartID, key, 0)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM cart_lines WHERE cart_id = $1", cartID); err != nil {
		return err
	}
	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	const q = `
SELECT id::text, cart_id::text, product_id::text, variant_id, options, quantity, stock, unit_price_cents, total_cents, name, image, created_at
FROM cart_lines
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		var variantID string
		var options map[string]string
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.Key.ProductID,
			&variantID,
			&options,
			&line.Quantity,
			&line.Stock,
			&line.UnitPriceCents,
			&line.TotalCents,
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
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func updateCartTotals(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET total_cents = COALESCE((SELECT SUM(total_cents) FROM cart_lines WHERE cart_id = $1), 0),
    total_items = COALESCE((SELECT SUM(quantity) FROM cart_lines WHERE cart_id = $1), 0),
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}

func clamp(quantity, stock int) int {
	if stock > 0 && quantity > stock {
		return stock
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}
