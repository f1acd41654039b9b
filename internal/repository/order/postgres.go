package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront/internal/domain"
)

const orderColumns = `id::text, number, customer_id::text, currency, subtotal_cents, discount_cents, total_cents, coupon_code, status, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Place(ctx context.Context, in PlaceInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	o := in.Order
	var orderID string
	if err := tx.QueryRow(ctx, `
INSERT INTO orders (number, customer_id, currency, subtotal_cents, discount_cents, total_cents, coupon_code, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text
`, o.Number, o.CustomerID, o.Currency, o.SubtotalCents, o.DiscountCents, o.TotalCents, o.CouponCode, o.Status).Scan(&orderID); err != nil {
		return nil, err
	}

	for _, line := range o.Lines {
		options := line.Key.Options
		if options == nil {
			options = map[string]string{}
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO order_lines (order_id, product_id, variant_id, options, quantity, unit_price_cents, total_cents, name)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, orderID, line.Key.ProductID, line.Key.VariantID, options, line.Quantity, line.UnitPriceCents, line.TotalCents, line.Name); err != nil {
			return nil, err
		}

		// Stock is tracked at product granularity; variant stock on the
		// product document is informational for add-time clamping.
		cmd, err := tx.Exec(ctx, `
UPDATE products
SET stock = stock - $1, updated_at = now()
WHERE id = $2 AND stock >= $1
`, line.Quantity, line.Key.ProductID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, fmt.Errorf("%s: %w", line.Name, domain.ErrOutOfStock)
		}
	}

	if in.CartID != "" {
		if _, err := tx.Exec(ctx, "DELETE FROM cart_lines WHERE cart_id = $1", in.CartID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
UPDATE carts SET total_cents = 0, total_items = 0, updated_at = now() WHERE id = $1
`, in.CartID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	lines, err := r.fetchLines(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE customer_id = $1 ORDER BY created_at DESC",
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(ctx, rows)
}

func (r *postgresRepo) List(ctx context.Context, status string, limit, offset int) ([]domain.Order, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		where = "WHERE status = $1"
	}
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM orders "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, len(args)-1, len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	out, err := r.collect(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx,
		"UPDATE orders SET status = $1, updated_at = now() WHERE id = $2",
		status, id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) collect(ctx context.Context, rows pgx.Rows) ([]domain.Order, error) {
	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		lines, err := r.fetchLines(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

func (r *postgresRepo) fetchLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const q = `
SELECT id::text, order_id::text, product_id::text, variant_id, options, quantity, unit_price_cents, total_cents, name
FROM order_lines
WHERE order_id = $1
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		var variantID string
		var options map[string]string
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.Key.ProductID,
			&variantID,
			&options,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.TotalCents,
			&line.Name,
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

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.ID,
		&o.Number,
		&o.CustomerID,
		&o.Currency,
		&o.SubtotalCents,
		&o.DiscountCents,
		&o.TotalCents,
		&o.CouponCode,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
