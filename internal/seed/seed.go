package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"shopfront/internal/domain"
)

type productSeed struct {
	SKU         string
	Slug        string
	Name        string
	Description string
	Category    string
	PriceCents  int64
	Currency    string
	Stock       int
	Variants    []domain.ProductVariant
}

// Apply inserts demo catalog data for manual testing. It is idempotent via
// ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	categories := map[string]string{
		"apparel":   "Apparel",
		"drinkware": "Drinkware",
	}
	categoryIDs := make(map[string]string, len(categories))
	for key, name := range categories {
		id, err := ensureCategory(ctx, pool, key, name)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", key, err)
		}
		categoryIDs[key] = id
	}

	products := []productSeed{
		{
			SKU:         "SF-TEE",
			Slug:        "classic-tee",
			Name:        "Classic Tee",
			Description: "Soft cotton tee",
			Category:    "apparel",
			PriceCents:  1999,
			Currency:    "USD",
			Stock:       50,
			Variants: []domain.ProductVariant{
				{ID: "SF-TEE-S-BLK", SKU: "SF-TEE-S-BLK", Options: map[string]string{"size": "S", "color": "black"}, Stock: 12},
				{ID: "SF-TEE-M-BLK", SKU: "SF-TEE-M-BLK", Options: map[string]string{"size": "M", "color": "black"}, Stock: 20},
				{ID: "SF-TEE-M-WHT", SKU: "SF-TEE-M-WHT", Options: map[string]string{"size": "M", "color": "white"}, Stock: 18, PriceCents: 2199},
			},
		},
		{
			SKU:         "SF-MUG",
			Slug:        "stoneware-mug",
			Name:        "Stoneware Mug",
			Description: "Ceramic mug, 350ml",
			Category:    "drinkware",
			PriceCents:  1299,
			Currency:    "USD",
			Stock:       5,
		},
		{
			SKU:         "SF-HOODIE",
			Slug:        "zip-hoodie",
			Name:        "Zip Hoodie",
			Description: "Heavyweight fleece hoodie",
			Category:    "apparel",
			PriceCents:  5499,
			Currency:    "USD",
			Stock:       30,
			Variants: []domain.ProductVariant{
				{ID: "SF-HOODIE-M", SKU: "SF-HOODIE-M", Options: map[string]string{"size": "M"}, Stock: 15},
				{ID: "SF-HOODIE-L", SKU: "SF-HOODIE-L", Options: map[string]string{"size": "L"}, Stock: 15},
			},
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, categoryIDs[p.Category], p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}

	if err := ensureCoupon(ctx, pool, "WELCOME10", domain.CouponPercent, 10, 0); err != nil {
		return fmt.Errorf("ensure coupon: %w", err)
	}
	if err := ensureCoupon(ctx, pool, "SHIP5", domain.CouponFixed, 500, 2500); err != nil {
		return fmt.Errorf("ensure coupon: %w", err)
	}

	if err := ensureAdmin(ctx, pool, "admin@shopfront.local", "changeme123"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, key, name string) (string, error) {
	const q = `
INSERT INTO categories (key, name, slug)
VALUES ($1, $2, $1)
ON CONFLICT (key) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, key, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, categoryID string, p productSeed) error {
	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO products (sku, slug, name, description, category_id, price_cents, currency, stock, images, variants, active)
VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7, $8, '[]'::jsonb, $9, TRUE)
ON CONFLICT (sku) DO UPDATE SET
	slug = EXCLUDED.slug,
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	category_id = EXCLUDED.category_id,
	price_cents = EXCLUDED.price_cents,
	currency = EXCLUDED.currency,
	stock = EXCLUDED.stock,
	variants = EXCLUDED.variants,
	updated_at = now()
`
	_, err = pool.Exec(ctx, q, p.SKU, p.Slug, p.Name, p.Description, categoryID, p.PriceCents, p.Currency, p.Stock, variants)
	return err
}

func ensureCoupon(ctx context.Context, pool *pgxpool.Pool, code string, kind domain.CouponKind, value, minSubtotal int64) error {
	const q = `
INSERT INTO coupons (code, kind, value, min_subtotal_cents, expires_at, active)
VALUES ($1, $2, $3, $4, $5, TRUE)
ON CONFLICT (code) DO NOTHING
`
	_, err := pool.Exec(ctx, q, code, string(kind), value, minSubtotal, time.Now().AddDate(1, 0, 0))
	return err
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO customers (email, password_hash, first_name, role)
VALUES ($1, $2, 'Admin', $3)
ON CONFLICT (email) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash), domain.RoleAdmin)
	return err
}
