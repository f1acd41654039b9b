package cart

import (
	"context"

	"shopfront/internal/domain"
)

type Repository interface {
	// GetOrCreate returns the customer's cart, creating an empty one on
	// first use.
	GetOrCreate(ctx context.Context, customerID, currency string) (*domain.Cart, error)
	// AddLine merges a line into the cart: an existing line with the same
	// item identity has its quantity incremented and clamped to the stock
	// ceiling, otherwise the line is inserted.
	AddLine(ctx context.Context, cartID string, line domain.CartLine) error
	// SetLineQuantity updates the matching line; a quantity of zero or less
	// deletes it. Missing lines return domain.ErrNotFound.
	SetLineQuantity(ctx context.Context, cartID string, key domain.ItemKey, quantity int) error
	// RemoveLine deletes the matching line. Removing an absent line is a
	// no-op.
	RemoveLine(ctx context.Context, cartID string, key domain.ItemKey) error
	// Clear deletes all lines and resets the totals.
	Clear(ctx context.Context, cartID string) error
}
