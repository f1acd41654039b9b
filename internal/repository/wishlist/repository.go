package wishlist

import (
	"context"

	"shopfront/internal/domain"
)

type Repository interface {
	// GetOrCreate returns the customer's wishlist, creating an empty one on
	// first use.
	GetOrCreate(ctx context.Context, customerID string) (*domain.Wishlist, error)
	// AddLine inserts a line unless one with the same item identity already
	// exists; duplicates are a silent no-op.
	AddLine(ctx context.Context, wishlistID string, line domain.WishlistLine) error
	// RemoveLine deletes the matching line; absent lines are a no-op.
	RemoveLine(ctx context.Context, wishlistID string, key domain.ItemKey) error
	Clear(ctx context.Context, wishlistID string) error
}
