package order

import (
	"context"

	"shopfront/internal/domain"
)

// PlaceInput carries everything the placement transaction touches.
type PlaceInput struct {
	Order  domain.Order
	CartID string
}

type Repository interface {
	// Place inserts the order with its lines, decrements product stock and
	// clears the source cart, all in one transaction.
	Place(ctx context.Context, in PlaceInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	List(ctx context.Context, status string, limit, offset int) ([]domain.Order, int, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) error
}
