package product

import (
	"context"

	"shopfront/internal/domain"
)

// ListFilter narrows catalog listings.
type ListFilter struct {
	CategoryID string
	Query      string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Product, int, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
