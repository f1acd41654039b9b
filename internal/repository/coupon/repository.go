package coupon

import (
	"context"

	"shopfront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	Update(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	Delete(ctx context.Context, id string) error
}
