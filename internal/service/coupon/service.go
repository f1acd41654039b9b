package coupon

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shopfront/internal/domain"
	couponrepo "shopfront/internal/repository/coupon"
)

var (
	// ErrInvalid is returned for unknown, inactive or expired codes.
	ErrInvalid = errors.New("coupon not valid")
	// ErrMinSubtotal is returned when the cart is below the coupon's floor.
	ErrMinSubtotal = errors.New("cart subtotal below coupon minimum")
)

type Service struct {
	repo couponRepo
}

type couponRepo interface {
	List(ctx context.Context) ([]domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	Update(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	Delete(ctx context.Context, id string) error
}

func New(repo couponrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Redeem resolves the discount in cents that code grants on the given
// subtotal. The discount never exceeds the subtotal.
func (s *Service) Redeem(ctx context.Context, code string, subtotalCents int64) (int64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0, ErrInvalid
	}
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, ErrInvalid
		}
		return 0, err
	}
	if !c.Active {
		return 0, ErrInvalid
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()) {
		return 0, ErrInvalid
	}
	if subtotalCents < c.MinSubtotalCents {
		return 0, ErrMinSubtotal
	}
	return Discount(*c, subtotalCents), nil
}

// Discount computes the cent amount a coupon takes off a subtotal.
// Percentages go through decimal math so 15% of 1999 cents rounds half-up
// to 300 rather than truncating.
func Discount(c domain.Coupon, subtotalCents int64) int64 {
	var discount int64
	switch c.Kind {
	case domain.CouponPercent:
		discount = decimal.NewFromInt(subtotalCents).
			Mul(decimal.NewFromInt(c.Value)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case domain.CouponFixed:
		discount = c.Value
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

func (s *Service) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	if err := validate(&c); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	if strings.TrimSpace(c.ID) == "" {
		return nil, errors.New("id required")
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validate(c *domain.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return errors.New("code required")
	}
	switch c.Kind {
	case domain.CouponPercent:
		if c.Value < 1 || c.Value > 100 {
			return errors.New("percent value must be between 1 and 100")
		}
	case domain.CouponFixed:
		if c.Value <= 0 {
			return errors.New("fixed value must be positive")
		}
	default:
		return errors.New("unsupported coupon kind")
	}
	return nil
}
