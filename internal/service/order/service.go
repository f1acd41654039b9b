package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"shopfront/internal/domain"
	orderrepo "shopfront/internal/repository/order"
)

var (
	// ErrEmptyCart is returned when checkout finds nothing to order.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrBadTransition is returned for status changes the lifecycle forbids.
	ErrBadTransition = errors.New("invalid status transition")
)

// Service turns carts into orders and walks orders through their lifecycle.
type Service struct {
	orders  orderRepo
	carts   cartGetter
	coupons couponRedeemer
}

type orderRepo interface {
	Place(ctx context.Context, in orderrepo.PlaceInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	List(ctx context.Context, status string, limit, offset int) ([]domain.Order, int, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type cartGetter interface {
	Get(ctx context.Context, customerID string) (*domain.Cart, error)
	Clear(ctx context.Context, customerID string) error
}

type couponRedeemer interface {
	Redeem(ctx context.Context, code string, subtotalCents int64) (int64, error)
}

func New(orders orderrepo.Repository, carts cartGetter, coupons couponRedeemer) *Service {
	return &Service{orders: orders, carts: carts, coupons: coupons}
}

// Checkout places an order from the customer's active cart. The repository
// transaction decrements stock and clears the cart together with the
// insert, so a failed placement leaves the cart intact.
func (s *Service) Checkout(ctx context.Context, customerID, couponCode string) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := cart.TotalCents
	var discount int64
	couponCode = strings.ToUpper(strings.TrimSpace(couponCode))
	if couponCode != "" {
		discount, err = s.coupons.Redeem(ctx, couponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}

	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, cl := range cart.Lines {
		lines = append(lines, domain.OrderLine{
			Key:            cl.Key,
			Quantity:       cl.Quantity,
			UnitPriceCents: cl.UnitPriceCents,
			TotalCents:     cl.TotalCents,
			Name:           cl.Name,
		})
	}

	return s.orders.Place(ctx, orderrepo.PlaceInput{
		Order: domain.Order{
			Number:        newOrderNumber(),
			CustomerID:    customerID,
			Currency:      cart.Currency,
			SubtotalCents: subtotal,
			DiscountCents: discount,
			TotalCents:    subtotal - discount,
			CouponCode:    couponCode,
			Status:        domain.OrderPending,
			Lines:         lines,
		},
		CartID: cart.ID,
	})
}

// Get returns the order only when it belongs to the customer.
func (s *Service) Get(ctx context.Context, customerID, orderID string) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}

func (s *Service) ListAll(ctx context.Context, status string, limit, offset int) ([]domain.Order, int, error) {
	return s.orders.List(ctx, status, limit, offset)
}

// SetStatus moves an order through its lifecycle, rejecting transitions the
// state machine forbids.
func (s *Service) SetStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.ValidTransition(next) {
		return nil, fmt.Errorf("%s to %s: %w", o.Status, next, ErrBadTransition)
	}
	if err := s.orders.SetStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}

func newOrderNumber() string {
	return "SF-" + strings.ToUpper(uuid.NewString()[:8])
}
