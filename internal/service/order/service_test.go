package order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopfront/internal/domain"
	orderrepo "shopfront/internal/repository/order"
)

type stubOrderRepo struct {
	placed    []orderrepo.PlaceInput
	byID      map[string]*domain.Order
	setStatus domain.OrderStatus
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: map[string]*domain.Order{}}
}

func (s *stubOrderRepo) Place(_ context.Context, in orderrepo.PlaceInput) (*domain.Order, error) {
	s.placed = append(s.placed, in)
	o := in.Order
	o.ID = "order-1"
	s.byID[o.ID] = &o
	return &o, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *stubOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrderRepo) List(_ context.Context, status string, limit, offset int) ([]domain.Order, int, error) {
	return nil, 0, nil
}

func (s *stubOrderRepo) SetStatus(_ context.Context, id string, status domain.OrderStatus) error {
	o, ok := s.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	s.setStatus = status
	return nil
}

type stubCarts struct {
	cart *domain.Cart
}

func (s *stubCarts) Get(_ context.Context, customerID string) (*domain.Cart, error) {
	return s.cart, nil
}

func (s *stubCarts) Clear(_ context.Context, customerID string) error { return nil }

type stubCoupons struct {
	discount int64
	err      error
	gotCode  string
}

func (s *stubCoupons) Redeem(_ context.Context, code string, subtotalCents int64) (int64, error) {
	s.gotCode = code
	return s.discount, s.err
}

func filledCart() *domain.Cart {
	return &domain.Cart{
		ID:         "cart-1",
		CustomerID: "cust-1",
		Currency:   "USD",
		TotalCents: 4000,
		Lines: []domain.CartLine{
			{Key: domain.SimpleItem("p1"), Quantity: 2, UnitPriceCents: 2000, TotalCents: 4000, Name: "Classic Tee"},
		},
	}
}

func TestCheckoutPlacesOrderFromCart(t *testing.T) {
	repo := newStubOrderRepo()
	svc := New(repo, &stubCarts{cart: filledCart()}, &stubCoupons{})

	order, err := svc.Checkout(context.Background(), "cust-1", "")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.Status != domain.OrderPending {
		t.Fatalf("status = %s, want pending", order.Status)
	}
	if order.SubtotalCents != 4000 || order.TotalCents != 4000 {
		t.Fatalf("unexpected totals: %+v", order)
	}
	if !strings.HasPrefix(order.Number, "SF-") {
		t.Fatalf("unexpected order number %q", order.Number)
	}
	if len(repo.placed) != 1 || repo.placed[0].CartID != "cart-1" {
		t.Fatalf("unexpected placement: %+v", repo.placed)
	}
	if len(order.Lines) != 1 || order.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines: %+v", order.Lines)
	}
}

func TestCheckoutAppliesCoupon(t *testing.T) {
	repo := newStubOrderRepo()
	coupons := &stubCoupons{discount: 400}
	svc := New(repo, &stubCarts{cart: filledCart()}, coupons)

	order, err := svc.Checkout(context.Background(), "cust-1", " welcome10 ")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if coupons.gotCode != "WELCOME10" {
		t.Fatalf("coupon code not normalized: %q", coupons.gotCode)
	}
	if order.DiscountCents != 400 || order.TotalCents != 3600 {
		t.Fatalf("unexpected totals: discount=%d total=%d", order.DiscountCents, order.TotalCents)
	}
	if order.CouponCode != "WELCOME10" {
		t.Fatalf("coupon code not recorded: %q", order.CouponCode)
	}
}

func TestCheckoutFailsOnEmptyCartOrBadCoupon(t *testing.T) {
	repo := newStubOrderRepo()
	svc := New(repo, &stubCarts{cart: &domain.Cart{ID: "cart-1"}}, &stubCoupons{})

	if _, err := svc.Checkout(context.Background(), "cust-1", ""); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("empty cart: got %v, want ErrEmptyCart", err)
	}

	couponErr := errors.New("invalid coupon")
	svc = New(repo, &stubCarts{cart: filledCart()}, &stubCoupons{err: couponErr})
	if _, err := svc.Checkout(context.Background(), "cust-1", "NOPE"); !errors.Is(err, couponErr) {
		t.Fatalf("bad coupon: got %v", err)
	}
	if len(repo.placed) != 0 {
		t.Fatalf("failed checkouts must not place orders")
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	repo := newStubOrderRepo()
	repo.byID["order-1"] = &domain.Order{ID: "order-1", CustomerID: "cust-1"}
	svc := New(repo, &stubCarts{}, &stubCoupons{})

	if _, err := svc.Get(context.Background(), "cust-1", "order-1"); err != nil {
		t.Fatalf("own order: %v", err)
	}
	if _, err := svc.Get(context.Background(), "cust-2", "order-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("foreign order: got %v, want ErrNotFound", err)
	}
}

func TestSetStatusHonorsLifecycle(t *testing.T) {
	repo := newStubOrderRepo()
	repo.byID["order-1"] = &domain.Order{ID: "order-1", Status: domain.OrderPending}
	svc := New(repo, &stubCarts{}, &stubCoupons{})
	ctx := context.Background()

	order, err := svc.SetStatus(ctx, "order-1", domain.OrderPaid)
	if err != nil {
		t.Fatalf("pending -> paid: %v", err)
	}
	if order.Status != domain.OrderPaid {
		t.Fatalf("status = %s, want paid", order.Status)
	}

	if _, err := svc.SetStatus(ctx, "order-1", domain.OrderDelivered); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("paid -> delivered: got %v, want ErrBadTransition", err)
	}
}
