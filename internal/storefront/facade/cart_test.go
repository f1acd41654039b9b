package facade

import (
	"context"
	"errors"
	"testing"

	"shopfront/internal/domain"
)

type stubSession struct{ authenticated bool }

func (s *stubSession) Authenticated() bool { return s.authenticated }

type stubNotifier struct {
	infos []string
	warns []string
}

func (s *stubNotifier) Info(msg string) { s.infos = append(s.infos, msg) }
func (s *stubNotifier) Warn(msg string) { s.warns = append(s.warns, msg) }

type stubGuestCart struct {
	items   []domain.LineItem
	added   []domain.LineItem
	removed []domain.ItemKey
	updated int
	cleared int
}

func (s *stubGuestCart) Items() []domain.LineItem { return s.items }
func (s *stubGuestCart) TotalItems() int {
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}
func (s *stubGuestCart) Add(item domain.LineItem) { s.added = append(s.added, item) }
func (s *stubGuestCart) Update(key domain.ItemKey, quantity int) { s.updated++ }
func (s *stubGuestCart) Remove(key domain.ItemKey) { s.removed = append(s.removed, key) }
func (s *stubGuestCart) Clear() { s.cleared++ }

type stubRemoteCart struct {
	cart    *domain.Cart
	err     error
	added   []domain.ItemKey
	updated []domain.ItemKey
	removed []domain.ItemKey
	cleared int
	fetches int
}

func (s *stubRemoteCart) Cart(_ context.Context) (*domain.Cart, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubRemoteCart) CartAdd(_ context.Context, key domain.ItemKey, quantity int) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.added = append(s.added, key)
	return s.cart, nil
}

func (s *stubRemoteCart) CartUpdate(_ context.Context, key domain.ItemKey, quantity int) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = append(s.updated, key)
	return s.cart, nil
}

func (s *stubRemoteCart) CartRemove(_ context.Context, key domain.ItemKey) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.removed = append(s.removed, key)
	return s.cart, nil
}

func (s *stubRemoteCart) CartClear(_ context.Context) error {
	if s.err != nil {
		return s.err
	}
	s.cleared++
	return nil
}

func TestCartRoutesToGuestStoreWhenLoggedOut(t *testing.T) {
	session := &stubSession{authenticated: false}
	guest := &stubGuestCart{items: []domain.LineItem{{Key: domain.SimpleItem("p1"), Quantity: 2}}}
	remote := &stubRemoteCart{}
	cart := NewCart(session, guest, remote, &stubNotifier{})

	ctx := context.Background()
	if got := cart.TotalItems(ctx); got != 2 {
		t.Fatalf("total items = %d, want 2", got)
	}
	cart.Add(ctx, domain.LineItem{Key: domain.SimpleItem("p2"), Quantity: 1})
	cart.Remove(ctx, domain.SimpleItem("p1"))

	if len(guest.added) != 1 || len(guest.removed) != 1 {
		t.Fatalf("guest store not used: %+v", guest)
	}
	if remote.fetches != 0 || len(remote.added) != 0 {
		t.Fatalf("remote must not be called while logged out")
	}
}

func TestCartRoutesToRemoteWhenAuthenticated(t *testing.T) {
	session := &stubSession{authenticated: true}
	guest := &stubGuestCart{}
	remote := &stubRemoteCart{cart: &domain.Cart{
		Currency:   "USD",
		TotalItems: 3,
		Lines: []domain.CartLine{
			{Key: domain.SimpleItem("p1"), Quantity: 3, UnitPriceCents: 1999, Name: "Classic Tee"},
		},
	}}
	cart := NewCart(session, guest, remote, &stubNotifier{})

	ctx := context.Background()
	items := cart.Items(ctx)
	if len(items) != 1 || items[0].Currency != "USD" || items[0].Name != "Classic Tee" {
		t.Fatalf("unexpected items: %+v", items)
	}
	cart.Add(ctx, domain.LineItem{Key: domain.SimpleItem("p2"), Quantity: 1})
	if len(remote.added) != 1 {
		t.Fatalf("remote add not called")
	}
	if len(guest.added) != 0 {
		t.Fatalf("guest store must not be touched while authenticated")
	}
}

func TestCartAddShortCircuitsAtStockCeiling(t *testing.T) {
	session := &stubSession{authenticated: true}
	notify := &stubNotifier{}
	remote := &stubRemoteCart{cart: &domain.Cart{
		Lines: []domain.CartLine{
			{Key: domain.SimpleItem("p1"), Quantity: 5, Stock: 5},
		},
	}}
	cart := NewCart(session, &stubGuestCart{}, remote, notify)

	cart.Add(context.Background(), domain.LineItem{Key: domain.SimpleItem("p1"), Quantity: 1})

	if len(remote.added) != 0 {
		t.Fatalf("add at the stock ceiling must not reach the backend")
	}
	if len(notify.infos) != 1 {
		t.Fatalf("expected an informational notification, got %+v", notify)
	}
}

func TestCartNetworkFailureNotifiesWithoutPanic(t *testing.T) {
	session := &stubSession{authenticated: true}
	notify := &stubNotifier{}
	remote := &stubRemoteCart{err: errors.New("connection refused")}
	cart := NewCart(session, &stubGuestCart{}, remote, notify)

	ctx := context.Background()
	if items := cart.Items(ctx); items != nil {
		t.Fatalf("expected nil items on failure, got %+v", items)
	}
	cart.Add(ctx, domain.LineItem{Key: domain.SimpleItem("p1"), Quantity: 1})
	cart.Update(ctx, domain.SimpleItem("p1"), 2)
	cart.Clear(ctx)

	if len(notify.warns) == 0 {
		t.Fatalf("network failures must surface as notifications")
	}
}
