package guest

import (
	"io"
	"log"
	"testing"

	"shopfront/internal/domain"
	"shopfront/internal/storefront/localstore"
)

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestCart(t *testing.T, dir string) *CartStore {
	t.Helper()
	store, err := localstore.New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return NewCartStore(store, discard())
}

func tee(qty int) domain.LineItem {
	return domain.LineItem{
		Key:            domain.SimpleItem("p1"),
		Quantity:       qty,
		Stock:          5,
		UnitPriceCents: 1999,
		Currency:       "USD",
		Name:           "Classic Tee",
	}
}

func TestCartAddMergesAndClamps(t *testing.T) {
	cart := newTestCart(t, t.TempDir())

	cart.Add(tee(2))
	cart.Add(tee(2))
	if got := cart.TotalItems(); got != 4 {
		t.Fatalf("total items = %d, want 4", got)
	}
	if got := len(cart.Items()); got != 1 {
		t.Fatalf("expected one merged entry, got %d", got)
	}

	// The third add would exceed the stock of 5 and gets clamped.
	cart.Add(tee(3))
	if got := cart.TotalItems(); got != 5 {
		t.Fatalf("total items = %d, want 5 after clamp", got)
	}
	if got := cart.TotalCents(); got != 5*1999 {
		t.Fatalf("total cents = %d, want %d", got, 5*1999)
	}
}

func TestCartVariantsAreDistinctEntries(t *testing.T) {
	cart := newTestCart(t, t.TempDir())

	m := domain.LineItem{Key: domain.VariantItem("p1", "v-m", nil), Quantity: 1, UnitPriceCents: 1999}
	l := domain.LineItem{Key: domain.VariantItem("p1", "v-l", nil), Quantity: 1, UnitPriceCents: 1999}

	cart.Add(m)
	cart.Add(l)
	cart.Add(m)

	items := cart.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(items))
	}
	if items[0].Quantity != 2 || items[1].Quantity != 1 {
		t.Fatalf("unexpected quantities: %d, %d", items[0].Quantity, items[1].Quantity)
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	cart := newTestCart(t, t.TempDir())
	cart.Add(tee(2))

	cart.Update(domain.SimpleItem("p1"), 3)
	if got := cart.TotalItems(); got != 3 {
		t.Fatalf("total items = %d, want 3", got)
	}

	// Updating past the ceiling clamps.
	cart.Update(domain.SimpleItem("p1"), 9)
	if got := cart.TotalItems(); got != 5 {
		t.Fatalf("total items = %d, want 5", got)
	}

	// Zero removes, and removing again is a no-op.
	cart.Update(domain.SimpleItem("p1"), 0)
	if !cart.Empty() {
		t.Fatalf("expected empty cart")
	}
	cart.Remove(domain.SimpleItem("p1"))
	cart.Remove(domain.SimpleItem("p-unknown"))
}

func TestCartPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := newTestCart(t, dir)
	first.Add(tee(2))

	second := newTestCart(t, dir)
	if got := second.TotalItems(); got != 2 {
		t.Fatalf("reloaded total items = %d, want 2", got)
	}
	if got := second.TotalCents(); got != 2*1999 {
		t.Fatalf("reloaded total cents = %d", got)
	}

	second.Clear()
	third := newTestCart(t, dir)
	if !third.Empty() {
		t.Fatalf("cleared cart should stay empty after reload")
	}
}
