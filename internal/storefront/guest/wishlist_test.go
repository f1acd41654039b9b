package guest

import (
	"testing"

	"shopfront/internal/domain"
	"shopfront/internal/storefront/localstore"
)

func newTestWishlist(t *testing.T, dir string) *WishlistStore {
	t.Helper()
	store, err := localstore.New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return NewWishlistStore(store, discard())
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	wl := newTestWishlist(t, t.TempDir())

	entry := domain.WishEntry{Key: domain.SimpleItem("p1"), Name: "Classic Tee", PriceCents: 1999}
	wl.Add(entry)
	wl.Add(entry)

	if got := wl.Count(); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if !wl.Has(domain.SimpleItem("p1")) {
		t.Fatalf("expected entry to be present")
	}
}

func TestWishlistVariantsAreDistinct(t *testing.T) {
	wl := newTestWishlist(t, t.TempDir())

	wl.Add(domain.WishEntry{Key: domain.VariantItem("p1", "v-m", nil)})
	wl.Add(domain.WishEntry{Key: domain.VariantItem("p1", "v-l", nil)})

	if got := wl.Count(); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}
	if wl.Has(domain.SimpleItem("p1")) {
		t.Fatalf("simple key should not match variant entries")
	}
}

func TestWishlistRemoveAndPersist(t *testing.T) {
	dir := t.TempDir()
	wl := newTestWishlist(t, dir)

	wl.Add(domain.WishEntry{Key: domain.SimpleItem("p1")})
	wl.Add(domain.WishEntry{Key: domain.SimpleItem("p2")})
	wl.Remove(domain.SimpleItem("p1"))
	wl.Remove(domain.SimpleItem("p-unknown"))

	reloaded := newTestWishlist(t, dir)
	if got := reloaded.Count(); got != 1 {
		t.Fatalf("reloaded count = %d, want 1", got)
	}
	if !reloaded.Has(domain.SimpleItem("p2")) {
		t.Fatalf("expected p2 to survive reload")
	}

	reloaded.Clear()
	if !reloaded.Empty() {
		t.Fatalf("expected empty wishlist after clear")
	}
}
