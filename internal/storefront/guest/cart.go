// Package guest holds cart and wishlist state for unauthenticated visitors.
// Every mutation rewrites the persisted snapshot synchronously; a failed
// write leaves the in-memory state authoritative for the session.
package guest

import (
	"log"
	"sync"

	"shopfront/internal/domain"
	"shopfront/internal/storefront/localstore"
)

const cartKey = "guest-cart"

type cartSnapshot struct {
	Items      []domain.LineItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalCents int64             `json:"totalCents"`
}

// CartStore is the guest cart. It dedupes entries on item identity, clamps
// quantities to the stock ceiling captured at add time and keeps aggregate
// totals derived from the entries.
type CartStore struct {
	mu     sync.Mutex
	store  *localstore.Store
	logger *log.Logger
	state  cartSnapshot
}

// NewCartStore loads any persisted guest cart, starting empty when nothing
// usable is on disk.
func NewCartStore(store *localstore.Store, logger *log.Logger) *CartStore {
	s := &CartStore{store: store, logger: logger}
	if _, err := store.Load(cartKey, &s.state); err != nil {
		logger.Printf("load guest cart: %v", err)
	}
	s.recompute()
	return s
}

// Add merges the item into the cart: an entry with the same identity has its
// quantity incremented, otherwise the item is appended. The quantity is
// clamped to the item's stock ceiling when one is known.
func (s *CartStore) Add(item domain.LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Items {
		if s.state.Items[i].Key.Equal(item.Key) {
			line := &s.state.Items[i]
			if item.Stock > 0 {
				line.Stock = item.Stock
			}
			line.Quantity = clamp(line.Quantity+item.Quantity, line.Stock)
			s.persist()
			return
		}
	}
	item.Quantity = clamp(item.Quantity, item.Stock)
	s.state.Items = append(s.state.Items, item)
	s.persist()
}

// Update sets the quantity of the matching entry. A quantity of zero or
// less removes the entry; an unknown key is a no-op.
func (s *CartStore) Update(key domain.ItemKey, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Items {
		if !s.state.Items[i].Key.Equal(key) {
			continue
		}
		if quantity <= 0 {
			s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
		} else {
			s.state.Items[i].Quantity = clamp(quantity, s.state.Items[i].Stock)
		}
		s.persist()
		return
	}
}

// Remove drops the matching entry. Removing an absent entry is a no-op.
func (s *CartStore) Remove(key domain.ItemKey) {
	s.Update(key, 0)
}

// Clear empties the cart and erases the persisted snapshot.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cartSnapshot{}
	if err := s.store.Delete(cartKey); err != nil {
		s.logger.Printf("clear guest cart: %v", err)
	}
}

// Items returns a copy of the current entries.
func (s *CartStore) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.LineItem, len(s.state.Items))
	copy(out, s.state.Items)
	return out
}

// TotalItems is the sum of entry quantities.
func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalItems
}

// TotalCents is the sum of unit price times quantity over all entries.
func (s *CartStore) TotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalCents
}

// Empty reports whether the cart has no entries.
func (s *CartStore) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Items) == 0
}

func (s *CartStore) persist() {
	s.recompute()
	if err := s.store.Save(cartKey, s.state); err != nil {
		s.logger.Printf("persist guest cart: %v", err)
	}
}

func (s *CartStore) recompute() {
	total := 0
	var cents int64
	for _, item := range s.state.Items {
		total += item.Quantity
		cents += item.UnitPriceCents * int64(item.Quantity)
	}
	s.state.TotalItems = total
	s.state.TotalCents = cents
}

func clamp(quantity, stock int) int {
	if stock > 0 && quantity > stock {
		return stock
	}
	return quantity
}
