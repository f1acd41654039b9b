package guest

import (
	"log"
	"sync"

	"shopfront/internal/domain"
	"shopfront/internal/storefront/localstore"
)

const wishlistKey = "guest-wishlist"

type wishlistSnapshot struct {
	Items []domain.WishEntry `json:"items"`
}

// WishlistStore is the guest wishlist. Presence is boolean: adding an entry
// that already exists is a no-op.
type WishlistStore struct {
	mu     sync.Mutex
	store  *localstore.Store
	logger *log.Logger
	state  wishlistSnapshot
}

func NewWishlistStore(store *localstore.Store, logger *log.Logger) *WishlistStore {
	s := &WishlistStore{store: store, logger: logger}
	if _, err := store.Load(wishlistKey, &s.state); err != nil {
		logger.Printf("load guest wishlist: %v", err)
	}
	return s
}

func (s *WishlistStore) Add(entry domain.WishEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.Items {
		if existing.Key.Equal(entry.Key) {
			return
		}
	}
	s.state.Items = append(s.state.Items, entry)
	s.persist()
}

func (s *WishlistStore) Remove(key domain.ItemKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Items {
		if s.state.Items[i].Key.Equal(key) {
			s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
			s.persist()
			return
		}
	}
}

// Has reports whether an entry with the given identity exists.
func (s *WishlistStore) Has(key domain.ItemKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.state.Items {
		if entry.Key.Equal(key) {
			return true
		}
	}
	return false
}

func (s *WishlistStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = wishlistSnapshot{}
	if err := s.store.Delete(wishlistKey); err != nil {
		s.logger.Printf("clear guest wishlist: %v", err)
	}
}

func (s *WishlistStore) Items() []domain.WishEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WishEntry, len(s.state.Items))
	copy(out, s.state.Items)
	return out
}

// Count is the number of entries.
func (s *WishlistStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Items)
}

func (s *WishlistStore) Empty() bool {
	return s.Count() == 0
}

func (s *WishlistStore) persist() {
	if err := s.store.Save(wishlistKey, s.state); err != nil {
		s.logger.Printf("persist guest wishlist: %v", err)
	}
}
