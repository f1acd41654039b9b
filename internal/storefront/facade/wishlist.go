package facade

import (
	"context"

	"shopfront/internal/domain"
)

type guestWishlist interface {
	Items() []domain.WishEntry
	Count() int
	Has(key domain.ItemKey) bool
	Add(entry domain.WishEntry)
	Remove(key domain.ItemKey)
	Clear()
}

type remoteWishlist interface {
	Wishlist(ctx context.Context) (*domain.Wishlist, error)
	WishlistAdd(ctx context.Context, key domain.ItemKey) (*domain.Wishlist, error)
	WishlistRemove(ctx context.Context, key domain.ItemKey) (*domain.Wishlist, error)
	WishlistClear(ctx context.Context) error
}

// Wishlist is the unified wishlist front, guest or authenticated.
type Wishlist struct {
	session Session
	guest   guestWishlist
	remote  remoteWishlist
	notify  Notifier
}

func NewWishlist(session Session, guest guestWishlist, remote remoteWishlist, notify Notifier) *Wishlist {
	return &Wishlist{session: session, guest: guest, remote: remote, notify: notify}
}

func (w *Wishlist) Items(ctx context.Context) []domain.WishEntry {
	if !w.session.Authenticated() {
		return w.guest.Items()
	}
	list, err := w.remote.Wishlist(ctx)
	if err != nil {
		w.notify.Warn("couldn't load your wishlist, please try again")
		return nil
	}
	entries := make([]domain.WishEntry, 0, len(list.Lines))
	for _, line := range list.Lines {
		entries = append(entries, domain.WishEntry{
			Key:        line.Key,
			PriceCents: line.PriceCents,
			Currency:   line.Currency,
			Name:       line.Name,
			Image:      line.Image,
		})
	}
	return entries
}

func (w *Wishlist) Count(ctx context.Context) int {
	if !w.session.Authenticated() {
		return w.guest.Count()
	}
	list, err := w.remote.Wishlist(ctx)
	if err != nil {
		w.notify.Warn("couldn't load your wishlist, please try again")
		return 0
	}
	return len(list.Lines)
}

func (w *Wishlist) Add(ctx context.Context, entry domain.WishEntry) {
	if !w.session.Authenticated() {
		w.guest.Add(entry)
		return
	}
	if _, err := w.remote.WishlistAdd(ctx, entry.Key); err != nil {
		w.notify.Warn("couldn't update your wishlist, please try again")
	}
}

func (w *Wishlist) Remove(ctx context.Context, key domain.ItemKey) {
	if !w.session.Authenticated() {
		w.guest.Remove(key)
		return
	}
	if _, err := w.remote.WishlistRemove(ctx, key); err != nil {
		w.notify.Warn("couldn't update your wishlist, please try again")
	}
}

func (w *Wishlist) Clear(ctx context.Context) {
	if !w.session.Authenticated() {
		w.guest.Clear()
		return
	}
	if err := w.remote.WishlistClear(ctx); err != nil {
		w.notify.Warn("couldn't clear your wishlist, please try again")
	}
}
