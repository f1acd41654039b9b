// Package facade presents one read/write cart and wishlist API to the UI.
// Each call reads the authentication flag fresh and routes to the local
// guest store or the remote backend; callers never learn which served them.
// Network failures surface as transient notifications and leave state
// unchanged - no error escapes past the notification.
package facade

import (
	"context"

	"shopfront/internal/domain"
)

// Session exposes the authentication flag. It is read fresh on every call;
// the branch decision is never cached.
type Session interface {
	Authenticated() bool
}

// Notifier surfaces transient user-facing messages.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
}

type guestCart interface {
	Items() []domain.LineItem
	TotalItems() int
	Add(item domain.LineItem)
	Update(key domain.ItemKey, quantity int)
	Remove(key domain.ItemKey)
	Clear()
}

type remoteCart interface {
	Cart(ctx context.Context) (*domain.Cart, error)
	CartAdd(ctx context.Context, key domain.ItemKey, quantity int) (*domain.Cart, error)
	CartUpdate(ctx context.Context, key domain.ItemKey, quantity int) (*domain.Cart, error)
	CartRemove(ctx context.Context, key domain.ItemKey) (*domain.Cart, error)
	CartClear(ctx context.Context) error
}

// Cart is the unified cart front. UI code holds one of these for the whole
// session lifetime; login and logout need no rewiring.
type Cart struct {
	session Session
	guest   guestCart
	remote  remoteCart
	notify  Notifier
}

func NewCart(session Session, guest guestCart, remote remoteCart, notify Notifier) *Cart {
	return &Cart{session: session, guest: guest, remote: remote, notify: notify}
}

// Items returns the current cart entries from whichever store is
// authoritative right now.
func (c *Cart) Items(ctx context.Context) []domain.LineItem {
	if !c.session.Authenticated() {
		return c.guest.Items()
	}
	cart, err := c.remote.Cart(ctx)
	if err != nil {
		c.notify.Warn("couldn't load your cart, please try again")
		return nil
	}
	return linesToItems(cart)
}

// TotalItems is the summed quantity across entries.
func (c *Cart) TotalItems(ctx context.Context) int {
	if !c.session.Authenticated() {
		return c.guest.TotalItems()
	}
	cart, err := c.remote.Cart(ctx)
	if err != nil {
		c.notify.Warn("couldn't load your cart, please try again")
		return 0
	}
	return cart.TotalItems
}

// Add puts the item in the cart. For an authenticated shopper already at
// the item's stock ceiling the call short-circuits with a notification
// instead of issuing a request guaranteed to change nothing.
func (c *Cart) Add(ctx context.Context, item domain.LineItem) {
	if !c.session.Authenticated() {
		c.guest.Add(item)
		return
	}
	cart, err := c.remote.Cart(ctx)
	if err == nil {
		for _, line := range cart.Lines {
			if line.Key.Equal(item.Key) && line.Stock > 0 && line.Quantity >= line.Stock {
				c.notify.Info("already at the available stock for this item")
				return
			}
		}
	}
	if _, err := c.remote.CartAdd(ctx, item.Key, item.Quantity); err != nil {
		c.notify.Warn("couldn't add to your cart, please try again")
	}
}

// Update sets the entry's quantity; zero or less removes it.
func (c *Cart) Update(ctx context.Context, key domain.ItemKey, quantity int) {
	if !c.session.Authenticated() {
		c.guest.Update(key, quantity)
		return
	}
	if _, err := c.remote.CartUpdate(ctx, key, quantity); err != nil {
		c.notify.Warn("couldn't update your cart, please try again")
	}
}

// Remove drops the matching entry.
func (c *Cart) Remove(ctx context.Context, key domain.ItemKey) {
	if !c.session.Authenticated() {
		c.guest.Remove(key)
		return
	}
	if _, err := c.remote.CartRemove(ctx, key); err != nil {
		c.notify.Warn("couldn't update your cart, please try again")
	}
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) {
	if !c.session.Authenticated() {
		c.guest.Clear()
		return
	}
	if err := c.remote.CartClear(ctx); err != nil {
		c.notify.Warn("couldn't clear your cart, please try again")
	}
}

func linesToItems(cart *domain.Cart) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, domain.LineItem{
			Key:            line.Key,
			Quantity:       line.Quantity,
			Stock:          line.Stock,
			UnitPriceCents: line.UnitPriceCents,
			Currency:       cart.Currency,
			Name:           line.Name,
			Image:          line.Image,
		})
	}
	return items
}
