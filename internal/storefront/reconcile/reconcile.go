// Package reconcile performs the one-time transfer of guest cart and
// wishlist contents into the authenticated account after login.
//
// The transfer is at-most-once by construction: the guest stores are
// cleared unconditionally once the merge request has been dispatched, so a
// re-trigger finds them empty and does nothing. A persisted merge marker
// keyed by customer ID additionally covers a crash inside the merge window
// across process restarts.
package reconcile

import (
	"context"
	"log"
	"sync"
	"time"

	"shopfront/internal/domain"
	"shopfront/internal/storefront/localstore"
)

type state int

const (
	idle state = iota
	merging
)

// Session is what the reconciler needs from the session store.
type Session interface {
	Authenticated() bool
	CustomerID() string
	OnChange(fn func(authenticated bool))
}

type guestCart interface {
	Items() []domain.LineItem
	Empty() bool
	Clear()
}

type guestWishlist interface {
	Items() []domain.WishEntry
	Empty() bool
	Clear()
}

type mergeClient interface {
	CartMerge(ctx context.Context, items []domain.LineItem) (*domain.Cart, error)
	WishlistMerge(ctx context.Context, items []domain.WishEntry) (*domain.Wishlist, error)
}

type notifier interface {
	Info(msg string)
	Warn(msg string)
}

type Reconciler struct {
	mu    sync.Mutex
	state state

	session  Session
	cart     guestCart
	wishlist guestWishlist
	remote   mergeClient
	marks    *localstore.Store
	notify   notifier
	logger   *log.Logger

	// settle delays the merge so the fresh session's own data fetch lands
	// before merge requests ride on it.
	settle  time.Duration
	timeout time.Duration
}

// Option tweaks reconciler timing; used by tests to drop the settle delay.
type Option func(*Reconciler)

func WithSettleDelay(d time.Duration) Option {
	return func(r *Reconciler) { r.settle = d }
}

func WithTimeout(d time.Duration) Option {
	return func(r *Reconciler) { r.timeout = d }
}

// New wires a reconciler to the session store: every flip of the
// authenticated flag to true triggers a merge attempt in the background.
func New(session Session, cart guestCart, wishlist guestWishlist, remote mergeClient, marks *localstore.Store, notify notifier, logger *log.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		session:  session,
		cart:     cart,
		wishlist: wishlist,
		remote:   remote,
		marks:    marks,
		notify:   notify,
		logger:   logger,
		settle:   time.Second,
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	session.OnChange(func(authenticated bool) {
		if authenticated {
			go r.Run()
		}
	})
	return r
}

// Run executes one merge attempt synchronously. It is a no-op when the
// session is not authenticated, the guest stores are empty or a merge is
// already in flight. Whatever the network outcome, the guest stores are
// empty afterwards and the state returns to idle.
func (r *Reconciler) Run() {
	if !r.session.Authenticated() {
		return
	}
	if r.cart.Empty() && r.wishlist.Empty() {
		return
	}

	r.mu.Lock()
	if r.state == merging {
		r.mu.Unlock()
		return
	}
	r.state = merging
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.state = idle
		r.mu.Unlock()
	}()

	if r.settle > 0 {
		time.Sleep(r.settle)
	}

	markKey := "merge-" + r.session.CustomerID()
	if r.marks.Exists(markKey) {
		// A previous run dispatched a merge for this customer and crashed
		// before finishing. The guest copy was already spoken for.
		r.logger.Printf("merge marker present, discarding guest state without re-merging")
		r.cart.Clear()
		r.wishlist.Clear()
		_ = r.marks.Delete(markKey)
		return
	}

	cartItems := r.cart.Items()
	wishItems := r.wishlist.Items()

	if err := r.marks.Save(markKey, time.Now().UTC()); err != nil {
		r.logger.Printf("persist merge marker: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var failed bool
	if len(cartItems) > 0 {
		if _, err := r.remote.CartMerge(ctx, cartItems); err != nil {
			r.logger.Printf("merge guest cart: %v", err)
			failed = true
		}
	}
	if len(wishItems) > 0 {
		if _, err := r.remote.WishlistMerge(ctx, wishItems); err != nil {
			r.logger.Printf("merge guest wishlist: %v", err)
			failed = true
		}
	}

	// Fire and forget: once submitted, the local copy is discarded even if
	// the request failed. The trade is data loss for guaranteed
	// at-most-once merging.
	r.cart.Clear()
	r.wishlist.Clear()
	_ = r.marks.Delete(markKey)

	if failed {
		r.notify.Warn("some saved items couldn't be moved to your account")
	} else {
		r.notify.Info("your saved items were moved to your account")
	}
}
