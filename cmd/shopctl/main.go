// Command shopctl is a terminal storefront client. It keeps guest cart,
// wishlist and session state under a local state directory and talks to the
// backend API for everything an authenticated shopper does.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"shopfront/internal/domain"
	"shopfront/internal/storefront/facade"
	"shopfront/internal/storefront/guest"
	"shopfront/internal/storefront/localstore"
	"shopfront/internal/storefront/reconcile"
	"shopfront/internal/storefront/remote"
	"shopfront/internal/storefront/session"
)

const usage = `usage: shopctl [-state DIR] [-api URL] COMMAND

commands:
  signup EMAIL PASSWORD [FIRST [LAST]]
  login EMAIL PASSWORD
  logout
  whoami
  products [QUERY]
  cart add PRODUCT [VARIANT] [QTY]
  cart list | update PRODUCT [VARIANT] QTY | remove PRODUCT [VARIANT] | clear
  wishlist add PRODUCT [VARIANT]
  wishlist list | remove PRODUCT [VARIANT] | clear
  checkout [COUPON]
  orders
`

// stderrNotifier prints transient messages where they don't mix with
// command output.
type stderrNotifier struct{}

func (stderrNotifier) Info(msg string) { fmt.Fprintln(os.Stderr, msg) }
func (stderrNotifier) Warn(msg string) { fmt.Fprintln(os.Stderr, "warning: "+msg) }

type app struct {
	session  *session.Store
	api      *remote.Client
	cart     *facade.Cart
	wishlist *facade.Wishlist
	rec      *reconcile.Reconciler
}

func main() {
	var (
		stateDir string
		apiURL   string
	)
	home, _ := os.UserHomeDir()
	flag.StringVar(&stateDir, "state", filepath.Join(home, ".shopfront"), "state directory")
	flag.StringVar(&apiURL, "api", envOr("SHOPFRONT_API", "http://localhost:8080"), "backend base URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	_ = godotenv.Load()
	logger := log.New(os.Stderr, "[shopctl] ", 0)

	store, err := localstore.New(stateDir)
	if err != nil {
		logger.Fatalf("open state dir: %v", err)
	}

	sess := session.New(store, logger)
	api := remote.New(apiURL, nil, sess)
	guestCart := guest.NewCartStore(store, logger)
	guestWishlist := guest.NewWishlistStore(store, logger)
	notify := stderrNotifier{}

	a := &app{
		session:  sess,
		api:      api,
		cart:     facade.NewCart(sess, guestCart, api, notify),
		wishlist: facade.NewWishlist(sess, guestWishlist, api, notify),
		rec: reconcile.New(sess, guestCart, guestWishlist, api, store, notify, logger,
			reconcile.WithSettleDelay(0)),
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := a.run(ctx, args); err != nil {
		logger.Fatalf("%s: %v", args[0], err)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "signup":
		if len(args) < 3 {
			return fmt.Errorf("usage: signup EMAIL PASSWORD [FIRST [LAST]]")
		}
		first, last := "", ""
		if len(args) > 3 {
			first = args[3]
		}
		if len(args) > 4 {
			last = args[4]
		}
		creds, err := a.api.Signup(ctx, args[1], args[2], first, last)
		if err != nil {
			return err
		}
		a.finishLogin(creds)
		return nil

	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: login EMAIL PASSWORD")
		}
		creds, err := a.api.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		a.finishLogin(creds)
		return nil

	case "logout":
		if token := a.session.RefreshToken(); token != "" {
			if err := a.api.Logout(ctx, token); err != nil {
				fmt.Fprintf(os.Stderr, "warning: revoke session: %v\n", err)
			}
		}
		a.session.Logout()
		fmt.Println("logged out")
		return nil

	case "whoami":
		if !a.session.Authenticated() {
			fmt.Println("guest")
			return nil
		}
		cust := a.session.Customer()
		fmt.Printf("%s (%s)\n", cust.Email, cust.ID)
		return nil

	case "products":
		query := ""
		if len(args) > 1 {
			query = args[1]
		}
		products, err := a.api.Products(ctx, query)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%-24s %8s  %s (stock %d)\n", p.Slug, money(p.PriceCents, p.Currency), p.Name, p.Stock)
		}
		return nil

	case "cart":
		return a.runCart(ctx, args[1:])

	case "wishlist":
		return a.runWishlist(ctx, args[1:])

	case "checkout":
		coupon := ""
		if len(args) > 1 {
			coupon = args[1]
		}
		if !a.session.Authenticated() {
			return fmt.Errorf("log in before checking out")
		}
		order, err := a.api.Checkout(ctx, coupon)
		if err != nil {
			return err
		}
		fmt.Printf("order %s placed, total %s\n", order.Number, money(order.TotalCents, order.Currency))
		return nil

	case "orders":
		if !a.session.Authenticated() {
			return fmt.Errorf("log in to see your orders")
		}
		orders, err := a.api.Orders(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			fmt.Printf("%-12s %-10s %8s  %s\n", o.Number, o.Status, money(o.TotalCents, o.Currency), o.CreatedAt.Format("2006-01-02"))
		}
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// finishLogin stores credentials and merges any guest state synchronously so
// the next command sees the combined cart.
func (a *app) finishLogin(creds *remote.Credentials) {
	a.session.Login(session.State{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Customer:     creds.Customer,
	})
	a.rec.Run()
	fmt.Printf("logged in as %s\n", creds.Customer.Email)
}

func (a *app) runCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		items := a.cart.Items(ctx)
		if len(items) == 0 {
			fmt.Println("cart is empty")
			return nil
		}
		var total int64
		for _, it := range items {
			line := it.UnitPriceCents * int64(it.Quantity)
			total += line
			fmt.Printf("%dx %-32s %8s\n", it.Quantity, describeKey(it.Key, it.Name), money(line, it.Currency))
		}
		fmt.Printf("total: %s\n", money(total, items[0].Currency))
		return nil

	case "add":
		key, rest, err := a.resolveKey(ctx, args[1:])
		if err != nil {
			return err
		}
		qty := 1
		if len(rest) > 0 {
			if qty, err = strconv.Atoi(rest[0]); err != nil || qty <= 0 {
				return fmt.Errorf("invalid quantity %q", rest[0])
			}
		}
		item, err := a.lineItem(ctx, key, qty)
		if err != nil {
			return err
		}
		a.cart.Add(ctx, item)
		return nil

	case "update":
		key, rest, err := a.resolveKey(ctx, args[1:])
		if err != nil {
			return err
		}
		if len(rest) != 1 {
			return fmt.Errorf("usage: cart update PRODUCT [VARIANT] QTY")
		}
		qty, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", rest[0])
		}
		a.cart.Update(ctx, key, qty)
		return nil

	case "remove":
		key, _, err := a.resolveKey(ctx, args[1:])
		if err != nil {
			return err
		}
		a.cart.Remove(ctx, key)
		return nil

	case "clear":
		a.cart.Clear(ctx)
		return nil

	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (a *app) runWishlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		entries := a.wishlist.Items(ctx)
		if len(entries) == 0 {
			fmt.Println("wishlist is empty")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%-32s %8s\n", describeKey(e.Key, e.Name), money(e.PriceCents, e.Currency))
		}
		return nil

	case "add":
		key, _, err := a.resolveKey(ctx, args[1:])
		if err != nil {
			return err
		}
		product, err := a.api.Product(ctx, key.ProductID)
		if err != nil {
			return err
		}
		a.wishlist.Add(ctx, domain.WishEntry{
			Key:        key,
			PriceCents: product.PriceFor(key),
			Currency:   product.Currency,
			Name:       product.Name,
		})
		return nil

	case "remove":
		key, _, err := a.resolveKey(ctx, args[1:])
		if err != nil {
			return err
		}
		a.wishlist.Remove(ctx, key)
		return nil

	case "clear":
		a.wishlist.Clear(ctx)
		return nil

	default:
		return fmt.Errorf("unknown wishlist command %q", args[0])
	}
}

// resolveKey reads PRODUCT [VARIANT] from args and returns the remaining
// arguments. The product argument accepts an ID or a slug; it is resolved
// against the catalog so keys always carry canonical product IDs.
func (a *app) resolveKey(ctx context.Context, args []string) (domain.ItemKey, []string, error) {
	if len(args) == 0 {
		return domain.ItemKey{}, nil, fmt.Errorf("product required")
	}
	product, err := a.api.Product(ctx, args[0])
	if err != nil {
		return domain.ItemKey{}, nil, fmt.Errorf("resolve product %q: %w", args[0], err)
	}
	rest := args[1:]
	if len(rest) > 0 {
		if _, convErr := strconv.Atoi(rest[0]); convErr != nil {
			key := domain.VariantItem(product.ID, rest[0], nil)
			if product.Variant(key) == nil {
				return domain.ItemKey{}, nil, fmt.Errorf("product %q has no variant %q", args[0], rest[0])
			}
			return key, rest[1:], nil
		}
	}
	return domain.SimpleItem(product.ID), rest, nil
}

func (a *app) lineItem(ctx context.Context, key domain.ItemKey, qty int) (domain.LineItem, error) {
	product, err := a.api.Product(ctx, key.ProductID)
	if err != nil {
		return domain.LineItem{}, err
	}
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return domain.LineItem{
		Key:            key,
		Quantity:       qty,
		Stock:          product.StockFor(key),
		UnitPriceCents: product.PriceFor(key),
		Currency:       product.Currency,
		Name:           product.Name,
		Image:          image,
	}, nil
}

func describeKey(key domain.ItemKey, name string) string {
	if key.Kind == domain.KindVariant && key.VariantID != "" {
		return name + " [" + key.VariantID + "]"
	}
	return name
}

func money(cents int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(cents)/100, currency)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
