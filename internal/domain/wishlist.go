package domain

import "time"

// Wishlist is the server-side wishlist of an authenticated customer.
// Presence is boolean: there is no quantity on a line.
type Wishlist struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customerId"`
	Lines      []WishlistLine `json:"lineItems"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type WishlistLine struct {
	ID         string    `json:"id"`
	WishlistID string    `json:"wishlistId"`
	Key        ItemKey   `json:"key"`
	PriceCents int64     `json:"priceCents"`
	Currency   string    `json:"currency"`
	Name       string    `json:"name"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WishEntry is the client-side shape of one wishlist entry.
type WishEntry struct {
	Key        ItemKey `json:"key"`
	PriceCents int64   `json:"priceCents"`
	Currency   string  `json:"currency"`
	Name       string  `json:"name"`
	Image      string  `json:"image,omitempty"`
}
