package domain

import "time"

// Cart is the server-side cart of an authenticated customer.
type Cart struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customerId"`
	Currency   string     `json:"currency"`
	TotalCents int64      `json:"totalCents"`
	TotalItems int        `json:"totalItems"`
	Lines      []CartLine `json:"lineItems"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CartLine struct {
	ID             string    `json:"id"`
	CartID         string    `json:"cartId"`
	Key            ItemKey   `json:"key"`
	Quantity       int       `json:"quantity"`
	Stock          int       `json:"stock"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	TotalCents     int64     `json:"totalCents"`
	Name           string    `json:"name"`
	Image          string    `json:"image,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LineItem is the client-side shape of one cart entry, shared by the guest
// store, the facade and merge payloads.
type LineItem struct {
	Key            ItemKey `json:"key"`
	Quantity       int     `json:"quantity"`
	Stock          int     `json:"stock"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	Currency       string  `json:"currency"`
	Name           string  `json:"name"`
	Image          string  `json:"image,omitempty"`
}
