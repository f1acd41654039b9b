package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID            string      `json:"id"`
	Number        string      `json:"number"`
	CustomerID    string      `json:"customerId"`
	Currency      string      `json:"currency"`
	SubtotalCents int64       `json:"subtotalCents"`
	DiscountCents int64       `json:"discountCents"`
	TotalCents    int64       `json:"totalCents"`
	CouponCode    string      `json:"couponCode,omitempty"`
	Status        OrderStatus `json:"status"`
	Lines         []OrderLine `json:"lineItems"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type OrderLine struct {
	ID             string  `json:"id"`
	OrderID        string  `json:"orderId"`
	Key            ItemKey `json:"key"`
	Quantity       int     `json:"quantity"`
	UnitPriceCents int64   `json:"unitPriceCents"`
	TotalCents     int64   `json:"totalCents"`
	Name           string  `json:"name"`
}

// ValidTransition reports whether an order may move from to the given
// status. Cancellation is allowed until the order ships.
func (s OrderStatus) ValidTransition(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderPaid || next == OrderCancelled
	case OrderPaid:
		return next == OrderShipped || next == OrderCancelled
	case OrderShipped:
		return next == OrderDelivered
	default:
		return false
	}
}
