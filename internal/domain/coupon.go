package domain

import "time"

// CouponKind selects how a coupon's value is interpreted.
type CouponKind string

const (
	// CouponPercent discounts a percentage of the cart subtotal.
	CouponPercent CouponKind = "percent"
	// CouponFixed discounts a fixed amount of cents.
	CouponFixed CouponKind = "fixed"
)

type Coupon struct {
	ID               string     `json:"id"`
	Code             string     `json:"code"`
	Kind             CouponKind `json:"kind"`
	Value            int64      `json:"value"`
	MinSubtotalCents int64      `json:"minSubtotalCents"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"createdAt"`
}
