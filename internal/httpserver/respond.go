package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/domain"
	couponsvc "shopfront/internal/service/coupon"
	customersvc "shopfront/internal/service/customer"
	ordersvc "shopfront/internal/service/order"
)

// respondError maps service errors onto HTTP statuses. Unknown errors from
// mutating handlers are treated as client mistakes; storage failures carry
// their own sentinels.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, domain.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "out of stock"})
	case errors.Is(err, customersvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, customersvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case errors.Is(err, couponsvc.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon"})
	case errors.Is(err, couponsvc.ErrMinSubtotal):
		c.JSON(http.StatusBadRequest, gin.H{"error": "coupon minimum not met"})
	case errors.Is(err, ordersvc.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
	case errors.Is(err, ordersvc.ErrBadTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status transition"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func respondInternal(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
