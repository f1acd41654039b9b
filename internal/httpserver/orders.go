package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func checkoutHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CouponCode string `json:"couponCode"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}
		order, err := svc.Checkout(c.Request.Context(), customerID(c), req.CouponCode)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListByCustomer(c.Request.Context(), customerID(c))
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func getOrderHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), customerID(c), c.Param("id"))
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
