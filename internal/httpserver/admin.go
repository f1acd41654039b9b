package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shopfront/internal/domain"
)

func upsertProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p domain.Product
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if id := c.Param("id"); id != "" {
			p.ID = id
		}
		saved, err := svc.Upsert(c.Request.Context(), p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func deleteProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createCategoryHandler(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cat domain.Category
		if err := c.ShouldBindJSON(&cat); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		saved, err := svc.Create(c.Request.Context(), cat)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, saved)
	}
}

func updateCategoryHandler(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cat domain.Category
		if err := c.ShouldBindJSON(&cat); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cat.ID = c.Param("id")
		saved, err := svc.Update(c.Request.Context(), cat)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func deleteCategoryHandler(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listCouponsHandler(svc CouponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		coupons, err := svc.List(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"coupons": coupons})
	}
}

func createCouponHandler(svc CouponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupon domain.Coupon
		if err := c.ShouldBindJSON(&coupon); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		saved, err := svc.Create(c.Request.Context(), coupon)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, saved)
	}
}

func updateCouponHandler(svc CouponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupon domain.Coupon
		if err := c.ShouldBindJSON(&coupon); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		coupon.ID = c.Param("id")
		saved, err := svc.Update(c.Request.Context(), coupon)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func deleteCouponHandler(svc CouponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listCustomersHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		customers, total, err := svc.List(c.Request.Context(), limit, offset)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers, "total": total})
	}
}

func adminListOrdersHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		orders, total, err := svc.ListAll(c.Request.Context(), c.Query("status"), limit, offset)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
	}
}

func orderStatusHandler(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		order, err := svc.SetStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
