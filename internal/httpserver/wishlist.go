package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/domain"
)

func getWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		wl, err := svc.Get(c.Request.Context(), customerID(c))
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, wl)
	}
}

func addWishlistItemHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		wl, err := svc.Add(c.Request.Context(), customerID(c), req.Key)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, wl)
	}
}

func removeWishlistItemHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req itemKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		wl, err := svc.Remove(c.Request.Context(), customerID(c), req.Key)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, wl)
	}
}

func clearWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), customerID(c)); err != nil {
			respondInternal(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func mergeWishlistHandler(svc WishlistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Items []domain.WishEntry `json:"items"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		wl, err := svc.Merge(c.Request.Context(), customerID(c), req.Items)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, wl)
	}
}
