package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	productrepo "shopfront/internal/repository/product"
)

func listProductsHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		filter := productrepo.ListFilter{
			CategoryID: c.Query("category"),
			Query:      c.Query("q"),
			ActiveOnly: true,
			Limit:      limit,
			Offset:     offset,
		}
		products, total, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "total": total})
	}
}

// getProductHandler resolves by ID first, then by slug so storefront URLs
// work with either form.
func getProductHandler(svc ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		product, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			product, err = svc.GetBySlug(c.Request.Context(), id)
		}
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
