package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func listCategoriesHandler(svc CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.List(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
