package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopfront/internal/domain"
	customersvc "shopfront/internal/service/customer"
)

type credentialsResponse struct {
	Customer     *domain.Customer `json:"customer"`
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
}

func signupHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email     string `json:"email"`
			Password  string `json:"password"`
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cust, tokens, err := svc.Signup(c.Request.Context(), customersvc.SignupInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, credentialsResponse{Customer: cust, AccessToken: tokens.Access, RefreshToken: tokens.Refresh})
	}
}

func loginHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cust, tokens, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, credentialsResponse{Customer: cust, AccessToken: tokens.Access, RefreshToken: tokens.Refresh})
	}
}

func refreshHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		cust, tokens, err := svc.Refresh(c.Request.Context(), req.RefreshToken)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, credentialsResponse{Customer: cust, AccessToken: tokens.Access, RefreshToken: tokens.Refresh})
	}
}

func logoutHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		// Logout is best effort: a missing or unknown token still ends the
		// client session.
		_ = c.ShouldBindJSON(&req)
		if err := svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler(svc CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cust, err := svc.Get(c.Request.Context(), customerID(c))
		if err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, cust)
	}
}
