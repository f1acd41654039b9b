package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopfront/internal/domain"
	productrepo "shopfront/internal/repository/product"
	customersvc "shopfront/internal/service/customer"
)

// Deps carries the services the router dispatches to. Interfaces keep the
// handlers testable with stubs.
type Deps struct {
	ProductSvc  ProductService
	CategorySvc CategoryService
	CartSvc     CartService
	WishlistSvc WishlistService
	CouponSvc   CouponService
	CustomerSvc CustomerService
	OrderSvc    OrderService
}

// Options is router-level configuration.
type Options struct {
	JWTSecret      string
	AuthRatePerMin int
}

type ProductService interface {
	List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, int, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type CartService interface {
	Get(ctx context.Context, customerID string) (*domain.Cart, error)
	Add(ctx context.Context, customerID string, key domain.ItemKey, quantity int) (*domain.Cart, error)
	Update(ctx context.Context, customerID string, key domain.ItemKey, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, customerID string, key domain.ItemKey) (*domain.Cart, error)
	Clear(ctx context.Context, customerID string) error
	Merge(ctx context.Context, customerID string, items []domain.LineItem) (*domain.Cart, error)
}

type WishlistService interface {
	Get(ctx context.Context, customerID string) (*domain.Wishlist, error)
	Add(ctx context.Context, customerID string, key domain.ItemKey) (*domain.Wishlist, error)
	Remove(ctx context.Context, customerID string, key domain.ItemKey) (*domain.Wishlist, error)
	Clear(ctx context.Context, customerID string) error
	Merge(ctx context.Context, customerID string, items []domain.WishEntry) (*domain.Wishlist, error)
}

type CouponService interface {
	List(ctx context.Context) ([]domain.Coupon, error)
	Create(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	Update(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
	Delete(ctx context.Context, id string) error
}

type CustomerService interface {
	Signup(ctx context.Context, in customersvc.SignupInput) (*domain.Customer, *customersvc.TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.Customer, *customersvc.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Customer, *customersvc.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context, limit, offset int) ([]domain.Customer, int, error)
}

type OrderService interface {
	Checkout(ctx context.Context, customerID, couponCode string) (*domain.Order, error)
	Get(ctx context.Context, customerID, orderID string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]domain.Order, int, error)
	SetStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error)
}

// buildRouter wires all routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("jwt secret required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))
	router.GET("/categories", listCategoriesHandler(deps.CategorySvc))

	auth := router.Group("/auth", rateLimitMiddleware(opts.AuthRatePerMin))
	auth.POST("/signup", signupHandler(deps.CustomerSvc))
	auth.POST("/login", loginHandler(deps.CustomerSvc))
	auth.POST("/refresh", refreshHandler(deps.CustomerSvc))
	auth.POST("/logout", logoutHandler(deps.CustomerSvc))

	secret := []byte(opts.JWTSecret)
	customer := router.Group("/", authMiddleware(secret))
	customer.GET("/me", meHandler(deps.CustomerSvc))

	customer.GET("/cart", getCartHandler(deps.CartSvc))
	customer.POST("/cart/items", addCartItemHandler(deps.CartSvc))
	customer.PATCH("/cart/items", updateCartItemHandler(deps.CartSvc))
	customer.DELETE("/cart/items", removeCartItemHandler(deps.CartSvc))
	customer.DELETE("/cart", clearCartHandler(deps.CartSvc))
	customer.POST("/cart/merge", mergeCartHandler(deps.CartSvc))

	customer.GET("/wishlist", getWishlistHandler(deps.WishlistSvc))
	customer.POST("/wishlist/items", addWishlistItemHandler(deps.WishlistSvc))
	customer.DELETE("/wishlist/items", removeWishlistItemHandler(deps.WishlistSvc))
	customer.DELETE("/wishlist", clearWishlistHandler(deps.WishlistSvc))
	customer.POST("/wishlist/merge", mergeWishlistHandler(deps.WishlistSvc))

	customer.POST("/orders", checkoutHandler(deps.OrderSvc))
	customer.GET("/orders", listOrdersHandler(deps.OrderSvc))
	customer.GET("/orders/:id", getOrderHandler(deps.OrderSvc))

	admin := router.Group("/admin", authMiddleware(secret), adminMiddleware())
	admin.POST("/products", upsertProductHandler(deps.ProductSvc))
	admin.PUT("/products/:id", upsertProductHandler(deps.ProductSvc))
	admin.DELETE("/products/:id", deleteProductHandler(deps.ProductSvc))
	admin.POST("/categories", createCategoryHandler(deps.CategorySvc))
	admin.PUT("/categories/:id", updateCategoryHandler(deps.CategorySvc))
	admin.DELETE("/categories/:id", deleteCategoryHandler(deps.CategorySvc))
	admin.GET("/coupons", listCouponsHandler(deps.CouponSvc))
	admin.POST("/coupons", createCouponHandler(deps.CouponSvc))
	admin.PUT("/coupons/:id", updateCouponHandler(deps.CouponSvc))
	admin.DELETE("/coupons/:id", deleteCouponHandler(deps.CouponSvc))
	admin.GET("/customers", listCustomersHandler(deps.CustomerSvc))
	admin.GET("/orders", adminListOrdersHandler(deps.OrderSvc))
	admin.PATCH("/orders/:id/status", orderStatusHandler(deps.OrderSvc))

	return router, nil
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
