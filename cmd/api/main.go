package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"shopfront/internal/cache"
	"shopfront/internal/config"
	"shopfront/internal/db"
	"shopfront/internal/httpserver"
	cartrepo "shopfront/internal/repository/cart"
	categoryrepo "shopfront/internal/repository/category"
	couponrepo "shopfront/internal/repository/coupon"
	customerrepo "shopfront/internal/repository/customer"
	orderrepo "shopfront/internal/repository/order"
	productrepo "shopfront/internal/repository/product"
	tokenrepo "shopfront/internal/repository/token"
	wishlistrepo "shopfront/internal/repository/wishlist"
	cartsvc "shopfront/internal/service/cart"
	categorysvc "shopfront/internal/service/category"
	couponsvc "shopfront/internal/service/coupon"
	customersvc "shopfront/internal/service/customer"
	ordersvc "shopfront/internal/service/order"
	productsvc "shopfront/internal/service/product"
	wishlistsvc "shopfront/internal/service/wishlist"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	catalogCache := cache.New(cfg.RedisAddr, cfg.CatalogCacheTTL, logger)
	defer catalogCache.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo, catalogCache)
	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool))
	cartService := cartsvc.New(cartrepo.NewPostgres(dbpool), productRepo, cfg.Currency)
	wishlistService := wishlistsvc.New(wishlistrepo.NewPostgres(dbpool), productRepo)
	couponService := couponsvc.New(couponrepo.NewPostgres(dbpool))
	customerService := customersvc.New(
		customerrepo.NewPostgres(dbpool, logger),
		tokenrepo.NewPostgres(dbpool),
		cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL,
	)
	orderService := ordersvc.New(orderrepo.NewPostgres(dbpool), cartService, couponService)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ProductSvc:  productService,
		CategorySvc: categoryService,
		CartSvc:     cartService,
		WishlistSvc: wishlistService,
		CouponSvc:   couponService,
		CustomerSvc: customerService,
		OrderSvc:    orderService,
	}, httpserver.Options{
		JWTSecret:      cfg.JWTSecret,
		AuthRatePerMin: cfg.AuthRatePerMin,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
