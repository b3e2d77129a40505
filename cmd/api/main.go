package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moldcart/catalog-api/internal/config"
	"github.com/moldcart/catalog-api/internal/handler"
	"github.com/moldcart/catalog-api/internal/middleware"
	"github.com/moldcart/catalog-api/internal/repository"
	"github.com/moldcart/catalog-api/internal/service"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	categoryRepo := repository.NewCategoryRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	productSvc := service.NewProductService(productRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo)
	importerSvc := service.NewImporterService(productRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(productSvc)
	categoryH := handler.NewCategoryHandler(categorySvc)
	orderH := handler.NewOrderHandler(orderSvc)
	uploadH := handler.NewUploadHandler(importerSvc)
	healthH := handler.NewHealthHandler(dbPool)

	// Middleware: verify must precede adminOnly wherever both apply.
	verify := middleware.Authenticate(cfg.JWT.Secret, cfg.Auth.AdminUserID)
	adminOnly := middleware.AdminOnly()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(),
		middleware.RequestTimeout(cfg.Server.RequestTimeout))

	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	auth := router.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)

	router.GET("/categories", categoryH.List)
	router.POST("/categories", verify, adminOnly, categoryH.Create)
	router.PUT("/categories", verify, adminOnly, categoryH.Rename)
	router.DELETE("/categories", verify, adminOnly, categoryH.Delete)

	router.GET("/categories/:id/subcategories", categoryH.ListSub)
	router.POST("/categories/:id/subcategories", verify, adminOnly, categoryH.CreateSub)
	router.PUT("/categories/:id/subcategories/:subId", verify, adminOnly, categoryH.UpdateSub)
	router.DELETE("/categories/:id/subcategories/:subId", verify, adminOnly, categoryH.DeleteSub)

	router.GET("/products", productH.List)
	router.POST("/products", verify, adminOnly, productH.Create)
	router.GET("/products/:id", productH.GetByID)
	router.PUT("/products/:id", verify, adminOnly, productH.Update)
	router.DELETE("/products/:id", verify, adminOnly, productH.Delete)

	router.POST("/upload", verify, adminOnly, uploadH.Upload)

	router.POST("/order", verify, orderH.Create)
	router.GET("/orders", verify, adminOnly, orderH.List)
	router.GET("/orders/:id", verify, orderH.Get)
	router.PATCH("/orders/:id/status", verify, adminOnly, orderH.UpdateStatus)
	router.DELETE("/orders/:id", verify, adminOnly, orderH.Delete)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	log.Info("server stopped")
}
