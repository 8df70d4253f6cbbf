package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"rewards_engine/internal/api"
	"rewards_engine/internal/metrics"
	"rewards_engine/internal/middleware"
	"rewards_engine/internal/migrations"
	"rewards_engine/internal/repository"
	"rewards_engine/internal/service"
	"rewards_engine/pkg/auth"
	"rewards_engine/pkg/cache"
	"rewards_engine/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	if cfg.Migrations.AutoMigrate {
		if err := migrations.Run(cfg.Database.GetDatabaseURL()); err != nil {
			zapLogger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	} else if err := migrations.Status(cfg.Database.GetDatabaseURL()); err != nil {
		zapLogger.Warn("Failed to read migration status", zap.Error(err))
	}

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	var dashboardCache service.DashboardCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis)
		if err != nil {
			zapLogger.Warn("Redis unavailable, dashboards will not be cached", zap.Error(err))
		} else {
			defer redisCache.Close()
			dashboardCache = redisCache
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	services := service.New(repo, dashboardCache, m, cfg.Rewards, cfg.Auth.Policy)
	tokens := auth.NewTokenAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authorization := middleware.NewAuthorization(services.Users)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestMetrics(m))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		if err := repo.DB().PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authenticated := []gin.HandlerFunc{tokens.AuthMiddleware(), authorization.RequireActiveUser()}
	admin := []gin.HandlerFunc{tokens.AuthMiddleware(), authorization.AdminOnly()}

	a := router.Group("/api/v1")
	api.NewAuthRoutes(a, services.Users, tokens)
	api.NewUserRoutes(a, services.Users, authenticated...)
	api.NewPositionRoutes(a, services.Positions, authenticated...)
	api.NewVideoRoutes(a, services.Videos, services.Watch, authenticated, admin)
	api.NewWalletRoutes(a, services.Ledger, authenticated...)
	api.NewReferralRoutes(a, services.Referrals, services.Hierarchy, services.Ledger, authenticated...)
	api.NewDashboardRoutes(a, services.Dashboard, authenticated...)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLogger.Info("Starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
