package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/kgabrunepark/suspension-api/api/swagger"
	"github.com/kgabrunepark/suspension-api/internal/handler"
	"github.com/kgabrunepark/suspension-api/internal/middleware"
	"github.com/kgabrunepark/suspension-api/internal/repository"
	"github.com/kgabrunepark/suspension-api/internal/service"
	"github.com/kgabrunepark/suspension-api/pkg/cache"
	"github.com/kgabrunepark/suspension-api/pkg/config"
	"github.com/kgabrunepark/suspension-api/pkg/database"
	"github.com/kgabrunepark/suspension-api/pkg/logger"
	corsmiddleware "github.com/kgabrunepark/suspension-api/pkg/middleware/cors"
	reqidmiddleware "github.com/kgabrunepark/suspension-api/pkg/middleware/requestid"
)

// @title Suspension Records API
// @version 1.0.0
// @description Backend for the school suspension register and approvals queue
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The summary cache is an optimisation; the app runs without it.
		logr.Sugar().Warnw("redis unavailable, summary cache disabled", "error", err)
		redisClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	suspensionRepo := repository.NewSuspensionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	audit := service.NewAuditRecorder(userRepo, logr, cfg.Audit)
	audit.Start(ctx)
	defer audit.Stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, audit, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "suspension-api",
	})
	oauthSvc := service.NewOAuthService(cfg.OAuth, authSvc, logr)
	studentSvc := service.NewStudentService(studentRepo, logr)
	suspensionSvc := service.NewSuspensionService(suspensionRepo, cacheRepo, metricsSvc, audit, logr)
	approvalSvc := service.NewApprovalService(suspensionRepo, cacheRepo, metricsSvc, audit, logr, cfg.Approvals)
	dashboardSvc := service.NewDashboardService(suspensionRepo, cacheRepo, logr, cfg.Dashboard.SummaryCacheTTL)

	authHandler := handler.NewAuthHandler(authSvc, oauthSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	suspensionHandler := handler.NewSuspensionHandler(suspensionSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	approvalHandler := handler.NewApprovalHandler(approvalSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.GET("/google", authHandler.GoogleLogin)
	auth.GET("/callback", authHandler.GoogleCallback)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)
	authed.GET("/students", studentHandler.Search)
	authed.GET("/suspensions", suspensionHandler.List)
	authed.POST("/suspensions", suspensionHandler.Create)
	authed.GET("/suspensions/summary", dashboardHandler.Summary)
	authed.GET("/suspensions/export", suspensionHandler.Export)

	approvals := authed.Group("/approvals")
	approvals.Use(middleware.Approver(approvalSvc))
	approvals.GET("/pending", approvalHandler.Pending)
	approvals.POST("/:id/approve", approvalHandler.Approve)
	approvals.POST("/:id/reject", approvalHandler.Reject)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
