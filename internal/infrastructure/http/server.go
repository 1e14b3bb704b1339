package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	handlers "github.com/fitrahmoef/Saintara-Mobile/internal/adapter/handler/http"
	"github.com/fitrahmoef/Saintara-Mobile/internal/catalog"
	"github.com/fitrahmoef/Saintara-Mobile/internal/config"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/middleware/auth"
	"github.com/fitrahmoef/Saintara-Mobile/internal/middleware/idempotency"
	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
	"github.com/fitrahmoef/Saintara-Mobile/pkg/logger"
)

// Dependencies are the use cases and clients the routes are built from
type Dependencies struct {
	Ping       func(ctx context.Context) error
	Redis      *redis.Client
	Tokens     *auth.TokenManager
	Auth       *usecase.AuthUsecase
	Activities *usecase.ActivityUsecase
	Orders     *usecase.OrderUsecase
	Payments   *usecase.PaymentUsecase
	Dashboard  *usecase.DashboardUsecase
	Catalog    *catalog.Catalog
}

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	deps   Dependencies
}

func NewServer(cfg *config.Config, log *zap.Logger, deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	e.Server.ReadTimeout = cfg.Server.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.HTTP.WriteTimeout

	logger.WithEchoLogger(e, log)

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("2M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.AppURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, idempotency.HeaderKey},
	}))

	s := &Server{
		config: cfg,
		logger: log,
		echo:   e,
		deps:   deps,
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", s.health)

	authHandler := handlers.NewAuthHandler(s.deps.Auth, s.deps.Activities, s.logger)
	orderHandler := handlers.NewOrderHandler(s.deps.Orders, s.logger)
	paymentHandler := handlers.NewPaymentHandler(s.deps.Payments, s.logger)
	webhookHandler := handlers.NewWebhookHandler(s.deps.Payments, s.logger)
	catalogHandler := handlers.NewCatalogHandler(s.deps.Catalog)
	dashboardHandler := handlers.NewDashboardHandler(s.deps.Dashboard, s.logger)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Tokens: s.deps.Tokens,
		Logger: s.logger,
		SkipPaths: []string{
			"/api/v1/auth/",
			"/api/v1/payments/webhook",
			"/api/v1/packages",
		},
	}

	idempotent := idempotency.Middleware(idempotency.Config{
		Client: s.deps.Redis,
		Logger: s.logger,
		Prefix: s.config.Service.Name + ":idempotency",
	})

	// API v1 routes
	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))

	// Public routes (no authentication required)
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/verify-email", authHandler.VerifyEmail)
	v1.GET("/packages", catalogHandler.ListPackages)

	// Gateway notifications authenticate by signature
	v1.POST("/payments/webhook", webhookHandler.HandleWebhook)
	v1.POST("/payments/webhook/:provider", webhookHandler.HandleWebhook)

	// Account
	v1.GET("/users/me", authHandler.Me)
	v1.GET("/users/me/activities", authHandler.Activities)

	// Test orders
	orders := v1.Group("/test-orders")
	orders.POST("/create", orderHandler.CreateOrder, idempotent)
	orders.GET("", orderHandler.ListOrders)
	orders.GET("/:id", orderHandler.GetOrder)
	orders.POST("/:id/cancel", orderHandler.CancelOrder)

	// Payments
	payments := v1.Group("/payments")
	payments.POST("/create", paymentHandler.CreatePayment, idempotent)
	payments.GET("/:id", paymentHandler.GetPayment)

	// Dashboard
	v1.GET("/statistics/customer", dashboardHandler.CustomerStatistics)
	v1.GET("/test-results", dashboardHandler.ListResults)
	v1.GET("/test-results/:id", dashboardHandler.GetResult)

	// Admin
	admin := v1.Group("/admin", auth.RequireRole(model.RoleSuperAdmin))
	admin.PATCH("/test-orders/:id/status", orderHandler.UpdateOrderStatus)
}

func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if s.deps.Ping != nil {
		if err := s.deps.Ping(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": s.config.Service.Name,
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.config.Service.Name,
		"version": s.config.Service.Version,
	})
}
