package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/hdfops/field-console/docs"
	"github.com/hdfops/field-console/internal/api/handler"
	"github.com/hdfops/field-console/internal/api/middleware"
	"github.com/hdfops/field-console/internal/core/ports"
)

// RouterConfig carries the composed dependencies the HTTP layer serves.
type RouterConfig struct {
	Guard     ports.SessionGuard
	Monitor   ports.SessionMonitor
	Probe     ports.LocationProbe
	Directory ports.CredentialDirectory
	Audit     ports.AuditRepository

	Redis *redis.Client
	Mongo *mongo.Database

	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("console"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.Guard, cfg.Monitor, cfg.Probe)
	directoryHandler := handler.NewDirectoryHandler(cfg.Directory, cfg.Logger)
	auditHandler := handler.NewAuditHandler(cfg.Audit)

	authMW := middleware.Auth(cfg.JWTSecret)

	// --- Auth & session ---
	e.POST("/v1/auth/login", authHandler.Login)

	session := e.Group("", authMW)
	session.POST("/v1/auth/logout", authHandler.Logout)
	session.GET("/v1/session", authHandler.Session)
	session.GET("/v1/session/permissions/:tag", authHandler.CheckPermission)
	session.GET("/v1/session/location", authHandler.LocationStatus)

	// --- Directory (permission-gated) ---
	session.GET("/v1/users", directoryHandler.ListUsers,
		middleware.RequirePermission(cfg.Guard, "user_read"))
	session.PUT("/v1/users", directoryHandler.ReplaceUsers,
		middleware.RequirePermission(cfg.Guard, "user_update"))
	session.GET("/v1/roles", directoryHandler.ListRoles,
		middleware.RequirePermission(cfg.Guard, "role_read"))

	// --- Audit trail ---
	session.GET("/v1/audit", auditHandler.ListRecent,
		middleware.RequirePermission(cfg.Guard, "report_view"))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Redis, cfg.Mongo)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
