package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userdesk/user-management/internal/api/handler"
	"github.com/userdesk/user-management/internal/api/middleware"
	"github.com/userdesk/user-management/internal/core/domain"
	"github.com/userdesk/user-management/internal/core/ports"
	"github.com/userdesk/user-management/internal/core/service"
	mongodb "github.com/userdesk/user-management/internal/infrastructure/db/mongo"
	redisdb "github.com/userdesk/user-management/internal/infrastructure/db/redis"
	"github.com/userdesk/user-management/internal/infrastructure/http/handlers"
)

// RouterConfig carries everything the router needs to assemble the service.
type RouterConfig struct {
	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	TokenTTL  time.Duration
	Activity  ports.ActivityRecorder
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
	e.Use(echoprometheus.NewMiddleware("userdesk"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(cfg.Mongo)
	roleRepo := mongodb.NewRoleRepository(cfg.Mongo)
	revoker := redisdb.NewRevocationList(cfg.Redis)

	authService := service.NewAuthService(userRepo, roleRepo, revoker, cfg.JWTSecret, cfg.TokenTTL, cfg.Logger)
	userService := service.NewUserService(userRepo, roleRepo, cfg.Logger)

	authHandler := handler.NewAuthHandler(authService, cfg.Activity)
	userHandler := handler.NewUserHandler(userService, cfg.Activity)

	// --- Access guard ---
	// Public paths are matched exactly; anything unlisted requires a session.
	e.Use(middleware.Guard(middleware.GuardConfig{
		JWTSecret: cfg.JWTSecret,
		PublicPaths: []string{
			"/",
			"/register",
			"/login",
			"/health",
			"/health/ready",
			"/metrics",
		},
		PublicPrefixes: []string{"/swagger/"},
		Revoked:        revoker,
	}))

	// --- Root ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"service": "user-management"})
	})

	// --- Auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)

	// --- User directory (session required; role claim must be recognized) ---
	known := middleware.RBAC(domain.RoleAdmin, domain.RoleUser)
	e.GET("/roles", userHandler.Roles, known)
	e.GET("/users", userHandler.List, known)
	e.PUT("/users/:id", userHandler.UpdateRole, known)
	e.DELETE("/users/:id", userHandler.Delete, known)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
