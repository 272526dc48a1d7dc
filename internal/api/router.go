package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/tripsplit/expenses-system/docs"
	"github.com/tripsplit/expenses-system/internal/api/handler"
	"github.com/tripsplit/expenses-system/internal/api/middleware"
	"github.com/tripsplit/expenses-system/internal/core/ports"
)

// Dependencies bundles everything the router needs to wire the handlers.
type Dependencies struct {
	AuthService    ports.AuthService
	ProjectService ports.ProjectService
	ExpenseService ports.ExpenseService
	Subscriber     ports.ChangeSubscriber
	Health         *handler.HealthHandler
	Readiness      *handler.HealthDependenciesHandler
	JWTSecret      string
	Logger         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("expenses"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	projectHandler := handler.NewProjectHandler(deps.ProjectService)
	expenseHandler := handler.NewExpenseHandler(deps.ExpenseService)
	watchHandler := handler.NewWatchHandler(deps.ProjectService, deps.Subscriber)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Project routes (JWT required) ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret), middleware.RequireSession())
	v1.GET("/projects", projectHandler.List)
	v1.POST("/projects", projectHandler.Create)
	v1.GET("/projects/:id", projectHandler.Get)
	v1.PATCH("/projects/:id", projectHandler.Rename)
	v1.DELETE("/projects/:id", projectHandler.Delete)
	v1.POST("/projects/:id/participants", projectHandler.AddParticipant)
	v1.DELETE("/projects/:id/participants/:email", projectHandler.RemoveParticipant)
	v1.GET("/projects/:id/expenses", expenseHandler.List)
	v1.POST("/projects/:id/expenses", expenseHandler.Create)
	v1.PUT("/projects/:id/expenses/:expenseId", expenseHandler.Update)
	v1.DELETE("/projects/:id/expenses/:expenseId", expenseHandler.Delete)
	v1.GET("/projects/:id/watch", watchHandler.Watch)

	// --- Health probes (no auth required) ---
	e.GET("/health", deps.Health.Liveness)
	e.GET("/health/ready", deps.Readiness.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
