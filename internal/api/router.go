package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sprintdeck/board-system/internal/api/handler"
	boardmongo "github.com/sprintdeck/board-system/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("board"))

	// --- Dependencies ---
	columnRepo := boardmongo.NewColumnRepository(db)
	taskRepo := boardmongo.NewTaskRepository(db)
	sprintRepo := boardmongo.NewSprintRepository(db)
	userRepo := boardmongo.NewUserRepository(db)

	columnHandler := handler.NewColumnHandler(columnRepo)
	taskHandler := handler.NewTaskHandler(taskRepo)
	sprintHandler := handler.NewSprintHandler(sprintRepo)
	userHandler := handler.NewUserHandler(userRepo)
	authHandler := handler.NewAuthHandler(userRepo)

	// --- Board routes ---
	e.GET("/columns", columnHandler.List)
	e.POST("/columns", columnHandler.Create)
	e.PUT("/columns", columnHandler.Update)
	e.DELETE("/columns", columnHandler.Delete)

	e.GET("/tasks", taskHandler.List)
	e.POST("/tasks", taskHandler.Create)
	e.PUT("/tasks", taskHandler.Update)
	e.PATCH("/tasks", taskHandler.Patch)
	e.DELETE("/tasks", taskHandler.Delete)

	e.GET("/sprints", sprintHandler.List)
	e.POST("/sprints", sprintHandler.Create)
	e.PUT("/sprints", sprintHandler.Update)
	e.DELETE("/sprints", sprintHandler.Delete)

	e.GET("/users", userHandler.List)
	e.POST("/users", userHandler.Create)
	e.PUT("/users", userHandler.Update)
	e.DELETE("/users", userHandler.Delete)

	e.POST("/auth", authHandler.Login)

	// --- Health probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
