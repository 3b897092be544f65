// Package api exposes the task engine over HTTP.
package api

import (
	"log/slog"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/roles"
	"github.com/tgienger/teamboard/internal/tasks"
)

// Deps are the collaborators of the HTTP layer
type Deps struct {
	Engine         *tasks.Engine
	DB             *db.DB
	Roles          *roles.Registry
	PollInterval   time.Duration
	AllowedOrigins string
	Logger         *slog.Logger

	// Metrics exposes /metrics with fiberprometheus on the default registry.
	// Enable it once per process.
	Metrics bool
	// AccessLog enables fiber's request logger
	AccessLog bool
}

// Handler serves the task endpoints
type Handler struct {
	engine *tasks.Engine
	db     *db.DB
	roles  *roles.Registry
	poll   time.Duration
	logger *slog.Logger
}

// NewApp builds the fiber application with middleware and routes
func NewApp(d Deps) *fiber.App {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Roles == nil {
		d.Roles = roles.New([]string{"admin"}, d.Logger)
	}
	if d.AllowedOrigins == "" {
		d.AllowedOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:      "teamboard",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
		BodyLimit:    1024 * 1024,
	})

	app.Use(recover.New())
	if d.AccessLog {
		app.Use(logger.New())
	}

	if d.Metrics {
		prometheus := fiberprometheus.New("teamboard")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept," + UserHeader,
		AllowCredentials: d.AllowedOrigins != "*",
	}))

	h := &Handler{
		engine: d.Engine,
		db:     d.DB,
		roles:  d.Roles,
		poll:   d.PollInterval,
		logger: d.Logger.With("component", "api"),
	}
	h.Register(app)
	return app
}

// Register mounts the routes on app
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.health)

	api := app.Group("/api")

	api.Get("/users", h.requireActor, h.listUsers)
	api.Post("/users", h.createUser)
	api.Get("/users/:id", h.requireActor, h.getUser)
	api.Put("/users/:id/role", h.requireActor, h.updateUserRole)

	api.Get("/tasks", h.requireActor, h.listTasks)
	api.Post("/tasks", h.requireActor, h.createTask)
	api.Get("/tasks/:id", h.requireActor, h.getTask)
	api.Put("/tasks/:id", h.requireActor, h.updateTask)
	api.Delete("/tasks/:id", h.requireActor, h.deleteTask)
	api.Post("/tasks/:id/status", h.requireActor, h.changeStatus)
	api.Post("/tasks/:id/approve", h.requireActor, h.approve)
	api.Put("/tasks/:id/assignees", h.requireActor, h.updateAssignees)
	api.Delete("/tasks/:id/group", h.requireActor, h.removeFromGroup)

	api.Post("/groups", h.requireActor, h.createGroup)
	api.Post("/groups/:id/members", h.requireActor, h.addToGroup)

	api.Get("/notifications", h.requireActor, h.listNotifications)
	api.Post("/notifications/:id/read", h.requireActor, h.markNotificationRead)
}

func (h *Handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// pollMeta is attached to read responses so clients know when to ask again
func (h *Handler) pollMeta(m fiber.Map) fiber.Map {
	m["polled_at"] = time.Now().UTC().Format(time.RFC3339)
	m["poll_interval_seconds"] = int(h.poll / time.Second)
	return m
}
