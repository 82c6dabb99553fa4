// Package server exposes a calendar.Repository as a JSON REST API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/config"
)

// Server is the REST API over a calendar repository.
type Server struct {
	repo calendar.Repository
	cfg  config.ServerConfig
	log  *slog.Logger
	loc  *time.Location
	app  *fiber.App
}

// Option configures a Server.
type Option func(*Server)

// WithLocation sets the zone used for timestamps sent without an offset.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithoutAccessLog disables the request log middleware.
func WithoutAccessLog() Option {
	return func(s *Server) { s.cfg.AccessLog = false }
}

// New creates the Fiber app with middleware and routes installed.
func New(repo calendar.Repository, cfg config.ServerConfig, log *slog.Logger, opts ...Option) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{repo: repo, cfg: cfg, log: log, loc: time.Local}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "dayplan",
		ErrorHandler:          s.errorHandler,
		ReadTimeout:           cfg.ReadTimeoutDuration(),
		DisableStartupMessage: true,
	})

	s.app.Use(recover.New())
	if s.cfg.AccessLog {
		s.app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	if cfg.RateLimit > 0 {
		s.app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"message": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	s.routes()
	return s
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the dayplan API"})
	})

	api := s.app.Group("/api")
	api.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "API is working"})
	})

	events := api.Group("/events")
	events.Get("/", s.listEvents)
	events.Post("/", s.createEvent)
	events.Get("/:id", s.getEvent)
	events.Put("/:id", s.updateEvent)
	events.Delete("/:id", s.deleteEvent)

	goals := api.Group("/goals")
	goals.Get("/", s.listGoals)
	goals.Post("/", s.createGoal)
	goals.Get("/:id", s.getGoal)
	goals.Put("/:id", s.updateGoal)
	goals.Delete("/:id", s.deleteGoal)
	goals.Get("/:id/tasks", s.listGoalTasks)

	tasks := api.Group("/tasks")
	tasks.Get("/", s.listTasks)
	tasks.Post("/", s.createTask)
	tasks.Get("/:id", s.getTask)
	tasks.Put("/:id", s.updateTask)
	tasks.Delete("/:id", s.deleteTask)
}

// Run serves on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "listen", s.cfg.Listen)
		errCh <- s.app.Listen(s.cfg.Listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down server")
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}
