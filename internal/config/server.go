package config

import (
	tryOnHandler "ProjectTryOn/internal/api/tryon/handler"
	tryOnService "ProjectTryOn/internal/api/tryon/service"
	"ProjectTryOn/internal/middleware"
	"ProjectTryOn/pkg/anchor"
	"ProjectTryOn/pkg/landmark"
	"ProjectTryOn/pkg/metrics"
	"ProjectTryOn/pkg/utils"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine       *fiber.App
	log          *logrus.Logger
	env          Env
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	metrics      metrics.IMetrics
	oracle       landmark.Oracle
	tryOnService tryOnService.ITryOnService
	handlers     []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.oracle == nil {
		return nil, fmt.Errorf("landmark oracle is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New(int64(server.env.MaxFrameBytes))
	}
	if server.metrics == nil {
		server.metrics = metrics.New()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, server.utils, middleware.Config{})
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithEnv(env Env) ServerOption {
	return func(s *Server) error {
		s.env = env
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New(int64(s.env.MaxFrameBytes))
		return nil
	}
}

func WithMetrics(m metrics.IMetrics) ServerOption {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.utils == nil {
			return fmt.Errorf("utils must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.utils, middleware.Config{
			RatePerSecond: s.env.RateLimitPerSecond,
			Burst:         s.env.RateLimitBurst,
		})
		return nil
	}
}

// WithLandmarkOracle injects an already constructed oracle.
func WithLandmarkOracle(oracle landmark.Oracle) ServerOption {
	return func(s *Server) error {
		s.oracle = oracle
		return nil
	}
}

// WithLandmarkService dials the external landmark service described by the env.
func WithLandmarkService() ServerOption {
	return func(s *Server) error {
		oracle, err := landmark.NewWebsocketOracle(s.env.LandmarkConfig(), s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create landmark client: %v", err)
			}
			return fmt.Errorf("failed to create landmark client: %w", err)
		}
		s.oracle = oracle
		return nil
	}
}

func (s *Server) RegisterHandler() {
	s.tryOnService = tryOnService.NewTryOnService(
		s.log,
		s.validator,
		s.env.Decoder(),
		s.oracle,
		anchor.NewDeriver(s.env.MinLandmarks),
		s.metrics,
	)
	tryOnHandlers := tryOnHandler.New(s.log, s.validator, s.middleware, s.tryOnService, s.utils, s.metrics, s.env.MaxMessageBytes)

	s.handlers = append(s.handlers, tryOnHandlers)
}

func (s *Server) routes() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.engine.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	for _, h := range s.handlers {
		h.Start(s.engine)
	}

	if s.env.StaticDir != "" {
		if _, err := os.Stat(s.env.StaticDir); err == nil {
			s.engine.Static("/", s.env.StaticDir, fiber.Static{Index: "index.html"})
		} else {
			s.log.Warnf("Static directory %s not found, client app will not be served", s.env.StaticDir)
		}
	}
}

func (s *Server) Run() error {
	s.routes()

	port := s.env.Port
	if port == "" {
		port = "5000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Serve runs the server on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	s.routes()
	return s.engine.Listener(ln)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.engine.ShutdownWithTimeout(timeout)
	if closeErr := s.oracle.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		oracleStatus := "disconnected"
		if s.tryOnService != nil && s.tryOnService.OracleReady() {
			oracleStatus = "connected"
		}
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"oracle":  oracleStatus,
		})
	})
}
