package tryOnHandler

import (
	tryOnService "ProjectTryOn/internal/api/tryon/service"
	"ProjectTryOn/internal/middleware"
	contextPkg "ProjectTryOn/pkg/context"
	"ProjectTryOn/pkg/metrics"
	"ProjectTryOn/pkg/utils"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

const ConnectionIDKey = contextPkg.ConnectionIDKey

type TryOnHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	tryOnService    tryOnService.ITryOnService
	utils           utils.IUtils
	metrics         metrics.IMetrics
	maxMessageBytes int
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ts tryOnService.ITryOnService,
	utils utils.IUtils,
	metrics metrics.IMetrics,
	maxMessageBytes int,
) *TryOnHandler {
	return &TryOnHandler{
		log:             log,
		validator:       validator,
		middleware:      middleware,
		tryOnService:    ts,
		utils:           utils,
		metrics:         metrics,
		maxMessageBytes: maxMessageBytes,
	}
}

func (h *TryOnHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		connectionID, err := h.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			connectionID = h.middleware.GetRequestID(c)
		}
		c.Locals(ConnectionIDKey, connectionID)

		return c.Next()
	}

	srv.Use("/ws", h.middleware.NewRateLimiter, wsMiddleware)
	srv.Get("/ws", websocket.New(h.handleWebSocket, websocket.Config{
		HandshakeTimeout: 10 * time.Second,
	}))

	api := srv.Group("/api/v1")
	api.Post("/anchors", h.middleware.NewRateLimiter, h.DetectAnchors)
}
