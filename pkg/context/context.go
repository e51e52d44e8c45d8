package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey    = "request_id"
	ConnectionIDKey = "connection_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithConnectionID(ctx context.Context, connectionID string) context.Context {
	return context.WithValue(ctx, ConnectionIDKey, connectionID)
}

func GetConnectionID(ctx context.Context) string {
	connectionID, ok := ctx.Value(ConnectionIDKey).(string)
	if !ok || connectionID == "" {
		return "unknown"
	}
	return connectionID
}

func FromFiberCtx(c *fiber.Ctx) context.Context {
	ctx := context.Background()

	requestID, ok := c.Locals("X-Request-ID").(string)
	if !ok || requestID == "" {
		requestID = c.Get("X-Request-ID")

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(ctx, requestID)
}
