package contextPkg

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type ctxKey string

// requestIDKey carries the correlation id through service-layer contexts.
// A private key type keeps foreign values out.
const requestIDKey ctxKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = "unknown"
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx lifts the request id set by the request-id middleware into a
// plain context for the service layer.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals("X-Request-ID").(string)
	if !ok || requestID == "" {
		requestID = c.Get("X-Request-ID")
	}
	return WithRequestID(context.Background(), requestID)
}
