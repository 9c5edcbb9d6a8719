package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ctxKeyCorrelation struct{}

const correlationHeader = "X-Correlation-ID"

// CorrelationID tags each request with an identifier so the logs and metrics
// for one request can be tied together. An incoming X-Correlation-ID or
// X-Request-ID header is honoured; otherwise a fresh UUID is minted. The
// identifier is echoed back on the response.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(correlationHeader))
		if id == "" {
			id = strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set(correlationHeader, id)
		c.SetUserContext(context.WithValue(c.Context(), ctxKeyCorrelation{}, id))

		return c.Next()
	}
}

// GetCorrelationID returns the identifier bound to the request, or an empty
// string when the middleware did not run.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals("correlation_id").(string); ok {
		return id
	}
	if id, ok := c.Context().Value(ctxKeyCorrelation{}).(string); ok {
		return id
	}
	return ""
}
