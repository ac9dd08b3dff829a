package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestIDKey = "request_id"
)

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

// Middleware tags every request with an id, echoed back in the response
// header, and logs one line once the handler chain returns.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		candidate := "-"
		if id, ok := CandidateID(c); ok {
			candidate = id.String()
		}
		m.logger.Printf(
			"[HTTP] rid=%s method=%s path=%s status=%d latency_ms=%d candidate=%s ip=%s ua=%q",
			rid, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start).Milliseconds(),
			candidate, c.IP(), c.Get("User-Agent"),
		)
		return err
	}
}
