package v1

import (
	"jobmatch/internal/delivery/http/handler"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Search         *handler.JobSearchHandler
	Discovery      *handler.DiscoveryHandler
	Recommendation *handler.RecommendationHandler
	Stream         *ws.Handler
}

// Register mounts public routes first. Group middleware applies by prefix, so
// the optional and required auth groups must come after them, in that order.
func Register(r fiber.Router, h Handlers, auth *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	if h.Discovery != nil {
		h.Discovery.RegisterRoutes(r)
	}
	if h.Stream != nil {
		h.Stream.RegisterRoutes(r)
	}

	if auth == nil {
		return
	}

	if h.Search != nil {
		h.Search.RegisterRoutes(r.Group("", auth.Optional()))
	}

	if h.Recommendation != nil {
		protected := r.Group("", auth.Middleware())
		h.Recommendation.RegisterRoutes(protected)
	}
}
