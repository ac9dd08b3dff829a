package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"jobmatch/internal/config"
	"jobmatch/internal/delivery/http/handler"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/delivery/http/routes"
	v1 "jobmatch/internal/delivery/http/routes/v1"
	"jobmatch/internal/scheduler"
	"jobmatch/internal/usecase"
	"jobmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
	Scheduler *scheduler.Scheduler
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	var lock scheduler.Locker
	if c.Cache != nil {
		lock = c.Cache
	}
	sched := scheduler.New(c.Discovery, lock, ws.NotifyTrendingUpdated, scheduler.Config{
		Spec:    c.Config.Engine.WarmCron,
		Limits:  c.Config.Engine.WarmLimits,
		LockKey: usecase.WarmLockKey,
	}, c.Logger)

	return &App{Fiber: f, Container: c, Scheduler: sched}
}

// Bootstrap builds the container and the HTTP app. The returned cleanup
// closes the container.
func Bootstrap(ctx context.Context, cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	ws.SetDefaultHub(c.Hub)
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	checks := map[string]handler.Pinger{}
	if c.DB != nil {
		checks["postgres"] = c.DB
	}
	if c.Cache != nil {
		checks["redis"] = c.Cache
	}

	handlers := v1.Handlers{
		Search:         handler.NewJobSearchHandler(c.Search),
		Discovery:      handler.NewDiscoveryHandler(c.Discovery),
		Recommendation: handler.NewRecommendationHandler(c.Recommendations, c.Matching, c.SkillGaps),
		Stream:         ws.NewHandler(c.Hub, c.Logger),
	}
	auth := middleware.NewAuthMiddleware(c.JWT)
	routes.NewRegistry(handler.NewHealthHandler(checks), handlers, auth).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
