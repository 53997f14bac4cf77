package app

import (
	"fmt"
	"strings"

	"github.com/alexandra-producto/referal-program-sub001/internal/config"
	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/handler"
	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/middleware"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/logger"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/response"
	"github.com/alexandra-producto/referal-program-sub001/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, the fiber app and the route table. The
// returned cleanup closes everything the container opened.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	log, err := logger.New(cfg.App.LogJSON, cfg.App.LogDebug)
	if err != nil {
		return nil, nil, err
	}

	c, err := NewContainer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	go c.Hub.Run()

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	cleanup := func() error {
		_ = log.Sync()
		return c.Close()
	}
	return &App{Fiber: f, Container: c}, cleanup, nil
}

func registerGlobalMiddleware(f *fiber.App, c *Container) {
	f.Use(middleware.NewErrorMiddleware(c.Log).Middleware())
	f.Use(middleware.NewAccessLogMiddleware(c.Log).Middleware())
}

func registerRoutes(f *fiber.App, c *Container) {
	f.Get("/health", func(ctx fiber.Ctx) error {
		return response.Success(ctx, fiber.StatusOK, response.MessageOK, nil)
	})

	api := f.Group("/api/v1")
	auth := middleware.NewAuthMiddleware(c.JWT).Middleware()

	handler.NewAuthHandler(c.Auth).RegisterRoutes(api)
	handler.NewJobHandler(c.Jobs, c.Pipeline, c.Log).RegisterRoutes(api, auth)
	handler.NewCandidateHandler(c.Candidates, c.Experiences, c.Pipeline, c.Cache, c.Log).RegisterRoutes(api, auth)
	handler.NewMatchHandler(c.Pipeline, c.Jobs, c.Candidates, c.Matches, c.Cache, c.Log).RegisterRoutes(api, auth)
	handler.NewReflinkHandler(c.Signer, c.Config.Reflink.BaseURL, c.Jobs).RegisterRoutes(api, auth)

	api.Get("/ws/matches", ws.NewHandler(c.Hub, c.Log).HandleMatchesWS)
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
