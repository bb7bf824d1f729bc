package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/safeplate/safeplate/internal/ai"
	"github.com/safeplate/safeplate/internal/allergen"
	"github.com/safeplate/safeplate/internal/api/handlers"
	"github.com/safeplate/safeplate/internal/config"
	"github.com/safeplate/safeplate/internal/filter"
	"github.com/safeplate/safeplate/internal/interpret"
	"github.com/safeplate/safeplate/internal/menu"
)

type Server struct {
	echo   *echo.Echo
	config *config.Config
	store  *menu.Store
}

func NewServer(cfg *config.Config, store *menu.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:   e,
		config: cfg,
		store:  store,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	reg := allergen.Default()
	client := ai.NewClient(s.config.OpenAI.APIKey, s.config.OpenAI.Model,
		ai.WithRateLimit(s.config.Filter.RequestsPerSecond, s.config.Filter.Burst))
	hybrid := filter.NewHybrid(reg, client, s.config.Filter.BatchSize)
	interp := interpret.New(reg, client)

	h := handlers.NewHandlers(s.config, s.store, reg, hybrid, interp)

	// API routes
	api := s.echo.Group("/api")

	// Allergen catalog
	api.GET("/allergens", h.ListAllergens)

	// Venue menus
	api.GET("/venues/:slug/menu", h.GetMenu)
	api.POST("/venues/:slug/filter", h.FilterMenu)
	api.POST("/venues/:slug/confidence/recompute", h.RecomputeConfidence)
	api.POST("/venues/:slug/cache/invalidate", h.InvalidateCache)

	// Diner input
	api.POST("/interpret", h.Interpret)
	api.POST("/submit", h.Submit)
}

func (s *Server) Start(ctx context.Context) error {
	addr := ":" + s.config.Server.Port
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
