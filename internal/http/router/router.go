package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lss-analytics/training-api/internal/config"
	"github.com/lss-analytics/training-api/internal/http/handler"
	"github.com/lss-analytics/training-api/internal/http/middleware"
	"go.uber.org/zap"
)

// Router wires the HTTP shell: routes, CORS, logging, inbound rate limits.
type Router struct {
	cfg          *config.Config
	logger       *zap.Logger
	rateLimiter  *middleware.RateLimiter
	agentHandler *handler.AgentHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	rateLimiter *middleware.RateLimiter,
	agentHandler *handler.AgentHandler,
) *Router {
	return &Router{
		cfg:          cfg,
		logger:       logger,
		rateLimiter:  rateLimiter,
		agentHandler: agentHandler,
	}
}

// Setup builds the route tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(rt.cfg.Server.RequestTimeoutDuration()))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	r.Get("/", rt.agentHandler.Root)
	r.Get("/health", rt.agentHandler.Health)
	r.Post("/vraag", rt.agentHandler.Ask)
	r.Get("/ververs", rt.agentHandler.Refresh)
	r.Get("/export", rt.agentHandler.Export)
	r.Post("/export", rt.agentHandler.Export)

	return r
}
