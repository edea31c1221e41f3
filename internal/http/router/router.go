package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/pfes/joborder-api/internal/auth"
	"github.com/pfes/joborder-api/internal/config"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/http/handler"
	"github.com/pfes/joborder-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/pfes/joborder-api/docs" // Import generated swagger docs
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth      *handler.AuthHandler
	JobOrder  *handler.JobOrderHandler
	Report    *handler.ReportHandler
	Reference *handler.ReferenceHandler
	Audit     *handler.AuditHandler
	Health    *handler.HealthHandler
}

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	auditMiddleware *middleware.AuditMiddleware
	handlers        Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		auditMiddleware: auditMiddleware,
		handlers:        handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := rt.handlers

	// Global middleware
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)
	if timeout := rt.cfg.Server.RequestTimeoutDuration(); timeout > 0 {
		r.Use(chimw.Timeout(timeout))
	}

	// Health checks
	r.Get("/health", h.Health.Live)
	r.Get("/health/db", h.Health.Database)
	r.Get("/health/ready", h.Health.Ready)

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.With(rt.rateLimiter.LimitLogin).Post("/auth/login", h.Auth.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)
			r.Use(rt.auditMiddleware.Audit)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/reference", func(r chi.Router) {
				r.Get("/provinces", h.Reference.Provinces)
				r.Get("/provinces/{key}/cities", h.Reference.Cities)
				r.Get("/countries", h.Reference.Countries)
			})

			r.Route("/job-orders", func(r chi.Router) {
				r.Get("/", h.JobOrder.List)
				r.Post("/", h.JobOrder.Create)

				// Form helpers, stateless
				r.Post("/schedule", h.JobOrder.Schedule)
				r.Post("/validate", h.JobOrder.Validate)
				r.Post("/form", h.JobOrder.Form)

				// Reports
				r.Get("/statistics", h.Report.Statistics)
				r.Get("/calendar", h.Report.Calendar)
				r.With(chimw.Timeout(2 * time.Minute)).Get("/export", h.Report.Export)
				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
					r.Get("/archives", h.Report.ListArchives)
					r.Get("/archives/{name}", h.Report.DownloadArchive)
				})

				r.Get("/{number}", h.JobOrder.Get)
				r.Put("/{number}", h.JobOrder.Update)
				r.Delete("/{number}", h.JobOrder.Delete)
				r.Put("/{number}/operations", h.JobOrder.UpdateOperations)
				r.Post("/{number}/complete", h.JobOrder.Complete)
				r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin)).Get("/{number}/history", h.Audit.JobOrderHistory)
			})

			r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin)).Get("/audit", h.Audit.List)
		})
	})

	return r
}
