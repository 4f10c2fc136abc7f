package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Asim1921/Jodi-frontend/internal/config"
	internalmw "github.com/Asim1921/Jodi-frontend/internal/middleware"
	"github.com/Asim1921/Jodi-frontend/internal/session"
	"github.com/Asim1921/Jodi-frontend/pkg/health"
	pkgmw "github.com/Asim1921/Jodi-frontend/pkg/middleware"
)

const serviceName = "jodi-frontend"

// Handlers bundles the route handlers the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Business *BusinessHandler
	Review   *ReviewHandler
}

// NewRouter assembles the HTTP surface: observability and safety middleware
// on everything, a session cookie on every application route, and health and
// metrics endpoints outside the session group. ctx bounds the rate limiter's
// background cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, sessions *session.Manager, handlers Handlers, healthHandler *health.Handler, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(pkgmw.CORS(pkgmw.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		Environment:      cfg.Environment,
	}))
	r.Use(internalmw.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, log))
	r.Use(pkgmw.Recovery(log))
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(pkgmw.RequestLogging(log))
	r.Use(pkgmw.PrometheusMetrics(serviceName))
	r.Use(pkgmw.Tracing(serviceName))
	r.Use(pkgmw.RequestLogger(log))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(internalmw.Session(sessions, log))

		r.Route("/api", func(r chi.Router) {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", handlers.Auth.Login)
				r.Post("/register", handlers.Auth.Register)
				r.Delete("/logout", handlers.Auth.Logout)
				r.Get("/me", handlers.Auth.Me)
				r.Patch("/me", handlers.Auth.UpdateProfile)
			})
			r.Get("/users/{userID}", handlers.Auth.PublicProfile)

			r.Route("/businesses", func(r chi.Router) {
				r.Get("/", handlers.Business.List)
				r.Get("/categories", handlers.Business.Categories)

				r.Route("/{businessID}", func(r chi.Router) {
					r.Get("/", handlers.Business.Get)

					r.Route("/reviews", func(r chi.Router) {
						r.Get("/", handlers.Review.List)
						r.Post("/", handlers.Review.Create)

						r.Route("/{reviewID}", func(r chi.Router) {
							r.Patch("/", handlers.Review.Update)
							r.Delete("/", handlers.Review.Delete)
							r.Post("/helpful", handlers.Review.MarkHelpful)
							r.Post("/report", handlers.Review.Report)
						})
					})
				})
			})

			r.Route("/search", func(r chi.Router) {
				r.Get("/businesses", handlers.Business.Search)
				r.Get("/suggestions", handlers.Business.Suggestions)
			})
			r.Get("/geo/nearby", handlers.Business.Nearby)

			r.Post("/uploads", handlers.Business.RequestUpload)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/businesses/pending", handlers.Business.PendingBusinesses)
				r.Post("/businesses/{businessID}/approve", handlers.Business.Approve)
				r.Post("/businesses/{businessID}/reject", handlers.Business.Reject)
			})
		})
	})

	return r
}
