// Package router builds the chi router with the full API surface.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/innosearch-dev/innosearch/internal/middleware"
	"github.com/innosearch-dev/innosearch/internal/middleware/metrics"
	"github.com/innosearch-dev/innosearch/internal/setup"
)

func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// JSON API only, so the CSP can be maximally strict
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies, "default-src 'none'; frame-ancestors 'none'"))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth)
			r.Get("/me", h.Me)
			r.Delete("/account", h.DeleteAccount)
		})

		r.Route("/board/posts", func(r chi.Router) {
			r.Get("/", h.ListPosts)
			r.Get("/{id}/comments", h.ListComments)

			r.Group(func(r chi.Router) {
				r.Use(authMw.OptionalAuth)
				r.Get("/{id}", h.GetPost)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMw.NeedAuth)
				r.Post("/", h.CreatePost)
				r.Post("/{id}/comments", h.CreateComment)
			})
		})

		r.Route("/matching", func(r chi.Router) {
			r.Post("/search", h.QuickSearch)
			r.Post("/detailed", h.DetailedSearch)
			r.Get("/tech-by-name", h.TechByName)
		})

		r.Get("/events", h.ListEvents)
	})

	// preflight requests must not 404
	r.MethodFunc(http.MethodOptions, "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
