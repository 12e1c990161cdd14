// Package router sets up all HTTP routes and middleware chains for the
// seobuilder API. It organizes routes into a public auth group and an
// authenticated API group with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"seobuilder/internal/auth"
	"seobuilder/internal/handlers"
	"seobuilder/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(tokens *auth.TokenStore, authH *handlers.Auth, projects *handlers.Projects, pages *handlers.Pages, exports *handlers.Exports) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Authenticate(tokens))

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Auth endpoints — login and register are rate limited to slow
		// down credential stuffing.
		r.Route("/auth", func(r chi.Router) {
			limiter := middleware.NewRateLimiter(10, time.Minute)
			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Post("/register", authH.Register)
				r.Post("/login", authH.Login)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout", authH.Logout)
				r.Get("/me", authH.Me)
			})
		})

		// Everything below requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/archetypes", projects.ListArchetypes)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projects.List)
				r.Post("/", projects.Create)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", projects.Get)
					r.Put("/", projects.Update)
					r.Delete("/", projects.Delete)
					r.Post("/archetype", projects.ApplyArchetype)

					r.Route("/pages", func(r chi.Router) {
						r.Get("/", pages.List)
						r.Post("/", pages.Create)
						r.Get("/{pageID}", pages.Get)
						r.Put("/{pageID}", pages.Update)
						r.Delete("/{pageID}", pages.Delete)
					})

					r.Route("/exports", func(r chi.Router) {
						r.Get("/", exports.List)
						r.Post("/", exports.Create)
						r.Get("/{exportID}", exports.Get)
						r.Get("/{exportID}/download", exports.Download)
						r.Delete("/{exportID}", exports.Delete)
					})
				})
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
