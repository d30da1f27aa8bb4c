// Package router sets up all HTTP routes and middleware chains for the
// flowsite server. It organizes routes into public, admin, and gateway
// groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"flowsite/internal/auth"
	"flowsite/internal/handlers"
	"flowsite/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(jwtAuth *auth.JWTAuthenticator, keyAuth *auth.APIKeyAuthenticator, public *handlers.Public, authH *handlers.Auth, admin *handlers.Admin, pay *handlers.Payments, frontendOrigin string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", auth.APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Anonymous write endpoints get a per-IP limiter.
	limiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	// Public site API.
	r.Get("/templates", public.ListTemplates)
	r.Get("/templates/{id}", public.GetTemplate)
	r.With(limiter.Middleware).Post("/templates/download", public.DownloadTemplate)
	r.Get("/blog", public.ListBlog)
	r.Get("/blog/{slug}", public.GetBlogPost)
	r.With(limiter.Middleware).Post("/contact", public.CreateContact)
	r.Get("/settings/public", public.PublicSettings)

	// Auth.
	r.Post("/auth/login", authH.Login)
	r.With(middleware.Require(jwtAuth)).Post("/auth/change-password", authH.ChangePassword)

	// Payments. The webhook is authenticated by its provider signature,
	// never by a session.
	r.With(limiter.Middleware).Post("/payments/create-checkout", pay.CreateCheckout)
	r.Post("/payments/webhook", pay.Webhook)
	r.Get("/payments/success", pay.Success)

	// Admin dashboard API — bearer JWT with the admin role.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Require(jwtAuth))
		r.Use(middleware.RequireAdmin)

		r.Get("/stats", admin.Stats)
		r.Post("/users/api-key", authH.RegenerateAPIKey)

		mountContent(r, admin)

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", admin.ListSettings)
			r.Put("/", admin.BulkUpsertSettings)
			r.Put("/{key}", admin.UpsertSetting)
			r.Delete("/{key}", admin.DeleteSetting)
		})
	})

	// External tool gateway — API key, structurally identical content
	// contract to the admin routes.
	r.Route("/n8n", func(r chi.Router) {
		r.Use(middleware.Require(keyAuth))
		mountContent(r, admin)
	})

	return r
}

// mountContent wires the shared content CRUD surface onto a route group.
// Both the admin dashboard and the gateway expose exactly this contract.
func mountContent(r chi.Router, admin *handlers.Admin) {
	r.Route("/templates", func(r chi.Router) {
		r.Get("/", admin.ListTemplates)
		r.Post("/", admin.SaveTemplate)
		r.Get("/{id}", admin.GetTemplate)
		r.Delete("/{id}", admin.DeleteTemplate)
	})

	r.Route("/blog", func(r chi.Router) {
		r.Get("/", admin.ListBlog)
		r.Post("/", admin.SaveBlogPost)
		r.Get("/{id}", admin.GetBlogPost)
		r.Delete("/{id}", admin.DeleteBlogPost)
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Get("/", admin.ListContacts)
		r.Get("/{id}", admin.GetContact)
	})
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
