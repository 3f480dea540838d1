/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a browser frontend

ROUTE GROUPS:
  /api/customers/*   Customer hierarchy and ledger entries
  /api/admin/*       Flat admin ledger

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)

			r.Route("/{cid}", func(r chi.Router) {
				r.Delete("/", h.DeleteCustomer)
				r.Get("/navigation", h.GetNavigation)

				// Direct accounts
				r.Route("/accounts", func(r chi.Router) {
					r.Get("/", h.ListAccounts)
					r.Post("/", h.CreateAccount)
					r.Put("/{aid}", h.UpdateAccount)
					r.Delete("/{aid}", h.DeleteAccount)
				})
				r.Get("/statement", h.GetStatement)

				// Sub-customers and their accounts
				r.Route("/subcustomers", func(r chi.Router) {
					r.Get("/", h.ListSubCustomers)
					r.Post("/", h.CreateSubCustomer)

					r.Route("/{sid}", func(r chi.Router) {
						r.Delete("/", h.DeleteSubCustomer)

						r.Route("/accounts", func(r chi.Router) {
							r.Get("/", h.ListAccounts)
							r.Post("/", h.CreateAccount)
							r.Put("/{aid}", h.UpdateAccount)
							r.Delete("/{aid}", h.DeleteAccount)
						})
						r.Get("/statement", h.GetStatement)
					})
				})
			})
		})

		// Flat admin ledger
		r.Route("/admin/accounts", func(r chi.Router) {
			r.Get("/", h.ListAdminAccounts)
			r.Post("/", h.CreateAdminAccount)
			r.Get("/total", h.GetAdminTotal)
			r.Put("/{id}", h.UpdateAdminAccount)
			r.Delete("/{id}", h.DeleteAdminAccount)
		})
	})

	return r
}
