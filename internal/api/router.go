// Package api wires the HTTP surface: REST endpoints under /api/v1, the
// websocket push channel at /ws, and the health and metrics endpoints.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/splitsync/splitsync/internal/auth"
	"github.com/splitsync/splitsync/internal/config"
	"github.com/splitsync/splitsync/internal/events"
	"github.com/splitsync/splitsync/internal/metrics"
	"github.com/splitsync/splitsync/internal/middleware"
	"github.com/splitsync/splitsync/internal/service"
)

// Deps carries everything the router needs.
type Deps struct {
	Cfg         config.Config
	JWT         *auth.JWTManager
	Hub         *events.Hub
	Auth        *service.AuthService
	Expenses    *service.ExpenseService
	Groups      *service.GroupService
	Balances    *service.BalanceService
	Settlements *service.SettlementService
}

// NewRouter assembles the full HTTP handler.
func NewRouter(d Deps) http.Handler {
	authH := &authHandler{svc: d.Auth}
	groupH := &groupHandler{svc: d.Groups}
	expenseH := &expenseHandler{svc: d.Expenses}
	balanceH := &balanceHandler{balances: d.Balances, settlements: d.Settlements}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	// The websocket route sits outside HTTPMetrics: the upgrade hijacks
	// the connection, which a wrapping ResponseWriter would break.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(d.JWT))
		r.Get("/ws", wsHandler(d.Hub))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.HTTPMetrics)

		r.Post("/auth/register", authH.register)
		r.Post("/auth/login", authH.login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.JWT))

			r.Get("/users", authH.listUsers)
			r.Get("/users/{id}", authH.getUser)

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", groupH.create)
				r.Get("/", groupH.list)
				r.Get("/{id}", groupH.get)
				r.Put("/{id}", groupH.update)
				r.Delete("/{id}", groupH.delete)
				r.Post("/{id}/members", groupH.addMembers)
				r.Delete("/{id}/members/{userId}", groupH.removeMember)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", expenseH.create)
				r.Get("/", expenseH.list)
				r.Post("/preview", expenseH.preview)
				r.Get("/{id}", expenseH.get)
				r.Put("/{id}", expenseH.update)
				r.Delete("/{id}", expenseH.delete)
			})

			r.Get("/balances", balanceH.getBalances)

			r.Route("/settlements", func(r chi.Router) {
				r.Post("/", balanceH.recordPayment)
				r.Get("/", balanceH.listPayments)
				r.Delete("/{id}", balanceH.deletePayment)
			})
		})
	})

	return r
}
