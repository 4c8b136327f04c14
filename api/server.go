/*
server.go - HTTP router and middleware configuration

ROUTER: chi, with the standard middleware stack (Logger, Recoverer,
RequestID) plus CORS for the back-office frontend.

ROUTE GROUPS:
  /api/shifts/*     Shift lifecycle, ledgers, vouchers, audit
  /api/vouchers/*   Cross-shift voucher settlement
  /api/days/*       Day-level views: shifts, pending vouchers, report
  /api/catalogs     Fixed denomination and payment-method catalogs

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

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Actor-ID"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/shifts", func(r chi.Router) {
			r.Post("/", h.CreateShift)
			r.Get("/{id}", h.GetShift)
			r.Get("/{id}/totals", h.GetTotals)
			r.Put("/{id}/income", h.SetIncome)
			r.Get("/{id}/denominations", h.GetCounts)
			r.Put("/{id}/denominations", h.SetCounts)
			r.Get("/{id}/payments", h.GetPayments)
			r.Put("/{id}/payments", h.SetPayments)
			r.Get("/{id}/vouchers", h.ListShiftVouchers)
			r.Post("/{id}/vouchers", h.CreateVoucher)
			r.Post("/{id}/close", h.CloseShift)
			r.Post("/{id}/reopen", h.ReopenShift)
			r.Get("/{id}/audit", h.GetAuditTrail)
		})

		r.Route("/vouchers", func(r chi.Router) {
			r.Post("/{id}/justify", h.JustifyVoucher)
			r.Post("/{id}/cancel", h.CancelVoucher)
		})

		r.Route("/days", func(r chi.Router) {
			r.Get("/{date}/shifts", h.ListDayShifts)
			r.Get("/{date}/vouchers/pending", h.ListDayPendingVouchers)
			r.Get("/{date}/report", h.GetDayReport)
		})

		r.Get("/catalogs", h.GetCatalogs)
	})

	return r
}
