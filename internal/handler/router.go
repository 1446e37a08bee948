// Package handler wires the HTTP surface: routing, auth middleware and the
// translation between transport and the service layer.
package handler

import (
	"net/http"

	"github.com/masareefy/masareefy-engine-go/internal/infra/observability"
	"github.com/masareefy/masareefy-engine-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// authSvc may be nil (Supabase not configured); the API then runs open,
// which is only meant for local development.
func NewRouter(
	planner *service.Planner,
	bills *service.BillService,
	receipts *service.ReceiptService,
	authSvc *service.AuthService,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Engine metrics snapshot
		// GET /v1/metrics/engine
		r.Get("/metrics/engine", engineMetricsHandler(metrics, logger))

		// Authentication
		// POST /v1/auth/login
		// POST /v1/auth/refresh
		// POST /v1/auth/logout (protected)
		r.Route("/auth", func(r chi.Router) {
			if authSvc == nil {
				r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeError(w, http.StatusServiceUnavailable, "auth service unavailable: Supabase not configured")
				}))
				return
			}
			r.Post("/login", authLoginHandler(authSvc, logger))
			r.Post("/refresh", authRefreshHandler(authSvc, logger))

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))
				r.Post("/logout", authLogoutHandler(authSvc, logger))
			})
		})

		// User-scoped routes; JWT-protected when auth is configured.
		r.Group(func(r chi.Router) {
			if authSvc != nil {
				r.Use(JWTAuthMiddleware(authSvc, logger))
			}

			// Budget plans
			// GET  /v1/users/{userId}/plans
			// POST /v1/users/{userId}/plans/select
			r.Get("/users/{userId}/plans", getPlansHandler(planner, logger))
			r.Post("/users/{userId}/plans/select", selectPlanHandler(planner, logger))

			// Dashboard
			// GET /v1/users/{userId}/dashboard
			r.Get("/users/{userId}/dashboard", getDashboardHandler(planner, logger))

			// Recurring bills
			// GET    /v1/users/{userId}/bills
			// POST   /v1/users/{userId}/bills
			// POST   /v1/users/{userId}/bills/{billId}/pay
			// DELETE /v1/users/{userId}/bills/{billId}
			// Bill writes need the Supabase store; routes answer 503 without it.
			r.Get("/users/{userId}/bills", listBillsHandler(bills, logger))
			r.Post("/users/{userId}/bills", createBillHandler(bills, logger))
			r.Post("/users/{userId}/bills/{billId}/pay", payBillHandler(bills, logger))
			r.Delete("/users/{userId}/bills/{billId}", deleteBillHandler(bills, logger))

			// Transactions
			// GET /v1/users/{userId}/transactions
			r.Get("/users/{userId}/transactions", getTransactionsHandler(planner, logger))

			// Receipt parsing
			// POST /v1/receipts/parse
			r.Post("/receipts/parse", parseReceiptHandler(receipts, logger))
		})
	})

	return r
}
