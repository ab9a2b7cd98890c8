package handler

import (
	"net/http"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/infra/observability"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services bundles everything the router needs. Keeps NewRouter's
// signature stable as endpoints get added.
type Services struct {
	Auth          *service.AuthService
	Directory     *service.DirectoryService
	Schemes       *service.SchemeService
	Groups        *service.GroupService
	Bookings      *service.BookingService
	Installments  *service.InstallmentService
	Payouts       *service.PayoutService
	Transactions  *service.TransactionService
	Ledger        *service.LedgerService
	Receipts      *service.ReceiptService
	Notifications *service.NotificationService
	Reports       *service.ReportService
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svcs *Services, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svcs.Directory, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Auth
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authLoginHandler(svcs.Auth, logger))
			r.Post("/refresh", authRefreshHandler(svcs.Auth, logger))

			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(svcs.Auth, logger))
				r.Post("/logout", authLogoutHandler(svcs.Auth, logger))
			})
		})

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(svcs.Auth, logger))

			// =============================================
			// Branches (mutations: admin)
			// =============================================
			r.Get("/branches", listBranchesHandler(svcs.Directory, logger))
			r.Get("/branches/{branchId}", getBranchHandler(svcs.Directory, logger))
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin, logger))
				r.Post("/branches", createBranchHandler(svcs.Directory, logger))
				r.Put("/branches/{branchId}", updateBranchHandler(svcs.Directory, logger))
				r.Delete("/branches/{branchId}", deactivateBranchHandler(svcs.Directory, logger))
			})

			// =============================================
			// Employees (admin)
			// =============================================
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin, logger))
				r.Post("/employees", createEmployeeHandler(svcs.Directory, logger))
				r.Get("/employees", listEmployeesHandler(svcs.Directory, logger))
				r.Get("/employees/{employeeId}", getEmployeeHandler(svcs.Directory, logger))
				r.Put("/employees/{employeeId}", updateEmployeeHandler(svcs.Directory, logger))
			})

			// =============================================
			// Members
			// =============================================
			r.Post("/members", createMemberHandler(svcs.Directory, logger))
			r.Get("/members", listMembersHandler(svcs.Directory, logger))
			r.Get("/members/{memberId}", getMemberHandler(svcs.Directory, logger))
			r.Put("/members/{memberId}", updateMemberHandler(svcs.Directory, logger))
			r.With(RequireRole(domain.RoleManager, logger)).
				Delete("/members/{memberId}", deleteMemberHandler(svcs.Directory, logger))

			// =============================================
			// Schemes (mutations: manager)
			// =============================================
			r.Get("/schemes", listSchemesHandler(svcs.Schemes, logger))
			r.Get("/schemes/{schemeId}", getSchemeHandler(svcs.Schemes, logger))
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleManager, logger))
				r.Post("/schemes", createSchemeHandler(svcs.Schemes, logger))
				r.Put("/schemes/{schemeId}", updateSchemeHandler(svcs.Schemes, logger))
			})

			// =============================================
			// Groups (mutations: manager)
			// =============================================
			r.Get("/groups", listGroupsHandler(svcs.Groups, logger))
			r.Get("/groups/{groupId}", getGroupHandler(svcs.Groups, logger))
			r.Get("/groups/{groupId}/members", listGroupMembersHandler(svcs.Groups, logger))
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleManager, logger))
				r.Post("/groups", createGroupHandler(svcs.Groups, logger))
				r.Put("/groups/{groupId}", updateGroupHandler(svcs.Groups, logger))
				r.Delete("/groups/{groupId}", deleteGroupHandler(svcs.Groups, logger))
				r.Post("/groups/{groupId}/members", addGroupMemberHandler(svcs.Groups, logger))
				r.Delete("/groups/{groupId}/members/{memberId}", removeGroupMemberHandler(svcs.Groups, logger))
				r.Post("/groups/{groupId}/advance", advanceGroupMonthHandler(svcs.Groups, logger))
			})

			// =============================================
			// Bookings
			// =============================================
			r.Post("/bookings", createBookingHandler(svcs.Bookings, logger))
			r.Get("/bookings", listBookingsHandler(svcs.Bookings, logger))
			r.Get("/bookings/{bookingId}", getBookingHandler(svcs.Bookings, logger))
			r.Post("/bookings/{bookingId}/cancel", cancelBookingHandler(svcs.Bookings, logger))
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleManager, logger))
				r.Post("/bookings/{bookingId}/confirm", confirmBookingHandler(svcs.Bookings, logger))
				r.Post("/bookings/{bookingId}/reject", rejectBookingHandler(svcs.Bookings, logger))
			})

			// =============================================
			// Installments & Receipts
			// =============================================
			r.Post("/installments/generate", generateInstallmentsHandler(svcs.Installments, logger))
			r.Get("/installments", listInstallmentsHandler(svcs.Installments, logger))
			r.Get("/installments/{installmentId}", getInstallmentHandler(svcs.Installments, logger))
			r.Post("/installments/{installmentId}/pay", payInstallmentHandler(svcs.Installments, logger))
			r.Get("/receipts", listReceiptsHandler(svcs.Receipts, logger))
			r.Get("/receipts/{receiptId}", getReceiptHandler(svcs.Receipts, logger))

			// =============================================
			// Payouts (mutations: manager)
			// =============================================
			r.Get("/payouts", listPayoutsHandler(svcs.Payouts, logger))
			r.Get("/payouts/{payoutId}", getPayoutHandler(svcs.Payouts, logger))
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleManager, logger))
				r.Post("/payouts", createPayoutHandler(svcs.Payouts, logger))
				r.Post("/payouts/{payoutId}/pay", payPayoutHandler(svcs.Payouts, logger))
				r.Post("/payouts/{payoutId}/skip", skipPayoutHandler(svcs.Payouts, logger))
			})

			// =============================================
			// Transactions & Ledger
			// =============================================
			r.Post("/transactions", createTransactionHandler(svcs.Transactions, logger))
			r.Get("/transactions", listTransactionsHandler(svcs.Transactions, logger))
			r.Get("/transactions/{transactionId}", getTransactionHandler(svcs.Transactions, logger))
			r.With(RequireRole(domain.RoleManager, logger)).
				Post("/transactions/{transactionId}/reverse", reverseTransactionHandler(svcs.Transactions, logger))

			r.Post("/ledger", createLedgerEntryHandler(svcs.Ledger, logger))
			r.Get("/ledger", listLedgerEntriesHandler(svcs.Ledger, logger))
			r.Get("/ledger/statement/{memberId}", ledgerStatementHandler(svcs.Ledger, logger))

			// =============================================
			// Notifications
			// =============================================
			r.Get("/notifications", listNotificationsHandler(svcs.Notifications, logger))
			r.Post("/notifications/{notificationId}/read", markNotificationReadHandler(svcs.Notifications, logger))

			// =============================================
			// Reports (manager)
			// =============================================
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(domain.RoleManager, logger))
				r.Get("/reports/dashboard", dashboardHandler(svcs.Reports, logger))
				r.Get("/reports/collections", collectionMetricsHandler(svcs.Reports, logger))
			})
		})
	})

	return r
}

// ============================================================
// Probes
// ============================================================

func healthzHandler(dir *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		start := time.Now()
		_, err := dir.ListBranches(ctx, true)
		latency := time.Since(start).Milliseconds()

		status := "healthy"
		if err != nil {
			status = "degraded"
			logger.Warn("health check: store unreachable", zap.Error(err))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status": status,
			"checks": map[string]any{
				"store": map[string]any{"status": status, "latency_ms": latency},
			},
			"checked_at": time.Now().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
