package handler

import (
	"net/http"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Reports — /v1/reports
// ============================================================

func dashboardHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/dashboard")
		defer span.End()

		branchID := r.URL.Query().Get("branch_id")
		if branchID == "" {
			branchID = BranchIDFromContext(ctx)
		}

		summary, err := svc.Dashboard(ctx, branchID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(summary))
	}
}

func collectionMetricsHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/reports/collections")
		defer span.End()

		snapshot := svc.MetricsSnapshot()
		if snapshot == nil {
			writeError(w, http.StatusInternalServerError, "metrics snapshot unavailable")
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(snapshot))
	}
}
