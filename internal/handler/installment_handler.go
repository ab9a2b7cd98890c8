package handler

import (
	"net/http"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Installments — /v1/installments
// ============================================================

func generateInstallmentsHandler(svc *service.InstallmentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/installments/generate")
		defer span.End()

		var req domain.GenerateInstallmentsRequest
		if !decodeBody(w, r, &req) {
			return
		}

		installments, err := svc.GenerateSchedule(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.OKList(installments, len(installments)))
	}
}

func listInstallmentsHandler(svc *service.InstallmentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/installments")
		defer span.End()

		installments, err := svc.ListInstallments(ctx,
			r.URL.Query().Get("group_id"),
			r.URL.Query().Get("member_id"),
			domain.InstallmentStatus(r.URL.Query().Get("status")),
		)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(installments, len(installments)))
	}
}

func getInstallmentHandler(svc *service.InstallmentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/installments/{installmentId}")
		defer span.End()

		inst, err := svc.GetInstallment(ctx, chi.URLParam(r, "installmentId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(inst))
	}
}

// payInstallmentHandler records a collection against an installment. The
// receipt is issued in the same call; collected_by defaults to the
// authenticated employee.
func payInstallmentHandler(svc *service.InstallmentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/installments/{installmentId}/pay")
		defer span.End()

		var req domain.PayInstallmentRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.EmployeeID == "" {
			req.EmployeeID = EmployeeIDFromContext(ctx)
		}

		inst, receipt, err := svc.RecordPayment(ctx, chi.URLParam(r, "installmentId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(map[string]any{
			"installment": inst,
			"receipt":     receipt,
		}))
	}
}
