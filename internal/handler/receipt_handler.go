package handler

import (
	"net/http"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Receipts — /v1/receipts (read-only; issued via installment payments)
// ============================================================

func listReceiptsHandler(svc *service.ReceiptService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/receipts")
		defer span.End()

		page, pageSize := parsePagination(r)
		receipts, total, err := svc.ListReceipts(ctx,
			r.URL.Query().Get("member_id"),
			r.URL.Query().Get("branch_id"),
			page, pageSize,
		)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(receipts, total))
	}
}

func getReceiptHandler(svc *service.ReceiptService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/receipts/{receiptId}")
		defer span.End()

		receipt, err := svc.GetReceipt(ctx, chi.URLParam(r, "receiptId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(receipt))
	}
}
