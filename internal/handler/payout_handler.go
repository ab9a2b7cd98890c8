package handler

import (
	"net/http"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Payouts — /v1/payouts
// ============================================================

func createPayoutHandler(svc *service.PayoutService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/payouts")
		defer span.End()

		var req domain.CreatePayoutRequest
		if !decodeBody(w, r, &req) {
			return
		}

		payout, err := svc.CreatePayout(ctx, req.GroupID, req.MonthNumber)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.OK(payout))
	}
}

func listPayoutsHandler(svc *service.PayoutService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/payouts")
		defer span.End()

		payouts, err := svc.ListPayouts(ctx,
			r.URL.Query().Get("group_id"),
			r.URL.Query().Get("member_id"),
			domain.PayoutStatus(r.URL.Query().Get("status")),
		)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(payouts, len(payouts)))
	}
}

func getPayoutHandler(svc *service.PayoutService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/payouts/{payoutId}")
		defer span.End()

		payout, err := svc.GetPayout(ctx, chi.URLParam(r, "payoutId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(payout))
	}
}

func payPayoutHandler(svc *service.PayoutService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/payouts/{payoutId}/pay")
		defer span.End()

		var req domain.PayPayoutRequest
		if !decodeBody(w, r, &req) {
			return
		}

		payout, err := svc.Pay(ctx, chi.URLParam(r, "payoutId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(payout))
	}
}

func skipPayoutHandler(svc *service.PayoutService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/payouts/{payoutId}/skip")
		defer span.End()

		payout, err := svc.Skip(ctx, chi.URLParam(r, "payoutId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(payout))
	}
}
