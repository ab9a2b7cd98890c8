package handler

import (
	"net/http"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Schemes — /v1/schemes
// ============================================================

func createSchemeHandler(svc *service.SchemeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/schemes")
		defer span.End()

		var req domain.CreateSchemeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		scheme, err := svc.CreateScheme(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.OK(scheme))
	}
}

func listSchemesHandler(svc *service.SchemeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/schemes")
		defer span.End()

		activeOnly := r.URL.Query().Get("active") == "true"
		schemes, err := svc.ListSchemes(ctx, activeOnly)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(schemes, len(schemes)))
	}
}

func getSchemeHandler(svc *service.SchemeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/schemes/{schemeId}")
		defer span.End()

		scheme, err := svc.GetScheme(ctx, chi.URLParam(r, "schemeId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(scheme))
	}
}

func updateSchemeHandler(svc *service.SchemeService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/schemes/{schemeId}")
		defer span.End()

		var updates map[string]any
		if !decodeBody(w, r, &updates) {
			return
		}

		scheme, err := svc.UpdateScheme(ctx, chi.URLParam(r, "schemeId"), updates)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(scheme))
	}
}
