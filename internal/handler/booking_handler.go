package handler

import (
	"net/http"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Bookings — /v1/bookings
// ============================================================

func createBookingHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/bookings")
		defer span.End()

		var req domain.CreateBookingRequest
		if !decodeBody(w, r, &req) {
			return
		}

		booking, err := svc.CreateBooking(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.OK(booking))
	}
}

func listBookingsHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/bookings")
		defer span.End()

		bookings, err := svc.ListBookings(ctx,
			r.URL.Query().Get("group_id"),
			r.URL.Query().Get("member_id"),
		)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(bookings, len(bookings)))
	}
}

func getBookingHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/bookings/{bookingId}")
		defer span.End()

		booking, err := svc.GetBooking(ctx, chi.URLParam(r, "bookingId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(booking))
	}
}

func confirmBookingHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/bookings/{bookingId}/confirm")
		defer span.End()

		booking, err := svc.Confirm(ctx, chi.URLParam(r, "bookingId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(booking))
	}
}

func rejectBookingHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/bookings/{bookingId}/reject")
		defer span.End()

		booking, err := svc.Reject(ctx, chi.URLParam(r, "bookingId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(booking))
	}
}

func cancelBookingHandler(svc *service.BookingService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/bookings/{bookingId}/cancel")
		defer span.End()

		booking, err := svc.Cancel(ctx, chi.URLParam(r, "bookingId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(booking))
	}
}
