package service

import (
	"context"
	"fmt"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var bookingTracer = otel.Tracer("service/booking")

// BookingService manages seat reservations: a member holds a payout month
// in a group until an employee confirms or rejects the booking.
type BookingService struct {
	store  port.SchemeStore
	dir    port.DirectoryStore
	groups *GroupService
	seq    *Sequencer
	logger *zap.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(store port.SchemeStore, dir port.DirectoryStore, groups *GroupService, seq *Sequencer, logger *zap.Logger) *BookingService {
	return &BookingService{store: store, dir: dir, groups: groups, seq: seq, logger: logger}
}

func (s *BookingService) CreateBooking(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.CreateBooking")
	defer span.End()

	group, err := s.store.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	if group.Status == domain.GroupCompleted {
		return nil, &domain.ErrBusinessRule{
			Rule:    "group_completed",
			Message: fmt.Sprintf("group %s is completed", group.GroupID),
		}
	}
	member, err := s.dir.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if req.PayoutMonth < 1 {
		return nil, &domain.ErrValidation{Field: "payout_month", Message: "payout month must be positive"}
	}

	// A month with a live booking cannot be booked again.
	open, err := s.store.ListBookings(ctx, group.GroupID, "")
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	for _, b := range open {
		if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
			continue
		}
		if b.PayoutMonth == req.PayoutMonth {
			return nil, &domain.ErrBusinessRule{
				Rule:    "month_booked",
				Message: fmt.Sprintf("payout month %d in group %s is already booked", req.PayoutMonth, group.GroupID),
			}
		}
		if b.MemberID == member.MemberID {
			return nil, &domain.ErrBusinessRule{
				Rule:    "double_booking",
				Message: fmt.Sprintf("member %s already has a booking in group %s", member.MemberID, group.GroupID),
			}
		}
	}

	bookingID, err := s.seq.Next(ctx, "bookings", "booking_id", "BKG")
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:          uuid.NewString(),
		BookingID:   bookingID,
		MemberID:    member.MemberID,
		GroupID:     group.GroupID,
		SchemeID:    group.SchemeID,
		PayoutMonth: req.PayoutMonth,
		Status:      domain.BookingPending,
		Notes:       req.Notes,
	}

	created, err := s.store.CreateBooking(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", created.BookingID),
		zap.String("group_id", created.GroupID),
		zap.Int("payout_month", created.PayoutMonth),
	)
	return created, nil
}

func (s *BookingService) ListBookings(ctx context.Context, groupID, memberID string) ([]domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.ListBookings")
	defer span.End()

	return s.store.ListBookings(ctx, groupID, memberID)
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.GetBooking")
	defer span.End()

	return s.store.GetBooking(ctx, id)
}

// Confirm approves a pending booking and seats the member in the group at
// the booked payout month.
func (s *BookingService) Confirm(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.Confirm")
	defer span.End()

	booking, err := s.requirePending(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.groups.AddMember(ctx, booking.GroupID, &domain.AddGroupMemberRequest{
		MemberID:    booking.MemberID,
		PayoutMonth: booking.PayoutMonth,
	}); err != nil {
		return nil, err
	}

	if err := s.store.UpdateBookingStatus(ctx, booking.BookingID, domain.BookingConfirmed); err != nil {
		return nil, fmt.Errorf("confirm booking: %w", err)
	}

	s.logger.Info("booking confirmed", zap.String("booking_id", booking.BookingID))
	return s.store.GetBooking(ctx, booking.BookingID)
}

// Reject declines a pending booking.
func (s *BookingService) Reject(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.Reject")
	defer span.End()

	booking, err := s.requirePending(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateBookingStatus(ctx, booking.BookingID, domain.BookingRejected); err != nil {
		return nil, fmt.Errorf("reject booking: %w", err)
	}

	s.logger.Info("booking rejected", zap.String("booking_id", booking.BookingID))
	return s.store.GetBooking(ctx, booking.BookingID)
}

// Cancel withdraws a pending booking at the member's request.
func (s *BookingService) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "BookingService.Cancel")
	defer span.End()

	booking, err := s.requirePending(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateBookingStatus(ctx, booking.BookingID, domain.BookingCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	s.logger.Info("booking cancelled", zap.String("booking_id", booking.BookingID))
	return s.store.GetBooking(ctx, booking.BookingID)
}

func (s *BookingService) requirePending(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingPending {
		return nil, &domain.ErrBusinessRule{
			Rule:    "booking_not_pending",
			Message: fmt.Sprintf("booking %s is %s", booking.BookingID, booking.Status),
		}
	}
	return booking, nil
}
