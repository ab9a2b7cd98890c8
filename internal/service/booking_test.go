package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/infra/cache"
	"github.com/tvsubram/chitfund-api/internal/infra/observability"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBookingFixture(t *testing.T) (*fakeStore, *service.BookingService) {
	t.Helper()
	store := newFakeStore()
	store.branches = append(store.branches, &domain.Branch{
		ID: "b-1", BranchID: "BRN001", Name: "Madurai Main", Active: true,
	})
	store.schemes = append(store.schemes, &domain.Scheme{
		ID: "s-1", SchemeID: "SCH001", Name: "Gold 50K",
		TotalAmount: dec("50000"), InstallmentAmount: dec("5000"),
		DurationMonths: 10, MinMembers: 2, MaxMembers: 5,
		Frequency: domain.FrequencyMonthly, CommissionRate: dec("0.05"), LateFeeRate: dec("0.02"),
		Active: true,
	})
	store.groups = append(store.groups, &domain.Group{
		ID: "g-1", GroupID: "GRP001", SchemeID: "SCH001", BranchID: "BRN001",
		Name: "GRP001", Status: domain.GroupForming, CurrentMonth: 0,
	})
	for i, id := range []string{"MEM001", "MEM002", "MEM003"} {
		store.members = append(store.members, &domain.Member{
			ID: "m-" + id, MemberID: id, BranchID: "BRN001",
			Name: "Member " + id, Phone: "987650000" + string(rune('1'+i)), Active: true,
		})
	}

	logger := zap.NewNop()
	seq := service.NewSequencer(store)
	schemes := service.NewSchemeService(store, cache.New[*domain.Scheme](time.Minute), seq, observability.NewMetrics(), logger)
	groups := service.NewGroupService(store, store, schemes, seq, logger)
	svc := service.NewBookingService(store, store, groups, seq, logger)
	return store, svc
}

func TestCreateBooking(t *testing.T) {
	_, svc := newBookingFixture(t)

	booking, err := svc.CreateBooking(context.Background(), &domain.CreateBookingRequest{
		GroupID: "GRP001", MemberID: "MEM001", PayoutMonth: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "BKG001", booking.BookingID)
	assert.Equal(t, domain.BookingPending, booking.Status)
	assert.Equal(t, "SCH001", booking.SchemeID)
}

func TestCreateBooking_RejectsDoubleBooking(t *testing.T) {
	_, svc := newBookingFixture(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, &domain.CreateBookingRequest{
		GroupID: "GRP001", MemberID: "MEM001", PayoutMonth: 3,
	})
	require.NoError(t, err)

	// Same member, different month.
	_, err = svc.CreateBooking(ctx, &domain.CreateBookingRequest{
		GroupID: "GRP001", MemberID: "MEM001", PayoutMonth: 5,
	})
	var rule *domain.ErrBusinessRule
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "double_booking", rule.Rule)

	// Different member, same month.
	_, err = svc.CreateBooking(ctx, &domain.CreateBookingRequest{
		GroupID: "GRP001", MemberID: "MEM002", PayoutMonth: 3,
	})
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "month_booked", rule.Rule)
}

func TestCreateBooking_RejectsCompletedGroup(t *testing.T) {
	store, svc := newBookingFixture(t)
	store.groups[0].Status = domain.GroupCompleted

	_, err := svc.CreateBooking(context.Background(), &domain.CreateBookingRequest{
		GroupID: "GRP001", MemberID: "MEM001", PayoutMonth: 3,
	})
	var rule *domain.ErrBusinessRule
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "group_completed", rule.Rule)
}

func TestConfirmBooking_SeatsMember(t *testing.T) {
	store, svc := newBookingFixture(t)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, &domain.CreateBookingRequest{
		GroupID: "GRP001", MemberID: "MEM001", PayoutMonth: 3,
	})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, confirmed.Status)

	seated, err := store.ListGroupMembers(ctx, "GRP001")
	require.NoError(t, err)
	require.Len(t, seated, 1)
	assert.Equal(t, "MEM001", seated[0].MemberID)
	assert.Equal(t, 3, seated[0].PayoutMonth)

	// Confirming twice is refused.
	_, err = svc.Confirm(ctx, booking.BookingID)
	var rule *domain.ErrBusinessRule
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "booking_not_pending", rule.Rule)
}

func TestRejectAndCancel_PendingOnly(t *testing.T) {
	_, svc := newBookingFixture(t)
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, &domain.CreateBookingRequest{
		GroupID: "GRP001", MemberID: "MEM001", PayoutMonth: 3,
	})
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, first.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingRejected, rejected.Status)

	// A rejected booking cannot be cancelled afterwards.
	_, err = svc.Cancel(ctx, first.BookingID)
	var rule *domain.ErrBusinessRule
	require.ErrorAs(t, err, &rule)
	assert.Equal(t, "booking_not_pending", rule.Rule)

	second, err := svc.CreateBooking(ctx, &domain.CreateBookingRequest{
		GroupID: "GRP001", MemberID: "MEM002", PayoutMonth: 4,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, second.BookingID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, cancelled.Status)
}
