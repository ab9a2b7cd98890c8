package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/infra/cache"
	"github.com/tvsubram/chitfund-api/internal/infra/observability"
	"github.com/tvsubram/chitfund-api/internal/jobs"
	"github.com/tvsubram/chitfund-api/internal/port"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// sweepStore implements only the store surface the sweeper touches.
// Embedding port.Store panics loudly if the sweeper grows a new dependency.
type sweepStore struct {
	port.Store

	installments  []domain.Installment
	updates       map[string]map[string]any
	notifications []*domain.Notification
}

func newSweepStore() *sweepStore {
	return &sweepStore{updates: map[string]map[string]any{}}
}

func (s *sweepStore) GetLastID(_ context.Context, _, _, _ string) (string, error) {
	return "", nil
}

func (s *sweepStore) GetScheme(_ context.Context, id string) (*domain.Scheme, error) {
	return &domain.Scheme{
		ID: "s-1", SchemeID: "SCH001", Name: "Gold 50K",
		TotalAmount: dec("50000"), InstallmentAmount: dec("5000"),
		DurationMonths: 10, MinMembers: 5, MaxMembers: 10,
		Frequency: domain.FrequencyMonthly, CommissionRate: dec("0.05"), LateFeeRate: dec("0.02"),
		Active: true,
	}, nil
}

func (s *sweepStore) ListOverdueInstallments(_ context.Context, asOf string) ([]domain.Installment, error) {
	var out []domain.Installment
	for _, in := range s.installments {
		if in.DueDate < asOf && in.PendingAmount.IsPositive() {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *sweepStore) ListInstallments(_ context.Context, _, _ string, status domain.InstallmentStatus) ([]domain.Installment, error) {
	var out []domain.Installment
	for _, in := range s.installments {
		if status == "" || in.Status == status {
			out = append(out, in)
		}
	}
	return out, nil
}

func (s *sweepStore) UpdateInstallment(_ context.Context, id string, updates map[string]any) error {
	s.updates[id] = updates
	return nil
}

func (s *sweepStore) CreateNotification(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	s.notifications = append(s.notifications, n)
	return n, nil
}

func newSweeper(store *sweepStore) *jobs.Sweeper {
	logger := zap.NewNop()
	seq := service.NewSequencer(store)
	schemes := service.NewSchemeService(store, cache.New[*domain.Scheme](time.Minute), seq, observability.NewMetrics(), logger)
	notifs := service.NewNotificationService(store, seq, logger)
	return jobs.NewSweeper(store, schemes, notifs, logger)
}

func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
}

func TestMarkOverdue(t *testing.T) {
	store := newSweepStore()
	store.installments = []domain.Installment{
		{
			ID: "i-1", InstallmentID: "INS001", GroupID: "GRP001", MemberID: "MEM001",
			SchemeID: "SCH001", InstallmentPeriod: "2026-06", Amount: dec("1000"),
			PaidAmount: decimal.Zero, PendingAmount: dec("1000"),
			DueDate: day(-5), Status: domain.InstallmentPending,
		},
		{
			ID: "i-2", InstallmentID: "INS002", GroupID: "GRP001", MemberID: "MEM002",
			SchemeID: "SCH001", InstallmentPeriod: "2026-06", Amount: dec("1000"),
			PaidAmount: dec("1000"), PendingAmount: decimal.Zero,
			DueDate: day(-5), Status: domain.InstallmentPaid,
		},
	}

	require.NoError(t, newSweeper(store).MarkOverdue(context.Background()))

	// Only the unpaid installment is swept.
	require.Len(t, store.updates, 1)
	update := store.updates["INS001"]
	require.NotNil(t, update)
	assert.Equal(t, domain.InstallmentLate, update["status"])
	// 1000 x 0.02 x 5 days
	fee, ok := update["late_fee"].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, fee.Equal(dec("100")), "got %s", fee)

	require.Len(t, store.notifications, 1)
	assert.Equal(t, "overdue", store.notifications[0].Kind)
	assert.Equal(t, "MEM001", store.notifications[0].MemberID)
}

func TestSendDueReminders(t *testing.T) {
	store := newSweepStore()
	store.installments = []domain.Installment{
		{
			ID: "i-1", InstallmentID: "INS001", MemberID: "MEM001", SchemeID: "SCH001",
			Amount: dec("1000"), PendingAmount: dec("1000"),
			DueDate: day(2), Status: domain.InstallmentPending,
		},
		{
			ID: "i-2", InstallmentID: "INS002", MemberID: "MEM002", SchemeID: "SCH001",
			Amount: dec("1000"), PendingAmount: dec("1000"),
			DueDate: day(10), Status: domain.InstallmentPending,
		},
		// Partially paid but still owing inside the horizon.
		{
			ID: "i-3", InstallmentID: "INS003", MemberID: "MEM003", SchemeID: "SCH001",
			Amount: dec("1000"), PaidAmount: dec("400"), PendingAmount: dec("600"),
			DueDate: day(1), Status: domain.InstallmentPartial,
		},
		// Fully paid; nothing to remind.
		{
			ID: "i-4", InstallmentID: "INS004", MemberID: "MEM004", SchemeID: "SCH001",
			Amount: dec("1000"), PaidAmount: dec("1000"), PendingAmount: decimal.Zero,
			DueDate: day(1), Status: domain.InstallmentPaid,
		},
	}

	require.NoError(t, newSweeper(store).SendDueReminders(context.Background(), 3))

	// Pending and Partial installments inside the 3-day horizon are
	// reminded; the far-out and fully paid ones are not.
	require.Len(t, store.notifications, 2)
	reminded := []string{store.notifications[0].MemberID, store.notifications[1].MemberID}
	assert.ElementsMatch(t, []string{"MEM001", "MEM003"}, reminded)
	for _, n := range store.notifications {
		assert.Equal(t, "due_reminder", n.Kind)
	}
}
