package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/infra/observability"
	"github.com/tvsubram/chitfund-api/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var instTracer = otel.Tracer("service/installment")

// dateLayout is the wire format for business dates. Dates are calendar
// days, not instants; time zones never enter the comparison.
const dateLayout = "2006-01-02"

// InstallmentService manages the collection side: generating schedules,
// recording payments, deriving statuses and issuing receipts.
type InstallmentService struct {
	money   port.MoneyStore
	dir     port.DirectoryStore
	groups  port.SchemeStore
	schemes *SchemeService
	seq     *Sequencer
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewInstallmentService creates a new installment service.
func NewInstallmentService(money port.MoneyStore, dir port.DirectoryStore, groups port.SchemeStore, schemes *SchemeService, seq *Sequencer, metrics *observability.Metrics, logger *zap.Logger) *InstallmentService {
	return &InstallmentService{
		money:   money,
		dir:     dir,
		groups:  groups,
		schemes: schemes,
		seq:     seq,
		metrics: metrics,
		logger:  logger,
	}
}

// ============================================================
// Status derivation
// ============================================================

// DeriveInstallmentStatus applies the precedence Late > Paid > Partial >
// Pending. Late wins only while something is still owed; a fully paid
// installment is Paid no matter how overdue it was.
func DeriveInstallmentStatus(dueDate string, paid, pending decimal.Decimal, asOf time.Time) domain.InstallmentStatus {
	due, err := time.Parse(dateLayout, dueDate)
	if err == nil && due.Before(dateOnly(asOf)) && pending.IsPositive() {
		return domain.InstallmentLate
	}
	if !pending.IsPositive() {
		return domain.InstallmentPaid
	}
	if paid.IsPositive() {
		return domain.InstallmentPartial
	}
	return domain.InstallmentPending
}

// ComputeLateFee returns amount × rate × ceil(days late), zero when the
// installment is not yet overdue. The fee is recomputed fresh on every
// derivation, never accumulated.
func ComputeLateFee(amount, rate decimal.Decimal, dueDate string, asOf time.Time) decimal.Decimal {
	due, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return decimal.Zero
	}
	overdue := dateOnly(asOf).Sub(due)
	if overdue <= 0 {
		return decimal.Zero
	}
	daysLate := int64(overdue / (24 * time.Hour))
	if overdue%(24*time.Hour) > 0 {
		daysLate++
	}
	return amount.Mul(rate).Mul(decimal.NewFromInt(daysLate))
}

// dateOnly drops the time-of-day so date comparisons are calendar-exact.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ============================================================
// Schedule generation
// ============================================================

// GenerateSchedule creates the full installment schedule for one member in
// one group: one installment per scheme period starting at first_due_date.
func (s *InstallmentService) GenerateSchedule(ctx context.Context, req *domain.GenerateInstallmentsRequest) ([]domain.Installment, error) {
	ctx, span := instTracer.Start(ctx, "InstallmentService.GenerateSchedule")
	defer span.End()

	group, err := s.groups.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}
	member, err := s.dir.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	scheme, err := s.schemes.GetScheme(ctx, group.SchemeID)
	if err != nil {
		return nil, err
	}

	if err := s.requireMembership(ctx, group.GroupID, member.MemberID); err != nil {
		return nil, err
	}

	firstDue, err := time.Parse(dateLayout, req.FirstDueDate)
	if err != nil {
		return nil, &domain.ErrValidation{Field: "first_due_date", Message: "expected YYYY-MM-DD"}
	}

	existing, err := s.money.ListInstallments(ctx, group.GroupID, member.MemberID, "")
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	if len(existing) > 0 {
		return nil, &domain.ErrBusinessRule{
			Rule:    "schedule_exists",
			Message: fmt.Sprintf("member %s already has %d installments in group %s", member.MemberID, len(existing), group.GroupID),
		}
	}

	out := make([]domain.Installment, 0, scheme.DurationMonths)
	due := firstDue
	for i := 1; i <= scheme.DurationMonths; i++ {
		installmentID, err := s.seq.Next(ctx, "installments", "installment_id", "INS")
		if err != nil {
			return nil, err
		}

		inst := &domain.Installment{
			ID:                uuid.NewString(),
			InstallmentID:     installmentID,
			MemberID:          member.MemberID,
			GroupID:           group.GroupID,
			SchemeID:          scheme.SchemeID,
			InstallmentNumber: i,
			InstallmentPeriod: periodLabel(scheme.Frequency, i, due),
			Amount:            scheme.InstallmentAmount,
			PaidAmount:        decimal.Zero,
			PendingAmount:     scheme.InstallmentAmount,
			LateFee:           decimal.Zero,
			DueDate:           due.Format(dateLayout),
			Status:            domain.InstallmentPending,
		}

		created, err := s.money.CreateInstallment(ctx, inst)
		if err != nil {
			return nil, fmt.Errorf("create installment %d: %w", i, err)
		}
		out = append(out, *created)
		due = nextDueDate(scheme.Frequency, due)
	}

	s.logger.Info("installment schedule generated",
		zap.String("group_id", group.GroupID),
		zap.String("member_id", member.MemberID),
		zap.Int("installments", len(out)),
	)
	return out, nil
}

func periodLabel(freq domain.SchemeFrequency, number int, due time.Time) string {
	switch freq {
	case domain.FrequencyWeekly:
		return fmt.Sprintf("Week %d", number)
	case domain.FrequencyDaily:
		return due.Format(dateLayout)
	default:
		return due.Format("Jan 2006")
	}
}

func nextDueDate(freq domain.SchemeFrequency, due time.Time) time.Time {
	switch freq {
	case domain.FrequencyWeekly:
		return due.AddDate(0, 0, 7)
	case domain.FrequencyDaily:
		return due.AddDate(0, 0, 1)
	default:
		return due.AddDate(0, 1, 0)
	}
}

// ============================================================
// Listing
// ============================================================

func (s *InstallmentService) ListInstallments(ctx context.Context, groupID, memberID string, status domain.InstallmentStatus) ([]domain.Installment, error) {
	ctx, span := instTracer.Start(ctx, "InstallmentService.ListInstallments")
	defer span.End()

	return s.money.ListInstallments(ctx, groupID, memberID, status)
}

func (s *InstallmentService) GetInstallment(ctx context.Context, id string) (*domain.Installment, error) {
	ctx, span := instTracer.Start(ctx, "InstallmentService.GetInstallment")
	defer span.End()

	return s.money.GetInstallment(ctx, id)
}

// ============================================================
// Payment
// ============================================================

// RecordPayment accumulates a payment against an installment, rederives
// status and late fee, and issues a receipt. Overpayment is accepted and
// drives pending negative; the installment still reads Paid.
func (s *InstallmentService) RecordPayment(ctx context.Context, id string, req *domain.PayInstallmentRequest) (*domain.Installment, *domain.Receipt, error) {
	ctx, span := instTracer.Start(ctx, "InstallmentService.RecordPayment")
	defer span.End()

	if !req.Amount.IsPositive() {
		return nil, nil, &domain.ErrValidation{Field: "amount", Message: "payment amount must be positive"}
	}

	inst, err := s.money.GetInstallment(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !inst.PendingAmount.IsPositive() {
		return nil, nil, &domain.ErrBusinessRule{
			Rule:    "already_paid",
			Message: fmt.Sprintf("installment %s is fully paid", inst.InstallmentID),
		}
	}

	member, err := s.dir.GetMember(ctx, inst.MemberID)
	if err != nil {
		return nil, nil, err
	}
	branch, err := s.dir.GetBranch(ctx, member.BranchID)
	if err != nil {
		return nil, nil, err
	}
	scheme, err := s.schemes.GetScheme(ctx, inst.SchemeID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	paid := inst.PaidAmount.Add(req.Amount)
	pending := inst.Amount.Sub(paid)
	status := DeriveInstallmentStatus(inst.DueDate, paid, pending, now)
	lateFee := decimal.Zero
	if status == domain.InstallmentLate {
		lateFee = ComputeLateFee(inst.Amount, scheme.LateFeeRate, inst.DueDate, now)
	}

	updates := map[string]any{
		"paid_amount":    paid,
		"pending_amount": pending,
		"late_fee":       lateFee,
		"status":         status,
		"payment_mode":   req.PaymentMode,
		"collected_by":   req.EmployeeID,
	}
	if err := s.money.UpdateInstallment(ctx, inst.InstallmentID, updates); err != nil {
		return nil, nil, fmt.Errorf("update installment: %w", err)
	}

	receipt, err := s.issueReceipt(ctx, inst, member, branch, req, now)
	if err != nil {
		return nil, nil, err
	}

	s.metrics.RecordPayment("installment", "collected", req.Amount)
	s.logger.Info("installment payment recorded",
		zap.String("installment_id", inst.InstallmentID),
		zap.String("member_id", member.MemberID),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(status)),
	)

	updated, err := s.money.GetInstallment(ctx, inst.InstallmentID)
	if err != nil {
		return nil, nil, err
	}
	return updated, receipt, nil
}

func (s *InstallmentService) issueReceipt(ctx context.Context, inst *domain.Installment, member *domain.Member, branch *domain.Branch, req *domain.PayInstallmentRequest, now time.Time) (*domain.Receipt, error) {
	receiptID, err := s.seq.Next(ctx, "receipts", "receipt_id", "RCP")
	if err != nil {
		return nil, err
	}
	receiptNo, err := s.seq.NextReceiptNo(ctx, branch.Name, now)
	if err != nil {
		return nil, err
	}

	receipt := &domain.Receipt{
		ID:            uuid.NewString(),
		ReceiptID:     receiptID,
		ReceiptNo:     receiptNo,
		BranchID:      branch.BranchID,
		MemberID:      member.MemberID,
		GroupID:       inst.GroupID,
		InstallmentID: inst.InstallmentID,
		Amount:        req.Amount,
		PaymentMode:   req.PaymentMode,
		IssuedBy:      req.EmployeeID,
	}

	created, err := s.money.CreateReceipt(ctx, receipt)
	if err != nil {
		return nil, fmt.Errorf("create receipt: %w", err)
	}
	return created, nil
}

func (s *InstallmentService) requireMembership(ctx context.Context, groupID, memberID string) error {
	members, err := s.groups.ListGroupMembers(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list group members: %w", err)
	}
	for _, gm := range members {
		if gm.MemberID == memberID {
			return nil
		}
	}
	return &domain.ErrBusinessRule{
		Rule:    "not_a_member",
		Message: fmt.Sprintf("member %s does not belong to group %s", memberID, groupID),
	}
}
