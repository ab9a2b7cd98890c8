package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/infra/observability"
	"github.com/tvsubram/chitfund-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var payoutTracer = otel.Tracer("service/payout")

// PayoutService manages disbursements to the member assigned each rotation
// month. Paying a payout settles it through a Withdrawal transaction.
type PayoutService struct {
	money   port.MoneyStore
	groups  port.SchemeStore
	schemes *SchemeService
	txs     *TransactionService
	seq     *Sequencer
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewPayoutService creates a new payout service.
func NewPayoutService(money port.MoneyStore, groups port.SchemeStore, schemes *SchemeService, txs *TransactionService, seq *Sequencer, metrics *observability.Metrics, logger *zap.Logger) *PayoutService {
	return &PayoutService{
		money:   money,
		groups:  groups,
		schemes: schemes,
		txs:     txs,
		seq:     seq,
		metrics: metrics,
		logger:  logger,
	}
}

// CreatePayout opens a pending payout for the member holding the given
// rotation month. The amount is the scheme total less commission.
func (s *PayoutService) CreatePayout(ctx context.Context, groupID string, monthNumber int) (*domain.Payout, error) {
	ctx, span := payoutTracer.Start(ctx, "PayoutService.CreatePayout")
	defer span.End()

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	scheme, err := s.schemes.GetScheme(ctx, group.SchemeID)
	if err != nil {
		return nil, err
	}
	if monthNumber < 1 || monthNumber > scheme.DurationMonths {
		return nil, &domain.ErrValidation{
			Field:   "month_number",
			Message: fmt.Sprintf("month must be between 1 and %d", scheme.DurationMonths),
		}
	}

	members, err := s.groups.ListGroupMembers(ctx, group.GroupID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	assignee := ""
	for _, gm := range members {
		if gm.PayoutMonth == monthNumber {
			assignee = gm.MemberID
			break
		}
	}
	if assignee == "" {
		return nil, &domain.ErrBusinessRule{
			Rule:    "month_unassigned",
			Message: fmt.Sprintf("no member holds month %d in group %s", monthNumber, group.GroupID),
		}
	}

	existing, err := s.money.ListPayouts(ctx, group.GroupID, "", "")
	if err != nil {
		return nil, fmt.Errorf("list payouts: %w", err)
	}
	for _, p := range existing {
		if p.MonthNumber == monthNumber && p.Status != domain.PayoutSkipped {
			return nil, &domain.ErrBusinessRule{
				Rule:    "payout_exists",
				Message: fmt.Sprintf("payout for month %d in group %s already exists", monthNumber, group.GroupID),
			}
		}
	}

	payoutID, err := s.seq.Next(ctx, "payouts", "payout_id", "PAY")
	if err != nil {
		return nil, err
	}

	// Payout is the pool less the foreman's commission.
	amount := scheme.TotalAmount.Sub(scheme.TotalAmount.Mul(scheme.CommissionRate))

	payout := &domain.Payout{
		ID:          uuid.NewString(),
		PayoutID:    payoutID,
		GroupID:     group.GroupID,
		MemberID:    assignee,
		MonthNumber: monthNumber,
		Amount:      amount,
		Status:      domain.PayoutPending,
	}

	created, err := s.money.CreatePayout(ctx, payout)
	if err != nil {
		return nil, fmt.Errorf("create payout: %w", err)
	}

	s.logger.Info("payout created",
		zap.String("payout_id", created.PayoutID),
		zap.String("group_id", created.GroupID),
		zap.Int("month_number", created.MonthNumber),
	)
	return created, nil
}

func (s *PayoutService) ListPayouts(ctx context.Context, groupID, memberID string, status domain.PayoutStatus) ([]domain.Payout, error) {
	ctx, span := payoutTracer.Start(ctx, "PayoutService.ListPayouts")
	defer span.End()

	return s.money.ListPayouts(ctx, groupID, memberID, status)
}

func (s *PayoutService) GetPayout(ctx context.Context, id string) (*domain.Payout, error) {
	ctx, span := payoutTracer.Start(ctx, "PayoutService.GetPayout")
	defer span.End()

	return s.money.GetPayout(ctx, id)
}

// Pay settles a pending payout: a Withdrawal transaction is recorded for
// the member and the payout links to it.
func (s *PayoutService) Pay(ctx context.Context, id string, req *domain.PayPayoutRequest) (*domain.Payout, error) {
	ctx, span := payoutTracer.Start(ctx, "PayoutService.Pay")
	defer span.End()

	payout, err := s.requirePending(ctx, id)
	if err != nil {
		return nil, err
	}

	group, err := s.groups.GetGroup(ctx, payout.GroupID)
	if err != nil {
		return nil, err
	}

	tx, err := s.txs.CreateTransaction(ctx, &domain.CreateTransactionRequest{
		Type:        domain.TxWithdrawal,
		Amount:      payout.Amount,
		PaymentMode: req.PaymentMode,
		MemberID:    payout.MemberID,
		GroupID:     payout.GroupID,
		BranchID:    group.BranchID,
		Description: fmt.Sprintf("Payout %s, month %d of group %s", payout.PayoutID, payout.MonthNumber, payout.GroupID),
	})
	if err != nil {
		return nil, err
	}

	if err := s.money.UpdatePayout(ctx, payout.PayoutID, map[string]any{
		"status":         domain.PayoutPaid,
		"transaction_id": tx.TransactionID,
		"paid_date":      time.Now().Format(dateLayout),
	}); err != nil {
		return nil, fmt.Errorf("mark payout paid: %w", err)
	}

	s.metrics.RecordPayment("payout", "disbursed", payout.Amount)
	s.logger.Info("payout paid",
		zap.String("payout_id", payout.PayoutID),
		zap.String("transaction_id", tx.TransactionID),
		zap.String("amount", payout.Amount.String()),
	)
	return s.money.GetPayout(ctx, payout.PayoutID)
}

// Skip marks a pending payout Skipped without moving money.
func (s *PayoutService) Skip(ctx context.Context, id string) (*domain.Payout, error) {
	ctx, span := payoutTracer.Start(ctx, "PayoutService.Skip")
	defer span.End()

	payout, err := s.requirePending(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.money.UpdatePayout(ctx, payout.PayoutID, map[string]any{"status": domain.PayoutSkipped}); err != nil {
		return nil, fmt.Errorf("skip payout: %w", err)
	}

	s.logger.Info("payout skipped", zap.String("payout_id", payout.PayoutID))
	return s.money.GetPayout(ctx, payout.PayoutID)
}

func (s *PayoutService) requirePending(ctx context.Context, id string) (*domain.Payout, error) {
	payout, err := s.money.GetPayout(ctx, id)
	if err != nil {
		return nil, err
	}
	if payout.Status != domain.PayoutPending {
		return nil, &domain.ErrBusinessRule{
			Rule:    "payout_not_pending",
			Message: fmt.Sprintf("payout %s is %s", payout.PayoutID, payout.Status),
		}
	}
	return payout, nil
}
