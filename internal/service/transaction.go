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

var txTracer = otel.Tracer("service/transaction")

// TransactionService records money movement and handles reversals.
type TransactionService struct {
	money   port.MoneyStore
	dir     port.DirectoryStore
	groups  port.SchemeStore
	seq     *Sequencer
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(money port.MoneyStore, dir port.DirectoryStore, groups port.SchemeStore, seq *Sequencer, metrics *observability.Metrics, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		money:   money,
		dir:     dir,
		groups:  groups,
		seq:     seq,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, req *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.CreateTransaction")
	defer span.End()

	if !req.Amount.IsPositive() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be positive"}
	}
	switch req.Type {
	case domain.TxDeposit, domain.TxWithdrawal:
		if req.MemberID == "" {
			return nil, &domain.ErrValidation{
				Field:   "member_id",
				Message: fmt.Sprintf("%s transactions require a member", req.Type),
			}
		}
	case domain.TxInstallment, domain.TxAuction:
		if req.GroupID == "" {
			return nil, &domain.ErrValidation{
				Field:   "group_id",
				Message: fmt.Sprintf("%s transactions require a group", req.Type),
			}
		}
	case domain.TxCommission, domain.TxPenalty, domain.TxOther:
	default:
		return nil, &domain.ErrValidation{Field: "type", Message: "unknown transaction type"}
	}

	memberID := ""
	if req.MemberID != "" {
		member, err := s.dir.GetMember(ctx, req.MemberID)
		if err != nil {
			return nil, err
		}
		memberID = member.MemberID
	}
	groupID := ""
	if req.GroupID != "" {
		group, err := s.groups.GetGroup(ctx, req.GroupID)
		if err != nil {
			return nil, err
		}
		groupID = group.GroupID
	}
	branchID := ""
	if req.BranchID != "" {
		branch, err := s.dir.GetBranch(ctx, req.BranchID)
		if err != nil {
			return nil, err
		}
		branchID = branch.BranchID
	}

	now := time.Now()
	txID, err := s.seq.NextTransaction(ctx, now)
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date == "" {
		date = now.Format(dateLayout)
	}

	tx := &domain.Transaction{
		ID:            uuid.NewString(),
		TransactionID: txID,
		Type:          req.Type,
		Amount:        req.Amount,
		PaymentMode:   req.PaymentMode,
		Status:        domain.TxCompleted,
		MemberID:      memberID,
		GroupID:       groupID,
		BranchID:      branchID,
		Description:   req.Description,
		Date:          date,
	}

	created, err := s.money.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.metrics.RecordPayment("transaction", directionOf(req.Type), req.Amount)
	s.logger.Info("transaction created",
		zap.String("transaction_id", created.TransactionID),
		zap.String("type", string(created.Type)),
		zap.String("amount", created.Amount.String()),
	)
	return created, nil
}

func (s *TransactionService) ListTransactions(ctx context.Context, memberID, groupID string, page, pageSize int) ([]domain.Transaction, int, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.ListTransactions")
	defer span.End()

	return s.money.ListTransactions(ctx, memberID, groupID, page, pageSize)
}

func (s *TransactionService) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.GetTransaction")
	defer span.End()

	return s.money.GetTransaction(ctx, id)
}

// Reverse creates a compensating twin of a Completed transaction and marks
// the original Reversed; the two records point at each other. Ledger
// entries referencing the original are not touched.
func (s *TransactionService) Reverse(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, span := txTracer.Start(ctx, "TransactionService.Reverse")
	defer span.End()

	original, err := s.money.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.TxCompleted {
		return nil, &domain.ErrBusinessRule{
			Rule:    "not_reversible",
			Message: fmt.Sprintf("transaction %s is %s, only completed transactions can be reversed", original.TransactionID, original.Status),
		}
	}

	now := time.Now()
	twinID, err := s.seq.NextTransaction(ctx, now)
	if err != nil {
		return nil, err
	}

	twin := &domain.Transaction{
		ID:                   uuid.NewString(),
		TransactionID:        twinID,
		Type:                 original.Type,
		Amount:               original.Amount.Neg(),
		PaymentMode:          original.PaymentMode,
		Status:               domain.TxCompleted,
		MemberID:             original.MemberID,
		GroupID:              original.GroupID,
		BranchID:             original.BranchID,
		Description:          fmt.Sprintf("Reversal of %s", original.TransactionID),
		RelatedTransactionID: original.TransactionID,
		Date:                 now.Format(dateLayout),
	}

	created, err := s.money.CreateTransaction(ctx, twin)
	if err != nil {
		return nil, fmt.Errorf("create reversal: %w", err)
	}

	if err := s.money.UpdateTransaction(ctx, original.TransactionID, map[string]any{
		"status":                 domain.TxReversed,
		"related_transaction_id": created.TransactionID,
	}); err != nil {
		return nil, fmt.Errorf("mark original reversed: %w", err)
	}

	s.logger.Info("transaction reversed",
		zap.String("transaction_id", original.TransactionID),
		zap.String("reversal_id", created.TransactionID),
	)
	return created, nil
}

func directionOf(t domain.TransactionType) string {
	switch t {
	case domain.TxWithdrawal, domain.TxAuction:
		return "disbursed"
	default:
		return "collected"
	}
}
