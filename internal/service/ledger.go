package service

import (
	"context"
	"fmt"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/port"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var ledgerTracer = otel.Tracer("service/ledger")

// LedgerService maintains each member's append-only running-balance
// statement. The balance chains on the most recently created entry, in
// creation order, regardless of the business date on the entry.
type LedgerService struct {
	money  port.MoneyStore
	dir    port.DirectoryStore
	groups port.SchemeStore
	seq    *Sequencer
	logger *zap.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(money port.MoneyStore, dir port.DirectoryStore, groups port.SchemeStore, seq *Sequencer, logger *zap.Logger) *LedgerService {
	return &LedgerService{money: money, dir: dir, groups: groups, seq: seq, logger: logger}
}

// NextBalance applies the running-balance recurrence:
// previous balance + credit − debit.
func NextBalance(previous, credit, debit decimal.Decimal) decimal.Decimal {
	return previous.Add(credit).Sub(debit)
}

func (s *LedgerService) CreateEntry(ctx context.Context, req *domain.CreateLedgerEntryRequest) (*domain.LedgerEntry, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.CreateEntry")
	defer span.End()

	if req.Debit.IsNegative() || req.Credit.IsNegative() {
		return nil, &domain.ErrValidation{Field: "debit", Message: "debit and credit must be non-negative"}
	}
	if req.Debit.IsZero() && req.Credit.IsZero() {
		return nil, &domain.ErrValidation{Field: "debit", Message: "either debit or credit must be set"}
	}

	branch, err := s.dir.GetBranch(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	member, err := s.dir.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	tx, err := s.money.GetTransaction(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	groupID := ""
	if req.GroupID != "" {
		group, err := s.groups.GetGroup(ctx, req.GroupID)
		if err != nil {
			return nil, err
		}
		groupID = group.GroupID
	}

	// Chain the balance off whatever entry was created last.
	previous := decimal.Zero
	latest, err := s.money.GetLatestLedgerEntry(ctx, member.MemberID)
	if err != nil {
		return nil, fmt.Errorf("get latest ledger entry: %w", err)
	}
	if latest != nil {
		previous = latest.Balance
	}

	ledgerID, err := s.seq.Next(ctx, "ledger_entries", "ledger_id", "LDG")
	if err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:            uuid.NewString(),
		LedgerID:      ledgerID,
		BranchID:      branch.BranchID,
		MemberID:      member.MemberID,
		GroupID:       groupID,
		TransactionID: tx.TransactionID,
		Date:          req.Date,
		Description:   req.Description,
		Debit:         req.Debit,
		Credit:        req.Credit,
		Balance:       NextBalance(previous, req.Credit, req.Debit),
	}

	created, err := s.money.CreateLedgerEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("create ledger entry: %w", err)
	}

	s.logger.Info("ledger entry created",
		zap.String("ledger_id", created.LedgerID),
		zap.String("member_id", created.MemberID),
		zap.String("balance", created.Balance.String()),
	)
	return created, nil
}

func (s *LedgerService) ListEntries(ctx context.Context, memberID string, page, pageSize int) ([]domain.LedgerEntry, int, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.ListEntries")
	defer span.End()

	member, err := s.dir.GetMember(ctx, memberID)
	if err != nil {
		return nil, 0, err
	}
	return s.money.ListLedgerEntries(ctx, member.MemberID, page, pageSize)
}

// Statement builds a member's ledger over a date range. The opening
// balance is reconstructed by unwinding the first in-range entry
// (balance − credit + debit) rather than computed independently.
func (s *LedgerService) Statement(ctx context.Context, memberID, from, to string) (*domain.LedgerStatement, error) {
	ctx, span := ledgerTracer.Start(ctx, "LedgerService.Statement")
	defer span.End()

	member, err := s.dir.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	entries, err := s.money.ListLedgerEntriesBetween(ctx, member.MemberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}

	stmt := &domain.LedgerStatement{
		MemberID: member.MemberID,
		From:     from,
		To:       to,
		Entries:  entries,
	}

	if len(entries) == 0 {
		return stmt, nil
	}

	first := entries[0]
	stmt.OpeningBalance = first.Balance.Sub(first.Credit).Add(first.Debit)
	stmt.ClosingBalance = entries[len(entries)-1].Balance
	for _, e := range entries {
		stmt.TotalDebit = stmt.TotalDebit.Add(e.Debit)
		stmt.TotalCredit = stmt.TotalCredit.Add(e.Credit)
	}
	return stmt, nil
}
