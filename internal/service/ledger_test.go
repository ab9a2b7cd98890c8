package service_test

import (
	"context"
	"testing"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNextBalance(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		credit   string
		debit    string
		want     string
	}{
		{"credit grows balance", "1000", "500", "0", "1500"},
		{"debit shrinks balance", "1000", "0", "300", "700"},
		{"both applied", "1000", "500", "300", "1200"},
		{"balance can go negative", "100", "0", "500", "-400"},
		{"from zero", "0", "5000", "0", "5000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.NextBalance(dec(tt.previous), dec(tt.credit), dec(tt.debit))
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func newLedgerFixture(t *testing.T) (*fakeStore, *service.LedgerService) {
	t.Helper()
	store := newFakeStore()
	store.branches = append(store.branches, &domain.Branch{
		ID: "b-1", BranchID: "BRN001", Name: "Madurai Main", Active: true,
	})
	store.members = append(store.members, &domain.Member{
		ID: "m-1", MemberID: "MEM001", BranchID: "BRN001", Name: "Kumar", Phone: "9876500001", Active: true,
	})
	store.transactions = append(store.transactions, &domain.Transaction{
		ID: "t-1", TransactionID: "TXN26001", Type: domain.TxDeposit,
		Amount: dec("5000"), Status: domain.TxCompleted, MemberID: "MEM001", Date: "2026-06-01",
	})

	seq := service.NewSequencer(store)
	svc := service.NewLedgerService(store, store, store, seq, zap.NewNop())
	return store, svc
}

func TestCreateEntry_ChainsOnLatestBalance(t *testing.T) {
	_, svc := newLedgerFixture(t)
	ctx := context.Background()

	first, err := svc.CreateEntry(ctx, &domain.CreateLedgerEntryRequest{
		BranchID: "BRN001", MemberID: "MEM001", TransactionID: "TXN26001",
		Date: "2026-06-01", Credit: dec("5000"), Debit: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "LDG001", first.LedgerID)
	assert.True(t, first.Balance.Equal(dec("5000")))

	second, err := svc.CreateEntry(ctx, &domain.CreateLedgerEntryRequest{
		BranchID: "BRN001", MemberID: "MEM001", TransactionID: "TXN26001",
		Date: "2026-06-10", Credit: decimal.Zero, Debit: dec("1500"),
	})
	require.NoError(t, err)
	assert.Equal(t, "LDG002", second.LedgerID)
	assert.True(t, second.Balance.Equal(dec("3500")))
}

func TestCreateEntry_ChainsOnCreationOrderNotDate(t *testing.T) {
	// An entry backdated before the previous one still chains off the most
	// recently created balance.
	_, svc := newLedgerFixture(t)
	ctx := context.Background()

	_, err := svc.CreateEntry(ctx, &domain.CreateLedgerEntryRequest{
		BranchID: "BRN001", MemberID: "MEM001", TransactionID: "TXN26001",
		Date: "2026-06-20", Credit: dec("5000"),
	})
	require.NoError(t, err)

	backdated, err := svc.CreateEntry(ctx, &domain.CreateLedgerEntryRequest{
		BranchID: "BRN001", MemberID: "MEM001", TransactionID: "TXN26001",
		Date: "2026-06-01", Credit: dec("1000"),
	})
	require.NoError(t, err)
	assert.True(t, backdated.Balance.Equal(dec("6000")))
}

func TestCreateEntry_Validation(t *testing.T) {
	_, svc := newLedgerFixture(t)
	ctx := context.Background()

	_, err := svc.CreateEntry(ctx, &domain.CreateLedgerEntryRequest{
		BranchID: "BRN001", MemberID: "MEM001", TransactionID: "TXN26001",
		Date: "2026-06-01",
	})
	var validation *domain.ErrValidation
	require.ErrorAs(t, err, &validation)

	_, err = svc.CreateEntry(ctx, &domain.CreateLedgerEntryRequest{
		BranchID: "BRN001", MemberID: "MEM001", TransactionID: "TXN26001",
		Date: "2026-06-01", Debit: dec("-5"),
	})
	require.ErrorAs(t, err, &validation)
}

func TestStatement_ReconstructsOpeningBalance(t *testing.T) {
	_, svc := newLedgerFixture(t)
	ctx := context.Background()

	// Entry before the window establishes a prior balance of 2000.
	_, err := svc.CreateEntry(ctx, &domain.CreateLedgerEntryRequest{
		BranchID: "BRN001", MemberID: "MEM001", TransactionID: "TXN26001",
		Date: "2026-05-15", Credit: dec("2000"),
	})
	require.NoError(t, err)

	_, err = svc.CreateEntry(ctx, &domain.CreateLedgerEntryRequest{
		BranchID: "BRN001", MemberID: "MEM001", TransactionID: "TXN26001",
		Date: "2026-06-05", Credit: dec("5000"),
	})
	require.NoError(t, err)
	_, err = svc.CreateEntry(ctx, &domain.CreateLedgerEntryRequest{
		BranchID: "BRN001", MemberID: "MEM001", TransactionID: "TXN26001",
		Date: "2026-06-20", Debit: dec("1500"),
	})
	require.NoError(t, err)

	stmt, err := svc.Statement(ctx, "MEM001", "2026-06-01", "2026-06-30")
	require.NoError(t, err)
	assert.Len(t, stmt.Entries, 2)
	assert.True(t, stmt.OpeningBalance.Equal(dec("2000")), "got %s", stmt.OpeningBalance)
	assert.True(t, stmt.ClosingBalance.Equal(dec("5500")))
	assert.True(t, stmt.TotalCredit.Equal(dec("5000")))
	assert.True(t, stmt.TotalDebit.Equal(dec("1500")))
}

func TestStatement_EmptyRange(t *testing.T) {
	_, svc := newLedgerFixture(t)

	stmt, err := svc.Statement(context.Background(), "MEM001", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	assert.Empty(t, stmt.Entries)
	assert.True(t, stmt.OpeningBalance.IsZero())
	assert.True(t, stmt.ClosingBalance.IsZero())
}
