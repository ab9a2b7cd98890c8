package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies money movement.
type TransactionType string

const (
	TxDeposit     TransactionType = "Deposit"
	TxWithdrawal  TransactionType = "Withdrawal"
	TxInstallment TransactionType = "Installment"
	TxAuction     TransactionType = "Auction"
	TxCommission  TransactionType = "Commission"
	TxPenalty     TransactionType = "Penalty"
	TxOther       TransactionType = "Other"
)

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "Pending"
	TxCompleted TransactionStatus = "Completed"
	TxFailed    TransactionStatus = "Failed"
	TxReversed  TransactionStatus = "Reversed"
)

// Transaction is a record of money movement. Transactions are immutable
// except for status changes and the reversal back-link.
type Transaction struct {
	ID                   string            `json:"id"`
	TransactionID        string            `json:"transaction_id"` // TXN<YY><NNN>, counter resets each year
	Type                 TransactionType   `json:"type"`
	Amount               decimal.Decimal   `json:"amount"`
	PaymentMode          string            `json:"payment_mode"`
	Status               TransactionStatus `json:"status"`
	MemberID             string            `json:"member_id,omitempty"`
	GroupID              string            `json:"group_id,omitempty"`
	BranchID             string            `json:"branch_id,omitempty"`
	Description          string            `json:"description,omitempty"`
	RelatedTransactionID string            `json:"related_transaction_id,omitempty"`
	Date                 string            `json:"date"` // YYYY-MM-DD
	CreatedAt            time.Time         `json:"created_at"`
}

// CreateTransactionRequest is the payload for POST /v1/transactions.
type CreateTransactionRequest struct {
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	MemberID    string          `json:"member_id"`
	GroupID     string          `json:"group_id"`
	BranchID    string          `json:"branch_id"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// InstallmentStatus is derived from pending amount and due date.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "Pending"
	InstallmentPartial InstallmentStatus = "Partial"
	InstallmentPaid    InstallmentStatus = "Paid"
	InstallmentLate    InstallmentStatus = "Late"
)

// Installment is a scheduled obligation for one member in one group.
// pending_amount is always amount - paid_amount, recomputed on every save.
type Installment struct {
	ID                string            `json:"id"`
	InstallmentID     string            `json:"installment_id"` // INS001...
	MemberID          string            `json:"member_id"`
	GroupID           string            `json:"group_id"`
	SchemeID          string            `json:"scheme_id"`
	InstallmentNumber int               `json:"installment_number"` // sequential per member+group
	InstallmentPeriod string            `json:"installment_period"` // human label from scheme frequency
	Amount            decimal.Decimal   `json:"amount"`
	PaidAmount        decimal.Decimal   `json:"paid_amount"`
	PendingAmount     decimal.Decimal   `json:"pending_amount"`
	LateFee           decimal.Decimal   `json:"late_fee"`
	DueDate           string            `json:"due_date"` // YYYY-MM-DD
	Status            InstallmentStatus `json:"status"`
	PaymentMode       string            `json:"payment_mode,omitempty"`
	CollectedBy       string            `json:"collected_by,omitempty"` // employee id
	CreatedAt         time.Time         `json:"created_at"`
}

// PayInstallmentRequest is the payload for POST /v1/installments/{id}/pay.
type PayInstallmentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	EmployeeID  string          `json:"employee_id"`
}

// GenerateInstallmentsRequest creates the full schedule for one member in
// one group starting from a given due date.
type GenerateInstallmentsRequest struct {
	MemberID     string `json:"member_id"`
	GroupID      string `json:"group_id"`
	FirstDueDate string `json:"first_due_date"` // YYYY-MM-DD
}

// PayoutStatus is the disbursement state for a rotation month.
type PayoutStatus string

const (
	PayoutPending PayoutStatus = "Pending"
	PayoutPaid    PayoutStatus = "Paid"
	PayoutSkipped PayoutStatus = "Skipped"
)

// Payout is the amount owed to the member assigned a given rotation month.
// On payment it links to the transaction that settled it.
type Payout struct {
	ID            string          `json:"id"`
	PayoutID      string          `json:"payout_id"` // PAY001...
	GroupID       string          `json:"group_id"`
	MemberID      string          `json:"member_id"`
	MonthNumber   int             `json:"month_number"`
	Amount        decimal.Decimal `json:"amount"`
	Status        PayoutStatus    `json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	PaidDate      string          `json:"paid_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreatePayoutRequest is the payload for POST /v1/payouts.
type CreatePayoutRequest struct {
	GroupID     string `json:"group_id"`
	MonthNumber int    `json:"month_number"`
}

// PayPayoutRequest is the payload for POST /v1/payouts/{id}/pay.
type PayPayoutRequest struct {
	PaymentMode string `json:"payment_mode"`
}

// Receipt is proof of funds received, distinct from the underlying
// transaction record. receipt_no is sequenced per branch:
// <BRANCHCODE>-<YY>-<NNNNN>.
type Receipt struct {
	ID            string          `json:"id"`
	ReceiptID     string          `json:"receipt_id"` // RCP001... (global)
	ReceiptNo     string          `json:"receipt_no"` // e.g. MAD-26-00042
	BranchID      string          `json:"branch_id"`
	MemberID      string          `json:"member_id"`
	GroupID       string          `json:"group_id,omitempty"`
	InstallmentID string          `json:"installment_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMode   string          `json:"payment_mode"`
	IssuedBy      string          `json:"issued_by,omitempty"` // employee id
	CreatedAt     time.Time       `json:"created_at"`
}

// LedgerEntry is one append-only row of a member's running-balance
// statement. balance = previous entry's balance + credit - debit, chained
// in creation order.
type LedgerEntry struct {
	ID            string          `json:"id"`
	LedgerID      string          `json:"ledger_id"` // LDG001...
	BranchID      string          `json:"branch_id"`
	MemberID      string          `json:"member_id"`
	GroupID       string          `json:"group_id,omitempty"`
	TransactionID string          `json:"transaction_id"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Description   string          `json:"description,omitempty"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateLedgerEntryRequest is the payload for POST /v1/ledger.
type CreateLedgerEntryRequest struct {
	BranchID      string          `json:"branch_id"`
	MemberID      string          `json:"member_id"`
	GroupID       string          `json:"group_id"`
	TransactionID string          `json:"transaction_id"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// LedgerStatement is a member's ledger over a date range. The opening
// balance is reconstructed from the first in-range entry, not computed
// independently.
type LedgerStatement struct {
	MemberID       string          `json:"member_id"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	Entries        []LedgerEntry   `json:"entries"`
}
