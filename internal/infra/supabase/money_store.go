package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tvsubram/chitfund-api/internal/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Installments, Payouts, Transactions, Receipts, Ledger
// ============================================================

// --- Installments ---

func (c *Client) CreateInstallment(ctx context.Context, in *domain.Installment) (*domain.Installment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateInstallment")
	defer span.End()

	data := map[string]any{
		"id":                 in.ID,
		"installment_id":     in.InstallmentID,
		"member_id":          in.MemberID,
		"group_id":           in.GroupID,
		"scheme_id":          in.SchemeID,
		"installment_number": in.InstallmentNumber,
		"installment_period": in.InstallmentPeriod,
		"amount":             in.Amount,
		"paid_amount":        in.PaidAmount,
		"pending_amount":     in.PendingAmount,
		"late_fee":           in.LateFee,
		"due_date":           in.DueDate,
		"status":             in.Status,
	}

	body, err := c.doPost(ctx, "installments", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Installment](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return in, nil
	}
	return row, nil
}

func (c *Client) ListInstallments(ctx context.Context, groupID, memberID string, status domain.InstallmentStatus) ([]domain.Installment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListInstallments")
	defer span.End()

	path := "installments?order=due_date.asc"
	if groupID != "" {
		path += "&group_id=eq." + url.QueryEscape(groupID)
	}
	if memberID != "" {
		path += "&member_id=eq." + url.QueryEscape(memberID)
	}
	if status != "" {
		path += "&status=eq." + url.QueryEscape(string(status))
	}

	var rows []domain.Installment
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) GetInstallment(ctx context.Context, id string) (*domain.Installment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetInstallment")
	defer span.End()

	path := fmt.Sprintf("installments?%s&limit=1", eitherFilter("installment_id", id))
	var rows []domain.Installment
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "installment", ID: id}
	}
	return &rows[0], nil
}

func (c *Client) UpdateInstallment(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateInstallment")
	defer span.End()

	path := fmt.Sprintf("installments?%s", eitherFilter("installment_id", id))
	return c.doPatch(ctx, path, updates)
}

// ListOverdueInstallments returns unpaid installments whose due date is
// strictly before asOf. Used by the nightly sweep.
func (c *Client) ListOverdueInstallments(ctx context.Context, asOf string) ([]domain.Installment, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListOverdueInstallments")
	defer span.End()

	path := fmt.Sprintf("installments?due_date=lt.%s&pending_amount=gt.0&status=neq.Paid&order=due_date.asc",
		url.QueryEscape(asOf))
	var rows []domain.Installment
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// --- Payouts ---

func (c *Client) CreatePayout(ctx context.Context, p *domain.Payout) (*domain.Payout, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreatePayout")
	defer span.End()

	data := map[string]any{
		"id":           p.ID,
		"payout_id":    p.PayoutID,
		"group_id":     p.GroupID,
		"member_id":    p.MemberID,
		"month_number": p.MonthNumber,
		"amount":       p.Amount,
		"status":       p.Status,
	}

	body, err := c.doPost(ctx, "payouts", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Payout](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return p, nil
	}
	return row, nil
}

func (c *Client) ListPayouts(ctx context.Context, groupID, memberID string, status domain.PayoutStatus) ([]domain.Payout, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPayouts")
	defer span.End()

	path := "payouts?order=month_number.asc"
	if groupID != "" {
		path += "&group_id=eq." + url.QueryEscape(groupID)
	}
	if memberID != "" {
		path += "&member_id=eq." + url.QueryEscape(memberID)
	}
	if status != "" {
		path += "&status=eq." + url.QueryEscape(string(status))
	}

	var rows []domain.Payout
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) GetPayout(ctx context.Context, id string) (*domain.Payout, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetPayout")
	defer span.End()

	path := fmt.Sprintf("payouts?%s&limit=1", eitherFilter("payout_id", id))
	var rows []domain.Payout
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "payout", ID: id}
	}
	return &rows[0], nil
}

func (c *Client) UpdatePayout(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdatePayout")
	defer span.End()

	path := fmt.Sprintf("payouts?%s", eitherFilter("payout_id", id))
	return c.doPatch(ctx, path, updates)
}

// --- Transactions ---

func (c *Client) CreateTransaction(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateTransaction")
	defer span.End()

	data := map[string]any{
		"id":             t.ID,
		"transaction_id": t.TransactionID,
		"type":           t.Type,
		"amount":         t.Amount,
		"payment_mode":   t.PaymentMode,
		"status":         t.Status,
		"member_id":      t.MemberID,
		"group_id":       t.GroupID,
		"branch_id":      t.BranchID,
		"description":    t.Description,
		"date":           t.Date,
	}
	if t.RelatedTransactionID != "" {
		data["related_transaction_id"] = t.RelatedTransactionID
	}

	body, err := c.doPost(ctx, "transactions", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Transaction](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return t, nil
	}
	return row, nil
}

func (c *Client) ListTransactions(ctx context.Context, memberID, groupID string, page, pageSize int) ([]domain.Transaction, int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListTransactions")
	defer span.End()

	filter := ""
	if memberID != "" {
		filter += "&member_id=eq." + url.QueryEscape(memberID)
	}
	if groupID != "" {
		filter += "&group_id=eq." + url.QueryEscape(groupID)
	}

	offset := (page - 1) * pageSize
	path := fmt.Sprintf("transactions?order=created_at.desc&limit=%d&offset=%d%s", pageSize, offset, filter)
	var rows []domain.Transaction
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, 0, err
	}

	var ids []struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, "transactions?select=id"+filter, &ids); err != nil {
		return nil, 0, err
	}
	return rows, len(ids), nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?%s&limit=1", eitherFilter("transaction_id", id))
	var rows []domain.Transaction
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
	}
	return &rows[0], nil
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateTransaction")
	defer span.End()

	path := fmt.Sprintf("transactions?%s", eitherFilter("transaction_id", id))
	return c.doPatch(ctx, path, updates)
}

// --- Receipts ---

func (c *Client) CreateReceipt(ctx context.Context, r *domain.Receipt) (*domain.Receipt, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateReceipt")
	defer span.End()

	data := map[string]any{
		"id":             r.ID,
		"receipt_id":     r.ReceiptID,
		"receipt_no":     r.ReceiptNo,
		"branch_id":      r.BranchID,
		"member_id":      r.MemberID,
		"group_id":       r.GroupID,
		"installment_id": r.InstallmentID,
		"amount":         r.Amount,
		"payment_mode":   r.PaymentMode,
		"issued_by":      r.IssuedBy,
	}

	body, err := c.doPost(ctx, "receipts", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Receipt](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return r, nil
	}
	return row, nil
}

func (c *Client) ListReceipts(ctx context.Context, memberID, branchID string, page, pageSize int) ([]domain.Receipt, int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListReceipts")
	defer span.End()

	filter := ""
	if memberID != "" {
		filter += "&member_id=eq." + url.QueryEscape(memberID)
	}
	if branchID != "" {
		filter += "&branch_id=eq." + url.QueryEscape(branchID)
	}

	offset := (page - 1) * pageSize
	path := fmt.Sprintf("receipts?order=created_at.desc&limit=%d&offset=%d%s", pageSize, offset, filter)
	var rows []domain.Receipt
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, 0, err
	}

	var ids []struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, "receipts?select=id"+filter, &ids); err != nil {
		return nil, 0, err
	}
	return rows, len(ids), nil
}

func (c *Client) GetReceipt(ctx context.Context, id string) (*domain.Receipt, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetReceipt")
	defer span.End()

	path := fmt.Sprintf("receipts?%s&limit=1", eitherFilter("receipt_id", id))
	var rows []domain.Receipt
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "receipt", ID: id}
	}
	return &rows[0], nil
}

// --- Ledger ---

func (c *Client) CreateLedgerEntry(ctx context.Context, e *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateLedgerEntry")
	defer span.End()

	data := map[string]any{
		"id":             e.ID,
		"ledger_id":      e.LedgerID,
		"branch_id":      e.BranchID,
		"member_id":      e.MemberID,
		"group_id":       e.GroupID,
		"transaction_id": e.TransactionID,
		"date":           e.Date,
		"description":    e.Description,
		"debit":          e.Debit,
		"credit":         e.Credit,
		"balance":        e.Balance,
	}

	body, err := c.doPost(ctx, "ledger_entries", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.LedgerEntry](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return e, nil
	}
	return row, nil
}

func (c *Client) ListLedgerEntries(ctx context.Context, memberID string, page, pageSize int) ([]domain.LedgerEntry, int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListLedgerEntries")
	defer span.End()

	filter := "&member_id=eq." + url.QueryEscape(memberID)
	offset := (page - 1) * pageSize
	path := fmt.Sprintf("ledger_entries?order=created_at.asc&limit=%d&offset=%d%s", pageSize, offset, filter)
	var rows []domain.LedgerEntry
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, 0, err
	}

	var ids []struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, "ledger_entries?select=id"+filter, &ids); err != nil {
		return nil, 0, err
	}
	return rows, len(ids), nil
}

// GetLatestLedgerEntry returns the member's most recently created entry.
// The running balance chains on creation order, not on the date column.
func (c *Client) GetLatestLedgerEntry(ctx context.Context, memberID string) (*domain.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetLatestLedgerEntry")
	defer span.End()

	path := fmt.Sprintf("ledger_entries?member_id=eq.%s&order=created_at.desc&limit=1", url.QueryEscape(memberID))
	var rows []domain.LedgerEntry
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (c *Client) ListLedgerEntriesBetween(ctx context.Context, memberID, from, to string) ([]domain.LedgerEntry, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListLedgerEntriesBetween")
	defer span.End()

	path := fmt.Sprintf("ledger_entries?member_id=eq.%s&date=gte.%s&date=lte.%s&order=created_at.asc",
		url.QueryEscape(memberID), url.QueryEscape(from), url.QueryEscape(to))
	var rows []domain.LedgerEntry
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// --- Dashboard counts ---

func (c *Client) CountMembers(ctx context.Context, branchID string) (int, error) {
	path := "members?select=id&active=eq.true"
	if branchID != "" {
		path += "&branch_id=eq." + url.QueryEscape(branchID)
	}
	var ids []struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, path, &ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (c *Client) CountGroupsByStatus(ctx context.Context, status domain.GroupStatus) (int, error) {
	path := fmt.Sprintf("groups?select=id&status=eq.%s", url.QueryEscape(string(status)))
	var ids []struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, path, &ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (c *Client) CountPayoutsByStatus(ctx context.Context, status domain.PayoutStatus) (int, error) {
	path := fmt.Sprintf("payouts?select=id&status=eq.%s", url.QueryEscape(string(status)))
	var ids []struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, path, &ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// SumReceiptsOn totals receipt amounts created on the given day.
func (c *Client) SumReceiptsOn(ctx context.Context, date string) (decimal.Decimal, error) {
	path := fmt.Sprintf("receipts?select=amount&created_at=gte.%s&created_at=lt.%sT23:59:59",
		url.QueryEscape(date), url.QueryEscape(date))
	var rows []struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total, nil
}
