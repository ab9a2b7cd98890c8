package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"

	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory stand-in for the document store. Lookups accept
// either the row id or the human-readable id, matching the real adapter.
type fakeStore struct {
	mu sync.Mutex

	lastIDs       map[string]string // table -> last human id
	lastReceiptNo map[string]string // branch code -> last receipt_no

	branches      []*domain.Branch
	employees     []*domain.Employee
	members       []*domain.Member
	schemes       []*domain.Scheme
	groups        []*domain.Group
	groupMembers  []domain.GroupMember
	bookings      []*domain.Booking
	installments  []*domain.Installment
	payouts       []*domain.Payout
	transactions  []*domain.Transaction
	receipts      []*domain.Receipt
	ledger        []*domain.LedgerEntry
	notifications []*domain.Notification
	refreshTokens []*domain.AuthRefreshToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		lastIDs:       map[string]string{},
		lastReceiptNo: map[string]string{},
	}
}

// ============================================================
// SequenceStore
// ============================================================

func (f *fakeStore) GetLastID(_ context.Context, table, _, prefix string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	last := f.lastIDs[table]
	if len(last) < len(prefix) || last[:len(prefix)] != prefix {
		return "", nil
	}
	return last, nil
}

func (f *fakeStore) GetLastReceiptNo(_ context.Context, branchCode string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReceiptNo[branchCode], nil
}

// ============================================================
// DirectoryStore
// ============================================================

func (f *fakeStore) CreateBranch(_ context.Context, b *domain.Branch) (*domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.branches = append(f.branches, b)
	f.lastIDs["branches"] = b.BranchID
	return b, nil
}

func (f *fakeStore) ListBranches(_ context.Context, activeOnly bool) ([]domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Branch
	for _, b := range f.branches {
		if activeOnly && !b.Active {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeStore) GetBranch(_ context.Context, id string) (*domain.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.branches {
		if b.ID == id || b.BranchID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "branch", ID: id}
}

func (f *fakeStore) UpdateBranch(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.branches {
		if b.ID == id || b.BranchID == id {
			if v, ok := updates["name"].(string); ok {
				b.Name = v
			}
			if v, ok := updates["active"].(bool); ok {
				b.Active = v
			}
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "branch", ID: id}
}

func (f *fakeStore) CreateEmployee(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees = append(f.employees, e)
	f.lastIDs["employees"] = e.EmployeeID
	return e, nil
}

func (f *fakeStore) ListEmployees(_ context.Context, branchID string) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Employee
	for _, e := range f.employees {
		if branchID != "" && e.BranchID != branchID {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id string) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.ID == id || e.EmployeeID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "employee", ID: id}
}

func (f *fakeStore) GetEmployeeByEmail(_ context.Context, email string) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "employee", ID: email}
}

func (f *fakeStore) UpdateEmployee(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.ID == id || e.EmployeeID == id {
			if v, ok := updates["name"].(string); ok {
				e.Name = v
			}
			if v, ok := updates["active"].(bool); ok {
				e.Active = v
			}
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "employee", ID: id}
}

func (f *fakeStore) CreateMember(_ context.Context, m *domain.Member) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members = append(f.members, m)
	f.lastIDs["members"] = m.MemberID
	return m, nil
}

func (f *fakeStore) ListMembers(_ context.Context, branchID string, _, _ int) ([]domain.Member, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Member
	for _, m := range f.members {
		if branchID != "" && m.BranchID != branchID {
			continue
		}
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (f *fakeStore) GetMember(_ context.Context, id string) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.ID == id || m.MemberID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "member", ID: id}
}

func (f *fakeStore) UpdateMember(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.ID == id || m.MemberID == id {
			if v, ok := updates["name"].(string); ok {
				m.Name = v
			}
			if v, ok := updates["active"].(bool); ok {
				m.Active = v
			}
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "member", ID: id}
}

func (f *fakeStore) DeleteMember(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.members {
		if m.ID == id || m.MemberID == id {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "member", ID: id}
}

// ============================================================
// SchemeStore
// ============================================================

func (f *fakeStore) CreateScheme(_ context.Context, s *domain.Scheme) (*domain.Scheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schemes = append(f.schemes, s)
	f.lastIDs["schemes"] = s.SchemeID
	return s, nil
}

func (f *fakeStore) ListSchemes(_ context.Context, activeOnly bool) ([]domain.Scheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Scheme
	for _, s := range f.schemes {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) GetScheme(_ context.Context, id string) (*domain.Scheme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schemes {
		if s.ID == id || s.SchemeID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "scheme", ID: id}
}

func (f *fakeStore) UpdateScheme(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.schemes {
		if s.ID == id || s.SchemeID == id {
			if v, ok := updates["name"].(string); ok {
				s.Name = v
			}
			if v, ok := updates["active"].(bool); ok {
				s.Active = v
			}
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "scheme", ID: id}
}

func (f *fakeStore) CreateGroup(_ context.Context, g *domain.Group) (*domain.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups = append(f.groups, g)
	f.lastIDs["groups"] = g.GroupID
	return g, nil
}

func (f *fakeStore) ListGroups(_ context.Context, branchID string, status domain.GroupStatus) ([]domain.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Group
	for _, g := range f.groups {
		if branchID != "" && g.BranchID != branchID {
			continue
		}
		if status != "" && g.Status != status {
			continue
		}
		out = append(out, *g)
	}
	return out, nil
}

func (f *fakeStore) GetGroup(_ context.Context, id string) (*domain.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.ID == id || g.GroupID == id {
			cp := *g
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "group", ID: id}
}

func (f *fakeStore) UpdateGroup(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.ID == id || g.GroupID == id {
			if v, ok := updates["status"].(domain.GroupStatus); ok {
				g.Status = v
			}
			if v, ok := updates["current_month"].(int); ok {
				g.CurrentMonth = v
			}
			if v, ok := updates["name"].(string); ok {
				g.Name = v
			}
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "group", ID: id}
}

func (f *fakeStore) DeleteGroup(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.groups {
		if g.ID == id || g.GroupID == id {
			f.groups = append(f.groups[:i], f.groups[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "group", ID: id}
}

func (f *fakeStore) ListGroupMembers(_ context.Context, groupID string) ([]domain.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.GroupMember
	for _, gm := range f.groupMembers {
		if gm.GroupID == groupID {
			out = append(out, gm)
		}
	}
	return out, nil
}

func (f *fakeStore) ListMemberGroups(_ context.Context, memberID string) ([]domain.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.GroupMember
	for _, gm := range f.groupMembers {
		if gm.MemberID == memberID {
			out = append(out, gm)
		}
	}
	return out, nil
}

func (f *fakeStore) AddGroupMember(_ context.Context, gm *domain.GroupMember) (*domain.GroupMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupMembers = append(f.groupMembers, *gm)
	return gm, nil
}

func (f *fakeStore) RemoveGroupMember(_ context.Context, groupID, memberID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, gm := range f.groupMembers {
		if gm.GroupID == groupID && gm.MemberID == memberID {
			f.groupMembers = append(f.groupMembers[:i], f.groupMembers[i+1:]...)
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "group member", ID: memberID}
}

func (f *fakeStore) CreateBooking(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, b)
	f.lastIDs["bookings"] = b.BookingID
	return b, nil
}

func (f *fakeStore) ListBookings(_ context.Context, groupID, memberID string) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if groupID != "" && b.GroupID != groupID {
			continue
		}
		if memberID != "" && b.MemberID != memberID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeStore) GetBooking(_ context.Context, id string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id || b.BookingID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "booking", ID: id}
}

func (f *fakeStore) UpdateBookingStatus(_ context.Context, id string, status domain.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id || b.BookingID == id {
			b.Status = status
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "booking", ID: id}
}

// ============================================================
// MoneyStore
// ============================================================

func (f *fakeStore) CreateInstallment(_ context.Context, in *domain.Installment) (*domain.Installment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installments = append(f.installments, in)
	f.lastIDs["installments"] = in.InstallmentID
	return in, nil
}

func (f *fakeStore) ListInstallments(_ context.Context, groupID, memberID string, status domain.InstallmentStatus) ([]domain.Installment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Installment
	for _, in := range f.installments {
		if groupID != "" && in.GroupID != groupID {
			continue
		}
		if memberID != "" && in.MemberID != memberID {
			continue
		}
		if status != "" && in.Status != status {
			continue
		}
		out = append(out, *in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	return out, nil
}

func (f *fakeStore) GetInstallment(_ context.Context, id string) (*domain.Installment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range f.installments {
		if in.ID == id || in.InstallmentID == id {
			cp := *in
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "installment", ID: id}
}

func (f *fakeStore) UpdateInstallment(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range f.installments {
		if in.ID == id || in.InstallmentID == id {
			if v, ok := updates["status"].(domain.InstallmentStatus); ok {
				in.Status = v
			}
			if v, ok := updates["paid_amount"].(decimal.Decimal); ok {
				in.PaidAmount = v
			}
			if v, ok := updates["pending_amount"].(decimal.Decimal); ok {
				in.PendingAmount = v
			}
			if v, ok := updates["late_fee"].(decimal.Decimal); ok {
				in.LateFee = v
			}
			if v, ok := updates["payment_mode"].(string); ok {
				in.PaymentMode = v
			}
			if v, ok := updates["collected_by"].(string); ok {
				in.CollectedBy = v
			}
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "installment", ID: id}
}

func (f *fakeStore) ListOverdueInstallments(_ context.Context, asOf string) ([]domain.Installment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Installment
	for _, in := range f.installments {
		if in.DueDate < asOf && in.PendingAmount.IsPositive() && in.Status != domain.InstallmentPaid {
			out = append(out, *in)
		}
	}
	return out, nil
}

func (f *fakeStore) CreatePayout(_ context.Context, p *domain.Payout) (*domain.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payouts = append(f.payouts, p)
	f.lastIDs["payouts"] = p.PayoutID
	return p, nil
}

func (f *fakeStore) ListPayouts(_ context.Context, groupID, memberID string, status domain.PayoutStatus) ([]domain.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Payout
	for _, p := range f.payouts {
		if groupID != "" && p.GroupID != groupID {
			continue
		}
		if memberID != "" && p.MemberID != memberID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) GetPayout(_ context.Context, id string) (*domain.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payouts {
		if p.ID == id || p.PayoutID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "payout", ID: id}
}

func (f *fakeStore) UpdatePayout(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payouts {
		if p.ID == id || p.PayoutID == id {
			if v, ok := updates["status"].(domain.PayoutStatus); ok {
				p.Status = v
			}
			if v, ok := updates["transaction_id"].(string); ok {
				p.TransactionID = v
			}
			if v, ok := updates["paid_date"].(string); ok {
				p.PaidDate = v
			}
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "payout", ID: id}
}

func (f *fakeStore) CreateTransaction(_ context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = append(f.transactions, t)
	f.lastIDs["transactions"] = t.TransactionID
	return t, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, memberID, groupID string, _, _ int) ([]domain.Transaction, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Transaction
	for _, t := range f.transactions {
		if memberID != "" && t.MemberID != memberID {
			continue
		}
		if groupID != "" && t.GroupID != groupID {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (f *fakeStore) GetTransaction(_ context.Context, id string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.transactions {
		if t.ID == id || t.TransactionID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "transaction", ID: id}
}

func (f *fakeStore) UpdateTransaction(_ context.Context, id string, updates map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.transactions {
		if t.ID == id || t.TransactionID == id {
			if v, ok := updates["status"].(domain.TransactionStatus); ok {
				t.Status = v
			}
			if v, ok := updates["related_transaction_id"].(string); ok {
				t.RelatedTransactionID = v
			}
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "transaction", ID: id}
}

func (f *fakeStore) CreateReceipt(_ context.Context, r *domain.Receipt) (*domain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts = append(f.receipts, r)
	f.lastIDs["receipts"] = r.ReceiptID
	if idx := len(r.ReceiptNo); idx > 0 {
		f.lastReceiptNo[r.ReceiptNo[:3]] = r.ReceiptNo
	}
	return r, nil
}

func (f *fakeStore) ListReceipts(_ context.Context, memberID, branchID string, _, _ int) ([]domain.Receipt, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Receipt
	for _, r := range f.receipts {
		if memberID != "" && r.MemberID != memberID {
			continue
		}
		if branchID != "" && r.BranchID != branchID {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (f *fakeStore) GetReceipt(_ context.Context, id string) (*domain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.receipts {
		if r.ID == id || r.ReceiptID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "receipt", ID: id}
}

func (f *fakeStore) CreateLedgerEntry(_ context.Context, e *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ledger = append(f.ledger, e)
	f.lastIDs["ledger_entries"] = e.LedgerID
	return e, nil
}

func (f *fakeStore) ListLedgerEntries(_ context.Context, memberID string, _, _ int) ([]domain.LedgerEntry, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range f.ledger {
		if e.MemberID == memberID {
			out = append(out, *e)
		}
	}
	return out, len(out), nil
}

func (f *fakeStore) GetLatestLedgerEntry(_ context.Context, memberID string) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.ledger) - 1; i >= 0; i-- {
		if f.ledger[i].MemberID == memberID {
			cp := *f.ledger[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListLedgerEntriesBetween(_ context.Context, memberID, from, to string) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range f.ledger {
		if e.MemberID == memberID && e.Date >= from && e.Date <= to {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) CountMembers(_ context.Context, branchID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.members {
		if m.Active && (branchID == "" || m.BranchID == branchID) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountGroupsByStatus(_ context.Context, status domain.GroupStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, g := range f.groups {
		if g.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountPayoutsByStatus(_ context.Context, status domain.PayoutStatus) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.payouts {
		if p.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) SumReceiptsOn(_ context.Context, date string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := decimal.Zero
	for _, r := range f.receipts {
		if r.CreatedAt.Format("2006-01-02") == date {
			sum = sum.Add(r.Amount)
		}
	}
	return sum, nil
}

// ============================================================
// NotificationStore
// ============================================================

func (f *fakeStore) CreateNotification(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	f.lastIDs["notifications"] = n.NotificationID
	return n, nil
}

func (f *fakeStore) ListNotifications(_ context.Context, memberID string, unreadOnly bool, _, _ int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.notifications {
		if memberID != "" && n.MemberID != memberID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (f *fakeStore) MarkNotificationRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id || n.NotificationID == id {
			n.Read = true
			return nil
		}
	}
	return &domain.ErrNotFound{Resource: "notification", ID: id}
}

// ============================================================
// AuthStore (refresh tokens)
// ============================================================

func (f *fakeStore) StoreRefreshToken(_ context.Context, employeeID, tokenHash string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshTokens = append(f.refreshTokens, &domain.AuthRefreshToken{
		EmployeeID: employeeID,
		TokenHash:  tokenHash,
		ExpiresAt:  expiresAt,
	})
	return nil
}

func (f *fakeStore) GetRefreshToken(_ context.Context, tokenHash string) (*domain.AuthRefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.refreshTokens {
		if t.TokenHash == tokenHash && !t.Revoked {
			cp := *t
			return &cp, nil
		}
	}
	return nil, &domain.ErrUnauthorized{Message: "refresh token not recognized"}
}

func (f *fakeStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.refreshTokens {
		if t.TokenHash == tokenHash {
			t.Revoked = true
		}
	}
	return nil
}

func (f *fakeStore) RevokeAllRefreshTokens(_ context.Context, employeeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.refreshTokens {
		if t.EmployeeID == employeeID {
			t.Revoked = true
		}
	}
	return nil
}
