// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from the concrete document-store implementation.
package port

import (
	"context"
	"time"

	"github.com/tvsubram/chitfund-api/internal/domain"

	"github.com/shopspring/decimal"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// SequenceStore exposes the "find lexicographically-last id" read that the
// sequential id generator chains on. The read and the subsequent write are
// not atomic; concurrent creations can race (known weakness, by contract).
type SequenceStore interface {
	GetLastID(ctx context.Context, table, column, prefix string) (string, error)
	GetLastReceiptNo(ctx context.Context, branchCode string) (string, error)
}

// DirectoryStore holds branches, employees and members.
// Get* lookups accept either the row id or the human-readable sequential id.
type DirectoryStore interface {
	CreateBranch(ctx context.Context, b *domain.Branch) (*domain.Branch, error)
	ListBranches(ctx context.Context, activeOnly bool) ([]domain.Branch, error)
	GetBranch(ctx context.Context, id string) (*domain.Branch, error)
	UpdateBranch(ctx context.Context, id string, updates map[string]any) error

	CreateEmployee(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	ListEmployees(ctx context.Context, branchID string) ([]domain.Employee, error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, id string, updates map[string]any) error

	CreateMember(ctx context.Context, m *domain.Member) (*domain.Member, error)
	ListMembers(ctx context.Context, branchID string, page, pageSize int) ([]domain.Member, int, error)
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	UpdateMember(ctx context.Context, id string, updates map[string]any) error
	DeleteMember(ctx context.Context, id string) error
}

// SchemeStore holds schemes, groups, group memberships and bookings.
type SchemeStore interface {
	CreateScheme(ctx context.Context, s *domain.Scheme) (*domain.Scheme, error)
	ListSchemes(ctx context.Context, activeOnly bool) ([]domain.Scheme, error)
	GetScheme(ctx context.Context, id string) (*domain.Scheme, error)
	UpdateScheme(ctx context.Context, id string, updates map[string]any) error

	CreateGroup(ctx context.Context, g *domain.Group) (*domain.Group, error)
	ListGroups(ctx context.Context, branchID string, status domain.GroupStatus) ([]domain.Group, error)
	GetGroup(ctx context.Context, id string) (*domain.Group, error)
	UpdateGroup(ctx context.Context, id string, updates map[string]any) error
	DeleteGroup(ctx context.Context, id string) error

	ListGroupMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error)
	ListMemberGroups(ctx context.Context, memberID string) ([]domain.GroupMember, error)
	AddGroupMember(ctx context.Context, gm *domain.GroupMember) (*domain.GroupMember, error)
	RemoveGroupMember(ctx context.Context, groupID, memberID string) error

	CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	ListBookings(ctx context.Context, groupID, memberID string) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) error
}

// MoneyStore holds installments, payouts, transactions, receipts and the
// ledger. All writes are independent read-then-write calls with no
// transactional guarantees spanning them.
type MoneyStore interface {
	CreateInstallment(ctx context.Context, in *domain.Installment) (*domain.Installment, error)
	ListInstallments(ctx context.Context, groupID, memberID string, status domain.InstallmentStatus) ([]domain.Installment, error)
	GetInstallment(ctx context.Context, id string) (*domain.Installment, error)
	UpdateInstallment(ctx context.Context, id string, updates map[string]any) error
	ListOverdueInstallments(ctx context.Context, asOf string) ([]domain.Installment, error)

	CreatePayout(ctx context.Context, p *domain.Payout) (*domain.Payout, error)
	ListPayouts(ctx context.Context, groupID, memberID string, status domain.PayoutStatus) ([]domain.Payout, error)
	GetPayout(ctx context.Context, id string) (*domain.Payout, error)
	UpdatePayout(ctx context.Context, id string, updates map[string]any) error

	CreateTransaction(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, memberID, groupID string, page, pageSize int) ([]domain.Transaction, int, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, updates map[string]any) error

	CreateReceipt(ctx context.Context, r *domain.Receipt) (*domain.Receipt, error)
	ListReceipts(ctx context.Context, memberID, branchID string, page, pageSize int) ([]domain.Receipt, int, error)
	GetReceipt(ctx context.Context, id string) (*domain.Receipt, error)

	CreateLedgerEntry(ctx context.Context, e *domain.LedgerEntry) (*domain.LedgerEntry, error)
	ListLedgerEntries(ctx context.Context, memberID string, page, pageSize int) ([]domain.LedgerEntry, int, error)
	GetLatestLedgerEntry(ctx context.Context, memberID string) (*domain.LedgerEntry, error)
	ListLedgerEntriesBetween(ctx context.Context, memberID, from, to string) ([]domain.LedgerEntry, error)

	CountMembers(ctx context.Context, branchID string) (int, error)
	CountGroupsByStatus(ctx context.Context, status domain.GroupStatus) (int, error)
	CountPayoutsByStatus(ctx context.Context, status domain.PayoutStatus) (int, error)
	SumReceiptsOn(ctx context.Context, date string) (decimal.Decimal, error)
}

// NotificationStore holds member/employee notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	ListNotifications(ctx context.Context, memberID string, unreadOnly bool, page, pageSize int) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// AuthStore holds employee credentials and refresh tokens.
type AuthStore interface {
	GetEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)

	StoreRefreshToken(ctx context.Context, employeeID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.AuthRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, employeeID string) error
}

// Store aggregates every persistence concern the services need. Implemented
// by the Supabase adapter (or any other document store).
type Store interface {
	SequenceStore
	DirectoryStore
	SchemeStore
	MoneyStore
	NotificationStore
	AuthStore
}
