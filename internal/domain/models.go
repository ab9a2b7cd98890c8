// Package domain holds the entity types and request/response shapes for the
// chit fund administration API. All money fields use shopspring decimal —
// balances and fees are never computed in floating point.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role is the employee role used for route authorization.
// Admin > Manager > Employee.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Level returns the numeric rank of the role for gate comparisons.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleEmployee:
		return 1
	}
	return 0
}

// Branch is a physical office administering schemes.
// Branches are soft-deactivated, never deleted.
type Branch struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"` // BRN001, BRN002...
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Employee is a staff member who collects payments and manages groups.
type Employee struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"` // EMP001...
	BranchID     string    `json:"branch_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Member is a customer participating in chit schemes.
type Member struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"` // MEM001...
	BranchID  string    `json:"branch_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Nominee   string    `json:"nominee,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBranchRequest is the payload for POST /v1/branches.
type CreateBranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// CreateEmployeeRequest is the payload for POST /v1/employees.
type CreateEmployeeRequest struct {
	BranchID string `json:"branch_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}

// CreateMemberRequest is the payload for POST /v1/members.
type CreateMemberRequest struct {
	BranchID string `json:"branch_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Nominee  string `json:"nominee"`
}

// Notification is an in-app message for a member (due reminders, payouts...).
type Notification struct {
	ID             string    `json:"id"`
	NotificationID string    `json:"notification_id"` // NTF001...
	MemberID       string    `json:"member_id,omitempty"`
	EmployeeID     string    `json:"employee_id,omitempty"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Kind           string    `json:"kind,omitempty"` // due_reminder, overdue, payout...
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// DashboardSummary aggregates branch-level figures for the reports endpoint.
type DashboardSummary struct {
	Members            int             `json:"members"`
	ActiveGroups       int             `json:"active_groups"`
	PendingPayouts     int             `json:"pending_payouts"`
	OverdueInstallment int             `json:"overdue_installments"`
	CollectedToday     decimal.Decimal `json:"collected_today"`
	GeneratedAt        time.Time       `json:"generated_at"`
}
