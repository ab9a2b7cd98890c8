package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SchemeFrequency controls how installment periods are labelled.
type SchemeFrequency string

const (
	FrequencyMonthly SchemeFrequency = "Monthly"
	FrequencyWeekly  SchemeFrequency = "Weekly"
	FrequencyDaily   SchemeFrequency = "Daily"
)

// Scheme is a fixed-duration rotating savings pool: a total payout amount
// funded by members paying periodic installments.
type Scheme struct {
	ID                string          `json:"id"`
	SchemeID          string          `json:"scheme_id"` // SCH001...
	Name              string          `json:"name"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	DurationMonths    int             `json:"duration_months"`
	MinMembers        int             `json:"min_members"`
	MaxMembers        int             `json:"max_members"`
	Frequency         SchemeFrequency `json:"frequency"`
	CommissionRate    decimal.Decimal `json:"commission_rate"`
	LateFeeRate       decimal.Decimal `json:"late_fee_rate"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
}

// GroupStatus tracks the cohort lifecycle: Forming -> Active -> Completed.
type GroupStatus string

const (
	GroupForming   GroupStatus = "Forming"
	GroupActive    GroupStatus = "Active"
	GroupCompleted GroupStatus = "Completed"
)

// Group is a cohort of members rotating through a scheme, each assigned a
// unique payout month in [1, scheme duration].
type Group struct {
	ID           string      `json:"id"`
	GroupID      string      `json:"group_id"` // GRP001...
	SchemeID     string      `json:"scheme_id"`
	BranchID     string      `json:"branch_id"`
	Name         string      `json:"name"`
	Status       GroupStatus `json:"status"`
	CurrentMonth int         `json:"current_month"`
	StartDate    string      `json:"start_date,omitempty"` // YYYY-MM-DD
	CreatedAt    time.Time   `json:"created_at"`
}

// GroupMember links a member into a group with their assigned payout month.
type GroupMember struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	MemberID    string    `json:"member_id"`
	PayoutMonth int       `json:"payout_month"`
	JoinedAt    time.Time `json:"joined_at"`
}

// BookingStatus tracks a seat reservation before the member joins a group.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingRejected  BookingStatus = "Rejected"
	BookingCancelled BookingStatus = "Cancelled"
)

// Booking reserves a payout month in a group for a member. Confirming a
// booking adds the member to the group.
type Booking struct {
	ID          string        `json:"id"`
	BookingID   string        `json:"booking_id"` // BKG001...
	MemberID    string        `json:"member_id"`
	GroupID     string        `json:"group_id"`
	SchemeID    string        `json:"scheme_id"`
	PayoutMonth int           `json:"payout_month"`
	Status      BookingStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CreateSchemeRequest is the payload for POST /v1/schemes.
type CreateSchemeRequest struct {
	Name              string          `json:"name"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	DurationMonths    int             `json:"duration_months"`
	MinMembers        int             `json:"min_members"`
	MaxMembers        int             `json:"max_members"`
	Frequency         SchemeFrequency `json:"frequency"`
	CommissionRate    decimal.Decimal `json:"commission_rate"`
	LateFeeRate       decimal.Decimal `json:"late_fee_rate"`
}

// CreateGroupRequest is the payload for POST /v1/groups.
type CreateGroupRequest struct {
	SchemeID  string `json:"scheme_id"`
	BranchID  string `json:"branch_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
}

// AddGroupMemberRequest is the payload for POST /v1/groups/{groupId}/members.
type AddGroupMemberRequest struct {
	MemberID    string `json:"member_id"`
	PayoutMonth int    `json:"payout_month"`
}

// CreateBookingRequest is the payload for POST /v1/bookings.
type CreateBookingRequest struct {
	MemberID    string `json:"member_id"`
	GroupID     string `json:"group_id"`
	PayoutMonth int    `json:"payout_month"`
	Notes       string `json:"notes"`
}
