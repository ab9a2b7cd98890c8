package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tvsubram/chitfund-api/internal/domain"
)

// ============================================================
// Schemes, Groups, Group Members, Bookings
// ============================================================

// --- Schemes ---

func (c *Client) CreateScheme(ctx context.Context, s *domain.Scheme) (*domain.Scheme, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateScheme")
	defer span.End()

	data := map[string]any{
		"id":                 s.ID,
		"scheme_id":          s.SchemeID,
		"name":               s.Name,
		"total_amount":       s.TotalAmount,
		"installment_amount": s.InstallmentAmount,
		"duration_months":    s.DurationMonths,
		"min_members":        s.MinMembers,
		"max_members":        s.MaxMembers,
		"frequency":          s.Frequency,
		"commission_rate":    s.CommissionRate,
		"late_fee_rate":      s.LateFeeRate,
		"active":             s.Active,
	}

	body, err := c.doPost(ctx, "schemes", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Scheme](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return s, nil
	}
	return row, nil
}

func (c *Client) ListSchemes(ctx context.Context, activeOnly bool) ([]domain.Scheme, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListSchemes")
	defer span.End()

	path := "schemes?order=scheme_id.asc"
	if activeOnly {
		path += "&active=eq.true"
	}

	var rows []domain.Scheme
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) GetScheme(ctx context.Context, id string) (*domain.Scheme, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetScheme")
	defer span.End()

	path := fmt.Sprintf("schemes?%s&limit=1", eitherFilter("scheme_id", id))
	var rows []domain.Scheme
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "scheme", ID: id}
	}
	return &rows[0], nil
}

func (c *Client) UpdateScheme(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateScheme")
	defer span.End()

	path := fmt.Sprintf("schemes?%s", eitherFilter("scheme_id", id))
	return c.doPatch(ctx, path, updates)
}

// --- Groups ---

func (c *Client) CreateGroup(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateGroup")
	defer span.End()

	data := map[string]any{
		"id":            g.ID,
		"group_id":      g.GroupID,
		"scheme_id":     g.SchemeID,
		"branch_id":     g.BranchID,
		"name":          g.Name,
		"status":        g.Status,
		"current_month": g.CurrentMonth,
		"start_date":    g.StartDate,
	}

	body, err := c.doPost(ctx, "groups", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Group](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return g, nil
	}
	return row, nil
}

func (c *Client) ListGroups(ctx context.Context, branchID string, status domain.GroupStatus) ([]domain.Group, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListGroups")
	defer span.End()

	path := "groups?order=group_id.asc"
	if branchID != "" {
		path += "&branch_id=eq." + url.QueryEscape(branchID)
	}
	if status != "" {
		path += "&status=eq." + url.QueryEscape(string(status))
	}

	var rows []domain.Group
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetGroup")
	defer span.End()

	path := fmt.Sprintf("groups?%s&limit=1", eitherFilter("group_id", id))
	var rows []domain.Group
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "group", ID: id}
	}
	return &rows[0], nil
}

func (c *Client) UpdateGroup(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateGroup")
	defer span.End()

	path := fmt.Sprintf("groups?%s", eitherFilter("group_id", id))
	return c.doPatch(ctx, path, updates)
}

func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteGroup")
	defer span.End()

	path := fmt.Sprintf("groups?%s", eitherFilter("group_id", id))
	return c.doDelete(ctx, path)
}

// --- Group Members ---

func (c *Client) ListGroupMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListGroupMembers")
	defer span.End()

	path := fmt.Sprintf("group_members?group_id=eq.%s&order=payout_month.asc", url.QueryEscape(groupID))
	var rows []domain.GroupMember
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) ListMemberGroups(ctx context.Context, memberID string) ([]domain.GroupMember, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListMemberGroups")
	defer span.End()

	path := fmt.Sprintf("group_members?member_id=eq.%s", url.QueryEscape(memberID))
	var rows []domain.GroupMember
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) AddGroupMember(ctx context.Context, gm *domain.GroupMember) (*domain.GroupMember, error) {
	ctx, span := tracer.Start(ctx, "Supabase.AddGroupMember")
	defer span.End()

	data := map[string]any{
		"id":           gm.ID,
		"group_id":     gm.GroupID,
		"member_id":    gm.MemberID,
		"payout_month": gm.PayoutMonth,
	}

	body, err := c.doPost(ctx, "group_members", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.GroupMember](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return gm, nil
	}
	return row, nil
}

func (c *Client) RemoveGroupMember(ctx context.Context, groupID, memberID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RemoveGroupMember")
	defer span.End()

	path := fmt.Sprintf("group_members?group_id=eq.%s&member_id=eq.%s",
		url.QueryEscape(groupID), url.QueryEscape(memberID))
	return c.doDelete(ctx, path)
}

// --- Bookings ---

func (c *Client) CreateBooking(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBooking")
	defer span.End()

	data := map[string]any{
		"id":           b.ID,
		"booking_id":   b.BookingID,
		"member_id":    b.MemberID,
		"group_id":     b.GroupID,
		"scheme_id":    b.SchemeID,
		"payout_month": b.PayoutMonth,
		"status":       b.Status,
		"notes":        b.Notes,
	}

	body, err := c.doPost(ctx, "bookings", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Booking](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return b, nil
	}
	return row, nil
}

func (c *Client) ListBookings(ctx context.Context, groupID, memberID string) ([]domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBookings")
	defer span.End()

	path := "bookings?order=created_at.desc"
	if groupID != "" {
		path += "&group_id=eq." + url.QueryEscape(groupID)
	}
	if memberID != "" {
		path += "&member_id=eq." + url.QueryEscape(memberID)
	}

	var rows []domain.Booking
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetBooking")
	defer span.End()

	path := fmt.Sprintf("bookings?%s&limit=1", eitherFilter("booking_id", id))
	var rows []domain.Booking
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "booking", ID: id}
	}
	return &rows[0], nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateBookingStatus")
	defer span.End()

	path := fmt.Sprintf("bookings?%s", eitherFilter("booking_id", id))
	return c.doPatch(ctx, path, map[string]any{"status": status})
}
