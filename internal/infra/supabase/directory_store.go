package supabase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tvsubram/chitfund-api/internal/domain"
)

// ============================================================
// Branches, Employees, Members
// ============================================================

// eitherFilter builds a PostgREST filter matching either the row id or the
// human-readable sequential id. Routes accept both interchangeably.
func eitherFilter(humanCol, id string) string {
	v := url.QueryEscape(id)
	return fmt.Sprintf("or=(id.eq.%s,%s.eq.%s)", v, humanCol, v)
}

// --- Branches ---

func (c *Client) CreateBranch(ctx context.Context, b *domain.Branch) (*domain.Branch, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBranch")
	defer span.End()

	data := map[string]any{
		"id":        b.ID,
		"branch_id": b.BranchID,
		"name":      b.Name,
		"address":   b.Address,
		"phone":     b.Phone,
		"active":    b.Active,
	}

	body, err := c.doPost(ctx, "branches", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Branch](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return b, nil
	}
	return row, nil
}

func (c *Client) ListBranches(ctx context.Context, activeOnly bool) ([]domain.Branch, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListBranches")
	defer span.End()

	path := "branches?order=branch_id.asc"
	if activeOnly {
		path += "&active=eq.true"
	}

	var rows []domain.Branch
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) GetBranch(ctx context.Context, id string) (*domain.Branch, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetBranch")
	defer span.End()

	path := fmt.Sprintf("branches?%s&limit=1", eitherFilter("branch_id", id))
	var rows []domain.Branch
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "branch", ID: id}
	}
	return &rows[0], nil
}

func (c *Client) UpdateBranch(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateBranch")
	defer span.End()

	path := fmt.Sprintf("branches?%s", eitherFilter("branch_id", id))
	return c.doPatch(ctx, path, updates)
}

// --- Employees ---

func (c *Client) CreateEmployee(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateEmployee")
	defer span.End()

	data := map[string]any{
		"id":            e.ID,
		"employee_id":   e.EmployeeID,
		"branch_id":     e.BranchID,
		"name":          e.Name,
		"email":         e.Email,
		"phone":         e.Phone,
		"role":          e.Role,
		"password_hash": e.PasswordHash,
		"active":        e.Active,
	}

	body, err := c.doPost(ctx, "employees", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[supabaseEmployee](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return e, nil
	}
	return row.toDomain(), nil
}

func (c *Client) ListEmployees(ctx context.Context, branchID string) ([]domain.Employee, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListEmployees")
	defer span.End()

	path := "employees?order=employee_id.asc"
	if branchID != "" {
		path += "&branch_id=eq." + url.QueryEscape(branchID)
	}

	var rows []supabaseEmployee
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Employee, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.toDomain())
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetEmployee")
	defer span.End()

	path := fmt.Sprintf("employees?%s&limit=1", eitherFilter("employee_id", id))
	var rows []supabaseEmployee
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "employee", ID: id}
	}
	return rows[0].toDomain(), nil
}

func (c *Client) GetEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetEmployeeByEmail")
	defer span.End()

	path := fmt.Sprintf("employees?email=eq.%s&limit=1", url.QueryEscape(email))
	var rows []supabaseEmployee
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "employee", ID: email}
	}
	return rows[0].toDomain(), nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateEmployee")
	defer span.End()

	path := fmt.Sprintf("employees?%s", eitherFilter("employee_id", id))
	return c.doPatch(ctx, path, updates)
}

// supabaseEmployee carries the password_hash column, which the domain type
// never serializes.
type supabaseEmployee struct {
	domain.Employee
	PasswordHash string `json:"password_hash"`
}

func (r *supabaseEmployee) toDomain() *domain.Employee {
	e := r.Employee
	e.PasswordHash = r.PasswordHash
	return &e
}

// --- Members ---

func (c *Client) CreateMember(ctx context.Context, m *domain.Member) (*domain.Member, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateMember")
	defer span.End()

	data := map[string]any{
		"id":        m.ID,
		"member_id": m.MemberID,
		"branch_id": m.BranchID,
		"name":      m.Name,
		"email":     m.Email,
		"phone":     m.Phone,
		"address":   m.Address,
		"nominee":   m.Nominee,
		"active":    m.Active,
	}

	body, err := c.doPost(ctx, "members", data)
	if err != nil {
		return nil, err
	}
	row, err := decodeOne[domain.Member](body)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return m, nil
	}
	return row, nil
}

func (c *Client) ListMembers(ctx context.Context, branchID string, page, pageSize int) ([]domain.Member, int, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListMembers")
	defer span.End()

	filter := ""
	if branchID != "" {
		filter = "&branch_id=eq." + url.QueryEscape(branchID)
	}

	offset := (page - 1) * pageSize
	path := fmt.Sprintf("members?order=member_id.asc&limit=%d&offset=%d%s", pageSize, offset, filter)
	var rows []domain.Member
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, 0, err
	}

	// Count query: ids only, cheap enough for this scale.
	var ids []struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, "members?select=id"+filter, &ids); err != nil {
		return nil, 0, err
	}
	return rows, len(ids), nil
}

func (c *Client) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetMember")
	defer span.End()

	path := fmt.Sprintf("members?%s&limit=1", eitherFilter("member_id", id))
	var rows []domain.Member
	if err := c.getJSON(ctx, path, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "member", ID: id}
	}
	return &rows[0], nil
}

func (c *Client) UpdateMember(ctx context.Context, id string, updates map[string]any) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateMember")
	defer span.End()

	path := fmt.Sprintf("members?%s", eitherFilter("member_id", id))
	return c.doPatch(ctx, path, updates)
}

func (c *Client) DeleteMember(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteMember")
	defer span.End()

	path := fmt.Sprintf("members?%s", eitherFilter("member_id", id))
	return c.doDelete(ctx, path)
}
