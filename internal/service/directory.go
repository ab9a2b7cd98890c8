package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var dirTracer = otel.Tracer("service/directory")

// DirectoryService manages branches, employees and members.
type DirectoryService struct {
	store  port.DirectoryStore
	groups port.SchemeStore
	seq    *Sequencer
	logger *zap.Logger
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(store port.DirectoryStore, groups port.SchemeStore, seq *Sequencer, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{store: store, groups: groups, seq: seq, logger: logger}
}

// ============================================================
// Branches
// ============================================================

func (s *DirectoryService) CreateBranch(ctx context.Context, req *domain.CreateBranchRequest) (*domain.Branch, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.CreateBranch")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "branch name is required"}
	}

	branchID, err := s.seq.Next(ctx, "branches", "branch_id", "BRN")
	if err != nil {
		return nil, err
	}

	branch := &domain.Branch{
		ID:       uuid.NewString(),
		BranchID: branchID,
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Active:   true,
	}

	created, err := s.store.CreateBranch(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("create branch: %w", err)
	}

	s.logger.Info("branch created", zap.String("branch_id", created.BranchID))
	return created, nil
}

func (s *DirectoryService) ListBranches(ctx context.Context, activeOnly bool) ([]domain.Branch, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.ListBranches")
	defer span.End()

	return s.store.ListBranches(ctx, activeOnly)
}

func (s *DirectoryService) GetBranch(ctx context.Context, id string) (*domain.Branch, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.GetBranch")
	defer span.End()

	return s.store.GetBranch(ctx, id)
}

func (s *DirectoryService) UpdateBranch(ctx context.Context, id string, updates map[string]any) (*domain.Branch, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.UpdateBranch")
	defer span.End()

	branch, err := s.store.GetBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := filterUpdates(updates, "name", "address", "phone", "active")
	if len(allowed) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no updatable fields"}
	}
	if err := s.store.UpdateBranch(ctx, branch.BranchID, allowed); err != nil {
		return nil, fmt.Errorf("update branch: %w", err)
	}
	return s.store.GetBranch(ctx, branch.BranchID)
}

// DeactivateBranch soft-deactivates; branches are never deleted.
func (s *DirectoryService) DeactivateBranch(ctx context.Context, id string) error {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.DeactivateBranch")
	defer span.End()

	branch, err := s.store.GetBranch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.UpdateBranch(ctx, branch.BranchID, map[string]any{"active": false}); err != nil {
		return fmt.Errorf("deactivate branch: %w", err)
	}

	s.logger.Info("branch deactivated", zap.String("branch_id", branch.BranchID))
	return nil
}

// ============================================================
// Employees
// ============================================================

func (s *DirectoryService) CreateEmployee(ctx context.Context, req *domain.CreateEmployeeRequest) (*domain.Employee, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.CreateEmployee")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "employee name is required"}
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "email is required"}
	}
	if len(req.Password) < 8 {
		return nil, &domain.ErrValidation{Field: "password", Message: "password must be at least 8 characters"}
	}
	if req.Role.Level() == 0 {
		return nil, &domain.ErrValidation{Field: "role", Message: "role must be admin, manager or employee"}
	}

	// Branch must exist before we attach staff to it.
	branch, err := s.store.GetBranch(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	employeeID, err := s.seq.Next(ctx, "employees", "employee_id", "EMP")
	if err != nil {
		return nil, err
	}

	emp := &domain.Employee{
		ID:           uuid.NewString(),
		EmployeeID:   employeeID,
		BranchID:     branch.BranchID,
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		Role:         req.Role,
		PasswordHash: string(hash),
		Active:       true,
	}

	created, err := s.store.CreateEmployee(ctx, emp)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}

	s.logger.Info("employee created",
		zap.String("employee_id", created.EmployeeID),
		zap.String("branch_id", created.BranchID),
		zap.String("role", string(created.Role)),
	)
	return created, nil
}

func (s *DirectoryService) ListEmployees(ctx context.Context, branchID string) ([]domain.Employee, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.ListEmployees")
	defer span.End()

	return s.store.ListEmployees(ctx, branchID)
}

func (s *DirectoryService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.GetEmployee")
	defer span.End()

	return s.store.GetEmployee(ctx, id)
}

func (s *DirectoryService) UpdateEmployee(ctx context.Context, id string, updates map[string]any) (*domain.Employee, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.UpdateEmployee")
	defer span.End()

	emp, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := filterUpdates(updates, "name", "phone", "role", "active", "branch_id")
	if len(allowed) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no updatable fields"}
	}
	if role, ok := allowed["role"]; ok {
		if domain.Role(fmt.Sprint(role)).Level() == 0 {
			return nil, &domain.ErrValidation{Field: "role", Message: "role must be admin, manager or employee"}
		}
	}
	if err := s.store.UpdateEmployee(ctx, emp.EmployeeID, allowed); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}
	return s.store.GetEmployee(ctx, emp.EmployeeID)
}

// ============================================================
// Members
// ============================================================

func (s *DirectoryService) CreateMember(ctx context.Context, req *domain.CreateMemberRequest) (*domain.Member, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.CreateMember")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "member name is required"}
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, &domain.ErrValidation{Field: "phone", Message: "phone is required"}
	}

	branch, err := s.store.GetBranch(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}

	memberID, err := s.seq.Next(ctx, "members", "member_id", "MEM")
	if err != nil {
		return nil, err
	}

	member := &domain.Member{
		ID:       uuid.NewString(),
		MemberID: memberID,
		BranchID: branch.BranchID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Nominee:  req.Nominee,
		Active:   true,
	}

	created, err := s.store.CreateMember(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("create member: %w", err)
	}

	s.logger.Info("member created",
		zap.String("member_id", created.MemberID),
		zap.String("branch_id", created.BranchID),
	)
	return created, nil
}

func (s *DirectoryService) ListMembers(ctx context.Context, branchID string, page, pageSize int) ([]domain.Member, int, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.ListMembers")
	defer span.End()

	return s.store.ListMembers(ctx, branchID, page, pageSize)
}

func (s *DirectoryService) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.GetMember")
	defer span.End()

	return s.store.GetMember(ctx, id)
}

func (s *DirectoryService) UpdateMember(ctx context.Context, id string, updates map[string]any) (*domain.Member, error) {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.UpdateMember")
	defer span.End()

	member, err := s.store.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := filterUpdates(updates, "name", "email", "phone", "address", "nominee", "active")
	if len(allowed) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no updatable fields"}
	}
	if err := s.store.UpdateMember(ctx, member.MemberID, allowed); err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.store.GetMember(ctx, member.MemberID)
}

// DeleteMember removes a member. Members with group memberships cannot be
// deleted; deactivate instead.
func (s *DirectoryService) DeleteMember(ctx context.Context, id string) error {
	ctx, span := dirTracer.Start(ctx, "DirectoryService.DeleteMember")
	defer span.End()

	member, err := s.store.GetMember(ctx, id)
	if err != nil {
		return err
	}

	memberships, err := s.groups.ListMemberGroups(ctx, member.MemberID)
	if err != nil {
		return fmt.Errorf("list member groups: %w", err)
	}
	if len(memberships) > 0 {
		return &domain.ErrBusinessRule{
			Rule:    "member_in_group",
			Message: fmt.Sprintf("member %s belongs to %d group(s) and cannot be deleted", member.MemberID, len(memberships)),
		}
	}

	if err := s.store.DeleteMember(ctx, member.MemberID); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}

	s.logger.Info("member deleted", zap.String("member_id", member.MemberID))
	return nil
}

// filterUpdates keeps only the allowed keys of a free-form update payload.
func filterUpdates(updates map[string]any, allowed ...string) map[string]any {
	out := map[string]any{}
	for _, k := range allowed {
		if v, ok := updates[k]; ok {
			out[k] = v
		}
	}
	return out
}
