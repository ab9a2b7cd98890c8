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
)

var groupTracer = otel.Tracer("service/group")

// GroupService manages group lifecycle: Forming -> Active -> Completed,
// member assignment to payout months, and month advancement.
type GroupService struct {
	store   port.SchemeStore
	dir     port.DirectoryStore
	schemes *SchemeService
	seq     *Sequencer
	logger  *zap.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(store port.SchemeStore, dir port.DirectoryStore, schemes *SchemeService, seq *Sequencer, logger *zap.Logger) *GroupService {
	return &GroupService{store: store, dir: dir, schemes: schemes, seq: seq, logger: logger}
}

func (s *GroupService) CreateGroup(ctx context.Context, req *domain.CreateGroupRequest) (*domain.Group, error) {
	ctx, span := groupTracer.Start(ctx, "GroupService.CreateGroup")
	defer span.End()

	if strings.TrimSpace(req.Name) == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "group name is required"}
	}

	scheme, err := s.schemes.GetScheme(ctx, req.SchemeID)
	if err != nil {
		return nil, err
	}
	branch, err := s.dir.GetBranch(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}

	groupID, err := s.seq.Next(ctx, "groups", "group_id", "GRP")
	if err != nil {
		return nil, err
	}

	group := &domain.Group{
		ID:           uuid.NewString(),
		GroupID:      groupID,
		SchemeID:     scheme.SchemeID,
		BranchID:     branch.BranchID,
		Name:         req.Name,
		Status:       domain.GroupForming,
		CurrentMonth: 0,
		StartDate:    req.StartDate,
	}

	created, err := s.store.CreateGroup(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info("group created",
		zap.String("group_id", created.GroupID),
		zap.String("scheme_id", created.SchemeID),
	)
	return created, nil
}

func (s *GroupService) ListGroups(ctx context.Context, branchID string, status domain.GroupStatus) ([]domain.Group, error) {
	ctx, span := groupTracer.Start(ctx, "GroupService.ListGroups")
	defer span.End()

	return s.store.ListGroups(ctx, branchID, status)
}

func (s *GroupService) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	ctx, span := groupTracer.Start(ctx, "GroupService.GetGroup")
	defer span.End()

	return s.store.GetGroup(ctx, id)
}

func (s *GroupService) UpdateGroup(ctx context.Context, id string, updates map[string]any) (*domain.Group, error) {
	ctx, span := groupTracer.Start(ctx, "GroupService.UpdateGroup")
	defer span.End()

	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := filterUpdates(updates, "name", "start_date")
	if len(allowed) == 0 {
		return nil, &domain.ErrValidation{Field: "body", Message: "no updatable fields"}
	}
	if err := s.store.UpdateGroup(ctx, group.GroupID, allowed); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return s.store.GetGroup(ctx, group.GroupID)
}

// DeleteGroup removes a group that never started collecting.
func (s *GroupService) DeleteGroup(ctx context.Context, id string) error {
	ctx, span := groupTracer.Start(ctx, "GroupService.DeleteGroup")
	defer span.End()

	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	if group.Status != domain.GroupForming {
		return &domain.ErrBusinessRule{
			Rule:    "group_started",
			Message: fmt.Sprintf("group %s is %s and cannot be deleted", group.GroupID, group.Status),
		}
	}
	if err := s.store.DeleteGroup(ctx, group.GroupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	s.logger.Info("group deleted", zap.String("group_id", group.GroupID))
	return nil
}

// ============================================================
// Membership
// ============================================================

func (s *GroupService) ListGroupMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	ctx, span := groupTracer.Start(ctx, "GroupService.ListGroupMembers")
	defer span.End()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return s.store.ListGroupMembers(ctx, group.GroupID)
}

// AddMember assigns a member to a payout month. The month must lie within
// the scheme duration and be unassigned; reaching the scheme's minimum
// member count flips the group from Forming to Active.
func (s *GroupService) AddMember(ctx context.Context, groupID string, req *domain.AddGroupMemberRequest) (*domain.GroupMember, error) {
	ctx, span := groupTracer.Start(ctx, "GroupService.AddMember")
	defer span.End()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Status == domain.GroupCompleted {
		return nil, &domain.ErrBusinessRule{
			Rule:    "group_completed",
			Message: fmt.Sprintf("group %s is completed", group.GroupID),
		}
	}

	member, err := s.dir.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	scheme, err := s.schemes.GetScheme(ctx, group.SchemeID)
	if err != nil {
		return nil, err
	}

	if req.PayoutMonth < 1 || req.PayoutMonth > scheme.DurationMonths {
		return nil, &domain.ErrValidation{
			Field:   "payout_month",
			Message: fmt.Sprintf("payout month must be between 1 and %d", scheme.DurationMonths),
		}
	}

	existing, err := s.store.ListGroupMembers(ctx, group.GroupID)
	if err != nil {
		return nil, fmt.Errorf("list group members: %w", err)
	}
	if len(existing) >= scheme.MaxMembers {
		return nil, &domain.ErrBusinessRule{
			Rule:    "group_full",
			Message: fmt.Sprintf("group %s already has %d members", group.GroupID, len(existing)),
		}
	}
	for _, gm := range existing {
		if gm.MemberID == member.MemberID {
			return nil, &domain.ErrBusinessRule{
				Rule:    "duplicate_member",
				Message: fmt.Sprintf("member %s already belongs to group %s", member.MemberID, group.GroupID),
			}
		}
		if gm.PayoutMonth == req.PayoutMonth {
			return nil, &domain.ErrBusinessRule{
				Rule:    "payout_month_taken",
				Message: fmt.Sprintf("payout month %d is already assigned in group %s", req.PayoutMonth, group.GroupID),
			}
		}
	}

	gm := &domain.GroupMember{
		ID:          uuid.NewString(),
		GroupID:     group.GroupID,
		MemberID:    member.MemberID,
		PayoutMonth: req.PayoutMonth,
	}
	added, err := s.store.AddGroupMember(ctx, gm)
	if err != nil {
		return nil, fmt.Errorf("add group member: %w", err)
	}

	if group.Status == domain.GroupForming && len(existing)+1 >= scheme.MinMembers {
		if err := s.store.UpdateGroup(ctx, group.GroupID, map[string]any{"status": domain.GroupActive}); err != nil {
			return nil, fmt.Errorf("activate group: %w", err)
		}
		s.logger.Info("group activated",
			zap.String("group_id", group.GroupID),
			zap.Int("members", len(existing)+1),
		)
	}

	s.logger.Info("member added to group",
		zap.String("group_id", group.GroupID),
		zap.String("member_id", member.MemberID),
		zap.Int("payout_month", req.PayoutMonth),
	)
	return added, nil
}

// RemoveMember drops a member from a group. Falling below the scheme's
// minimum reverts an Active group to Forming.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, memberID string) error {
	ctx, span := groupTracer.Start(ctx, "GroupService.RemoveMember")
	defer span.End()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	member, err := s.dir.GetMember(ctx, memberID)
	if err != nil {
		return err
	}

	existing, err := s.store.ListGroupMembers(ctx, group.GroupID)
	if err != nil {
		return fmt.Errorf("list group members: %w", err)
	}
	found := false
	for _, gm := range existing {
		if gm.MemberID == member.MemberID {
			found = true
			break
		}
	}
	if !found {
		return &domain.ErrNotFound{Resource: "group member", ID: member.MemberID}
	}

	if err := s.store.RemoveGroupMember(ctx, group.GroupID, member.MemberID); err != nil {
		return fmt.Errorf("remove group member: %w", err)
	}

	scheme, err := s.schemes.GetScheme(ctx, group.SchemeID)
	if err != nil {
		return err
	}
	if group.Status == domain.GroupActive && len(existing)-1 < scheme.MinMembers {
		if err := s.store.UpdateGroup(ctx, group.GroupID, map[string]any{"status": domain.GroupForming}); err != nil {
			return fmt.Errorf("revert group status: %w", err)
		}
		s.logger.Info("group reverted to forming",
			zap.String("group_id", group.GroupID),
			zap.Int("members", len(existing)-1),
		)
	}

	s.logger.Info("member removed from group",
		zap.String("group_id", group.GroupID),
		zap.String("member_id", member.MemberID),
	)
	return nil
}

// AdvanceMonth moves an Active group forward one rotation month. Reaching
// the scheme duration completes the group.
func (s *GroupService) AdvanceMonth(ctx context.Context, groupID string) (*domain.Group, error) {
	ctx, span := groupTracer.Start(ctx, "GroupService.AdvanceMonth")
	defer span.End()

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.Status != domain.GroupActive {
		return nil, &domain.ErrBusinessRule{
			Rule:    "group_not_active",
			Message: fmt.Sprintf("group %s is %s, only active groups advance", group.GroupID, group.Status),
		}
	}

	scheme, err := s.schemes.GetScheme(ctx, group.SchemeID)
	if err != nil {
		return nil, err
	}

	// At the scheme duration the group completes; the month stays put.
	var updates map[string]any
	if group.CurrentMonth >= scheme.DurationMonths {
		updates = map[string]any{"status": domain.GroupCompleted}
	} else {
		updates = map[string]any{"current_month": group.CurrentMonth + 1}
	}
	if err := s.store.UpdateGroup(ctx, group.GroupID, updates); err != nil {
		return nil, fmt.Errorf("advance group month: %w", err)
	}

	advanced, err := s.store.GetGroup(ctx, group.GroupID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("group month advanced",
		zap.String("group_id", advanced.GroupID),
		zap.Int("current_month", advanced.CurrentMonth),
		zap.String("status", string(advanced.Status)),
	)
	return advanced, nil
}
