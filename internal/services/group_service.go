package services

import (
	"context"
	"fmt"

	"focolare/internal/core"
	"focolare/internal/storage"
)

// GroupService manages shared groups and their invite lifecycle.
type GroupService struct {
	store storage.Store
	gate  *Gate
}

func NewGroupService(store storage.Store, gate *Gate) *GroupService {
	return &GroupService{store: store, gate: gate}
}

// CreateShared creates a shared group with the caller as host. The host's
// membership starts accepted; there is no self-invite step.
func (s *GroupService) CreateShared(ctx context.Context, userID string, group *core.Group) (*core.Group, error) {
	group.Kind = core.GroupShared
	group.HostID = userID
	if group.BudgetStartDay == 0 {
		group.BudgetStartDay = 1
	}
	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.InsertGroup(ctx, group); err != nil {
		return nil, err
	}
	membership := &core.Membership{
		GroupID: group.ID,
		UserID:  userID,
		Status:  core.MembershipAccepted,
		Role:    core.RoleHost,
	}
	if err := s.store.InsertMembership(ctx, membership); err != nil {
		return nil, err
	}
	return group, nil
}

// ListMine returns every group the caller is an accepted member of.
func (s *GroupService) ListMine(ctx context.Context, userID string) ([]core.Group, error) {
	return s.store.ListGroupsByUser(ctx, userID)
}

func (s *GroupService) FindByID(ctx context.Context, userID, groupID string) (*core.Group, error) {
	if err := s.gate.VerifyAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.FindGroupByID(ctx, groupID)
}

// UpdateSettings renames the group or tunes its color and budget cycle.
// Host only.
func (s *GroupService) UpdateSettings(ctx context.Context, userID, groupID, name, jointColor string, budgetStartDay int) (*core.Group, error) {
	group, err := s.store.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.HostID != userID {
		return nil, fmt.Errorf("%w: only the host may change group settings", core.ErrAccessDenied)
	}

	group.Name = name
	group.JointColor = jointColor
	group.BudgetStartDay = budgetStartDay
	if err := group.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// Invite adds an invited membership for the user with the given email.
// Host only; inviting an existing member (or re-inviting) is rejected.
func (s *GroupService) Invite(ctx context.Context, hostID, groupID, email string) (*core.Membership, error) {
	group, err := s.store.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.HostID != hostID {
		return nil, fmt.Errorf("%w: only the host may invite", core.ErrAccessDenied)
	}
	invitee, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	membership := &core.Membership{
		GroupID: groupID,
		UserID:  invitee.ID,
		Status:  core.MembershipInvited,
		Role:    core.RoleGuest,
	}
	if err := s.store.InsertMembership(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// AcceptInvite flips the caller's membership from invited to accepted.
// Fails when the group is already at its member cap.
func (s *GroupService) AcceptInvite(ctx context.Context, userID, groupID string) error {
	membership, err := s.store.FindMembership(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if membership.Status == core.MembershipAccepted {
		return nil
	}

	count, err := s.store.CountAcceptedMembers(ctx, groupID)
	if err != nil {
		return err
	}
	if count >= core.MaxGroupMembers {
		return fmt.Errorf("%w: group %s already has %d members", core.ErrGroupFull, groupID, count)
	}
	return s.store.UpdateMembershipStatus(ctx, groupID, userID, core.MembershipAccepted)
}

func (s *GroupService) ListMembers(ctx context.Context, userID, groupID string) ([]core.Membership, error) {
	if err := s.gate.VerifyAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, groupID)
}

// ListActivity returns the most recent activity feed entries, gated.
func (s *GroupService) ListActivity(ctx context.Context, userID, groupID string, limit int) ([]core.Activity, error) {
	if err := s.gate.VerifyAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListActivitiesByGroup(ctx, groupID, limit)
}
