package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"focolare/internal/core"
)

func (s *Store) InsertGroup(ctx context.Context, group *core.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, kind, host_id, joint_color, budget_start_day, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, string(group.Kind), group.HostID, group.JointColor,
		group.BudgetStartDay, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

func (s *Store) FindGroupByID(ctx context.Context, id string) (*core.Group, error) {
	var (
		group core.Group
		kind  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind, host_id, joint_color, budget_start_day, created_at
		 FROM groups WHERE id = ?`, id,
	).Scan(&group.ID, &group.Name, &kind, &group.HostID, &group.JointColor,
		&group.BudgetStartDay, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan group: %w", err)
	}
	group.Kind = core.GroupKind(kind)
	return &group, nil
}

func (s *Store) UpdateGroup(ctx context.Context, group *core.Group) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE groups SET name = ?, joint_color = ?, budget_start_day = ? WHERE id = ?`,
		group.Name, group.JointColor, group.BudgetStartDay, group.ID,
	)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrGroupNotFound
	}
	return nil
}

func (s *Store) ListGroupsByUser(ctx context.Context, userID string) ([]core.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.kind, g.host_id, g.joint_color, g.budget_start_day, g.created_at
		 FROM groups g
		 JOIN memberships m ON m.group_id = g.id
		 WHERE m.user_id = ? AND m.status = 'accepted'
		 ORDER BY g.created_at, g.id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []core.Group
	for rows.Next() {
		var (
			group core.Group
			kind  string
		)
		if err := rows.Scan(&group.ID, &group.Name, &kind, &group.HostID,
			&group.JointColor, &group.BudgetStartDay, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		group.Kind = core.GroupKind(kind)
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (s *Store) InsertMembership(ctx context.Context, m *core.Membership) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memberships (group_id, user_id, status, role, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.GroupID, m.UserID, string(m.Status), string(m.Role), m.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "PRIMARY KEY constraint failed") {
			return core.ErrAlreadyMember
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (s *Store) FindMembership(ctx context.Context, groupID, userID string) (*core.Membership, error) {
	var (
		m      core.Membership
		status string
		role   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT group_id, user_id, status, role, created_at
		 FROM memberships WHERE group_id = ? AND user_id = ?`, groupID, userID,
	).Scan(&m.GroupID, &m.UserID, &status, &role, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan membership: %w", err)
	}
	m.Status = core.MembershipStatus(status)
	m.Role = core.MembershipRole(role)
	return &m, nil
}

func (s *Store) UpdateMembershipStatus(ctx context.Context, groupID, userID string, status core.MembershipStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE memberships SET status = ? WHERE group_id = ? AND user_id = ?",
		string(status), groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("update membership status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrMembershipNotFound
	}
	return nil
}

func (s *Store) ExistsAcceptedMembership(ctx context.Context, groupID, userID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM memberships WHERE group_id = ? AND user_id = ? AND status = 'accepted'",
		groupID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query membership: %w", err)
	}
	return true, nil
}

func (s *Store) CountAcceptedMembers(ctx context.Context, groupID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM memberships WHERE group_id = ? AND status = 'accepted'", groupID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}

func (s *Store) ListMembers(ctx context.Context, groupID string) ([]core.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, user_id, status, role, created_at
		 FROM memberships WHERE group_id = ? ORDER BY created_at, user_id`, groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []core.Membership
	for rows.Next() {
		var (
			m      core.Membership
			status string
			role   string
		)
		if err := rows.Scan(&m.GroupID, &m.UserID, &status, &role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		m.Status = core.MembershipStatus(status)
		m.Role = core.MembershipRole(role)
		members = append(members, m)
	}
	return members, rows.Err()
}
