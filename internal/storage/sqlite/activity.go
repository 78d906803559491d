package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"focolare/internal/core"
)

func (s *Store) InsertActivity(ctx context.Context, a *core.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (id, group_id, actor_id, kind, ref_id, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.GroupID, a.ActorID, a.Kind, a.RefID, a.Message, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (s *Store) ListActivitiesByGroup(ctx context.Context, groupID string, limit int) ([]core.Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, actor_id, kind, ref_id, message, created_at
		 FROM activities WHERE group_id = ?
		 ORDER BY created_at DESC, id LIMIT ?`,
		groupID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []core.Activity
	for rows.Next() {
		var a core.Activity
		if err := rows.Scan(&a.ID, &a.GroupID, &a.ActorID, &a.Kind, &a.RefID, &a.Message, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
