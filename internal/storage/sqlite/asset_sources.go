package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"focolare/internal/core"
)

func (s *Store) InsertAssetSource(ctx context.Context, a *core.AssetSource) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO asset_sources (id, group_id, name, color) VALUES (?, ?, ?, ?)",
		a.ID, a.GroupID, a.Name, a.Color,
	)
	if err != nil {
		return fmt.Errorf("insert asset source: %w", err)
	}
	return nil
}

func (s *Store) FindAssetSourceByID(ctx context.Context, id string) (*core.AssetSource, error) {
	var a core.AssetSource
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, name, color FROM asset_sources WHERE id = ?", id,
	).Scan(&a.ID, &a.GroupID, &a.Name, &a.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrAssetSourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan asset source: %w", err)
	}
	return &a, nil
}

func (s *Store) ListAssetSourcesByGroup(ctx context.Context, groupID string) ([]core.AssetSource, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, group_id, name, color FROM asset_sources WHERE group_id = ? ORDER BY name, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list asset sources: %w", err)
	}
	defer rows.Close()

	var sources []core.AssetSource
	for rows.Next() {
		var a core.AssetSource
		if err := rows.Scan(&a.ID, &a.GroupID, &a.Name, &a.Color); err != nil {
			return nil, fmt.Errorf("scan asset source: %w", err)
		}
		sources = append(sources, a)
	}
	return sources, rows.Err()
}

func (s *Store) UpdateAssetSource(ctx context.Context, a *core.AssetSource) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE asset_sources SET name = ?, color = ? WHERE id = ?",
		a.Name, a.Color, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update asset source: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrAssetSourceNotFound
	}
	return nil
}

func (s *Store) DeleteAssetSource(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM asset_sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete asset source: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrAssetSourceNotFound
	}
	return nil
}
