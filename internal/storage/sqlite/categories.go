package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"focolare/internal/core"
)

func (s *Store) InsertCategory(ctx context.Context, c *core.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, group_id, name, kind) VALUES (?, ?, ?, ?)",
		c.ID, c.GroupID, c.Name, string(c.Kind),
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *Store) FindCategoryByID(ctx context.Context, id string) (*core.Category, error) {
	var (
		c    core.Category
		kind string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, name, kind FROM categories WHERE id = ?", id,
	).Scan(&c.ID, &c.GroupID, &c.Name, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.Kind = core.CategoryKind(kind)
	return &c, nil
}

func (s *Store) ListCategoriesByGroup(ctx context.Context, groupID string) ([]core.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, group_id, name, kind FROM categories WHERE group_id = ? ORDER BY name, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var (
			c    core.Category
			kind string
		)
		if err := rows.Scan(&c.ID, &c.GroupID, &c.Name, &kind); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Kind = core.CategoryKind(kind)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, c *core.Category) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, kind = ? WHERE id = ?",
		c.Name, string(c.Kind), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrCategoryNotFound
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrCategoryNotFound
	}
	return nil
}
