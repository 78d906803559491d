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

func (s *Store) InsertUser(ctx context.Context, user *core.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, nickname, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Nickname, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return core.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, nickname, password_hash, created_at FROM users WHERE id = ?", id))
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, email, nickname, password_hash, created_at FROM users WHERE email = ?", email))
}

func (s *Store) scanUser(row *sql.Row) (*core.User, error) {
	var user core.User
	err := row.Scan(&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
