package services

import (
	"context"
	"errors"
	"fmt"

	"focolare/internal/auth"
	"focolare/internal/core"
	"focolare/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles signup and login.
type AuthService struct {
	store storage.Store
	jwt   *auth.JWTManager
}

func NewAuthService(store storage.Store, jwt *auth.JWTManager) *AuthService {
	return &AuthService{store: store, jwt: jwt}
}

// Signup creates the user and bootstraps their personal group, so a fresh
// account can create schedules immediately. Returns the user and a session
// token.
func (s *AuthService) Signup(ctx context.Context, email, nickname, password string) (*core.User, string, error) {
	user := &core.User{Email: email, Nickname: nickname}
	if err := user.Validate(); err != nil {
		return nil, "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, "", fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
		}
		return nil, "", err
	}
	user.PasswordHash = hash

	if err := s.store.InsertUser(ctx, user); err != nil {
		return nil, "", err
	}

	personal := &core.Group{
		Name:           nickname,
		Kind:           core.GroupPersonal,
		HostID:         user.ID,
		BudgetStartDay: 1,
	}
	if err := s.store.InsertGroup(ctx, personal); err != nil {
		return nil, "", err
	}
	membership := &core.Membership{
		GroupID: personal.ID,
		UserID:  user.ID,
		Status:  core.MembershipAccepted,
		Role:    core.RoleHost,
	}
	if err := s.store.InsertMembership(ctx, membership); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the credentials and returns a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*core.User, string, error) {
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
