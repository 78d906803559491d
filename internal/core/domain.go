// Package core defines the domain model of focolare: groups, memberships,
// calendar schedules, and household finances. All types here are pure data
// with validation; persistence and orchestration live elsewhere.
package core

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// GroupKind distinguishes the automatic single-user group created at signup
// from explicitly created shared groups.
type GroupKind string

const (
	GroupPersonal GroupKind = "personal"
	GroupShared   GroupKind = "shared"
)

// AssetType tags a schedule or transaction as individual or shared within
// a group.
type AssetType string

const (
	AssetPersonal AssetType = "personal"
	AssetJoint    AssetType = "joint"
)

// MembershipStatus is the invite lifecycle. Only accepted members pass the
// membership gate.
type MembershipStatus string

const (
	MembershipInvited  MembershipStatus = "invited"
	MembershipAccepted MembershipStatus = "accepted"
)

type MembershipRole string

const (
	RoleHost  MembershipRole = "host"
	RoleGuest MembershipRole = "guest"
)

// MaxGroupMembers caps accepted members per shared group, enforced at
// invite acceptance.
const MaxGroupMembers = 10

type User struct {
	ID           string
	Email        string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
}

func (u User) Validate() error {
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	nick := strings.TrimSpace(u.Nickname)
	if nick == "" || len([]rune(nick)) > 20 {
		return fmt.Errorf("%w: nickname must be 1-20 characters", ErrInvalidInput)
	}
	return nil
}

// Group is a calendar and budget namespace shared by one or more users.
type Group struct {
	ID             string
	Name           string
	Kind           GroupKind
	HostID         string
	JointColor     string
	BudgetStartDay int
	CreatedAt      time.Time
}

func (g Group) Validate() error {
	name := strings.TrimSpace(g.Name)
	if name == "" || len([]rune(name)) > 30 {
		return fmt.Errorf("%w: group name must be 1-30 characters", ErrInvalidInput)
	}
	switch g.Kind {
	case GroupPersonal, GroupShared:
	default:
		return fmt.Errorf("%w: unknown group kind %q", ErrInvalidInput, g.Kind)
	}
	// Days 1-28 exist in every month, so the budget cycle never skips.
	if g.BudgetStartDay < 1 || g.BudgetStartDay > 28 {
		return fmt.Errorf("%w: budget start day must be between 1 and 28", ErrInvalidInput)
	}
	return nil
}

// Membership is the (group, user) relation gating all data access.
// Unique per pair.
type Membership struct {
	GroupID   string
	UserID    string
	Status    MembershipStatus
	Role      MembershipRole
	CreatedAt time.Time
}

// Category is a per-group spending or income tag.
type CategoryKind string

const (
	CategoryExpense CategoryKind = "expense"
	CategoryIncome  CategoryKind = "income"
)

type Category struct {
	ID      string
	GroupID string
	Name    string
	Kind    CategoryKind
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" || len([]rune(name)) > 20 {
		return fmt.Errorf("%w: category name must be 1-20 characters", ErrInvalidInput)
	}
	switch c.Kind {
	case CategoryExpense, CategoryIncome:
	default:
		return fmt.Errorf("%w: unknown category kind %q", ErrInvalidInput, c.Kind)
	}
	return nil
}

// AssetSource is a payment source (card, account, cash box) scoped to a group.
type AssetSource struct {
	ID      string
	GroupID string
	Name    string
	Color   string
}

func (a AssetSource) Validate() error {
	name := strings.TrimSpace(a.Name)
	if name == "" || len([]rune(name)) > 20 {
		return fmt.Errorf("%w: asset source name must be 1-20 characters", ErrInvalidInput)
	}
	return nil
}

// Transaction is one financial record inside a group.
type Transaction struct {
	ID            string
	GroupID       string
	AuthorID      string
	Date          Date
	Amount        Money
	Payee         string
	CategoryID    string
	AssetType     AssetType
	AssetSourceID string
	Memo          string
	CreatedAt     time.Time
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	payee := strings.TrimSpace(t.Payee)
	if payee == "" || len([]rune(payee)) > 50 {
		return fmt.Errorf("%w: payee must be 1-50 characters", ErrInvalidInput)
	}
	if strings.TrimSpace(t.CategoryID) == "" {
		return fmt.Errorf("%w: category required", ErrInvalidInput)
	}
	switch t.AssetType {
	case AssetPersonal, AssetJoint:
	default:
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidInput, t.AssetType)
	}
	if len([]rune(t.Memo)) > 500 {
		return fmt.Errorf("%w: memo too long (max 500 characters)", ErrInvalidInput)
	}
	return nil
}

// Activity is one entry of a group's materialized event feed, written by the
// worker from AMQP messages.
type Activity struct {
	ID        string
	GroupID   string
	ActorID   string
	Kind      string
	RefID     string
	Message   string
	CreatedAt time.Time
}
