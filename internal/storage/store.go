// Package storage defines the persistence contract of focolare.
// Implementations: storage/sqlite for production, storage/memory for tests
// and the in-memory backend.
package storage

import (
	"context"

	"focolare/internal/core"
)

// ScheduleFilter narrows a date-range query. At most one of AuthorID and
// AssetType is applied per call; when both are set, AuthorID wins.
type ScheduleFilter struct {
	AuthorID  string
	AssetType core.AssetType
}

// CategorySum is one row of a grouped-sum statistics query.
type CategorySum struct {
	CategoryID   string
	CategoryName string
	Kind         core.CategoryKind
	TotalCents   int64
}

// Store is the storage collaborator behind every service. Lookups return
// the matching core "not found" sentinel when the row is absent; writes
// covering several rows are atomic.
type Store interface {
	// Users
	InsertUser(ctx context.Context, user *core.User) error
	FindUserByID(ctx context.Context, id string) (*core.User, error)
	FindUserByEmail(ctx context.Context, email string) (*core.User, error)

	// Groups and memberships
	InsertGroup(ctx context.Context, group *core.Group) error
	FindGroupByID(ctx context.Context, id string) (*core.Group, error)
	UpdateGroup(ctx context.Context, group *core.Group) error
	// ListGroupsByUser returns the groups where the user holds an accepted
	// membership.
	ListGroupsByUser(ctx context.Context, userID string) ([]core.Group, error)
	InsertMembership(ctx context.Context, m *core.Membership) error
	FindMembership(ctx context.Context, groupID, userID string) (*core.Membership, error)
	UpdateMembershipStatus(ctx context.Context, groupID, userID string, status core.MembershipStatus) error
	// ExistsAcceptedMembership backs the membership gate; a pure read.
	ExistsAcceptedMembership(ctx context.Context, groupID, userID string) (bool, error)
	CountAcceptedMembers(ctx context.Context, groupID string) (int, error)
	ListMembers(ctx context.Context, groupID string) ([]core.Membership, error)

	// Schedules
	InsertSchedule(ctx context.Context, s *core.Schedule) error
	// InsertSchedules writes a batch (recurring seed plus siblings) as one
	// all-or-nothing unit.
	InsertSchedules(ctx context.Context, schedules []core.Schedule) error
	FindScheduleByID(ctx context.Context, id string) (*core.Schedule, error)
	// FindSchedulesByGroupAndDateRange returns every schedule whose
	// [start, effective end] interval overlaps [start, end], ordered by
	// start date then start time with all-day entries first.
	FindSchedulesByGroupAndDateRange(ctx context.Context, groupID string, start, end core.Date, filter ScheduleFilter) ([]core.Schedule, error)
	FindSchedulesByRepeatGroupID(ctx context.Context, repeatGroupID string) ([]core.Schedule, error)
	UpdateSchedule(ctx context.Context, s *core.Schedule) error
	DeleteSchedule(ctx context.Context, id string) error
	DeleteSchedulesByRepeatGroupID(ctx context.Context, repeatGroupID string) (int, error)

	// Transactions
	InsertTransaction(ctx context.Context, tx *core.Transaction) error
	FindTransactionByID(ctx context.Context, id string) (*core.Transaction, error)
	ListTransactionsByGroupAndDateRange(ctx context.Context, groupID string, start, end core.Date) ([]core.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	// SumTransactionsByCategory aggregates cents per category over
	// [start, end] inclusive.
	SumTransactionsByCategory(ctx context.Context, groupID string, start, end core.Date) ([]CategorySum, error)

	// Categories
	InsertCategory(ctx context.Context, c *core.Category) error
	FindCategoryByID(ctx context.Context, id string) (*core.Category, error)
	ListCategoriesByGroup(ctx context.Context, groupID string) ([]core.Category, error)
	UpdateCategory(ctx context.Context, c *core.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// Asset sources
	InsertAssetSource(ctx context.Context, a *core.AssetSource) error
	FindAssetSourceByID(ctx context.Context, id string) (*core.AssetSource, error)
	ListAssetSourcesByGroup(ctx context.Context, groupID string) ([]core.AssetSource, error)
	UpdateAssetSource(ctx context.Context, a *core.AssetSource) error
	DeleteAssetSource(ctx context.Context, id string) error

	// Activity feed (written by the worker)
	InsertActivity(ctx context.Context, a *core.Activity) error
	ListActivitiesByGroup(ctx context.Context, groupID string, limit int) ([]core.Activity, error)

	Close() error
}
