// Package memory provides an in-process Store used by tests and by the
// "memory" data backend for local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"focolare/internal/core"
	"focolare/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type membershipKey struct {
	groupID string
	userID  string
}

// Store keeps everything in maps behind one mutex. Good enough for tests
// and single-process development; semantics mirror the SQLite store.
type Store struct {
	mu           sync.Mutex
	users        map[string]core.User
	groups       map[string]core.Group
	memberships  map[membershipKey]core.Membership
	schedules    map[string]core.Schedule
	transactions map[string]core.Transaction
	categories   map[string]core.Category
	assetSources map[string]core.AssetSource
	activities   []core.Activity
}

func New() *Store {
	return &Store{
		users:        make(map[string]core.User),
		groups:       make(map[string]core.Group),
		memberships:  make(map[membershipKey]core.Membership),
		schedules:    make(map[string]core.Schedule),
		transactions: make(map[string]core.Transaction),
		categories:   make(map[string]core.Category),
		assetSources: make(map[string]core.AssetSource),
	}
}

func (s *Store) Close() error { return nil }

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// Users

func (s *Store) InsertUser(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return core.ErrEmailTaken
		}
	}
	ensureID(&user.ID)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, core.ErrUserNotFound
}

// Groups and memberships

func (s *Store) InsertGroup(ctx context.Context, group *core.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&group.ID)
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now().UTC()
	}
	s.groups[group.ID] = *group
	return nil
}

func (s *Store) FindGroupByID(ctx context.Context, id string) (*core.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	group, ok := s.groups[id]
	if !ok {
		return nil, core.ErrGroupNotFound
	}
	return &group, nil
}

func (s *Store) UpdateGroup(ctx context.Context, group *core.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[group.ID]; !ok {
		return core.ErrGroupNotFound
	}
	s.groups[group.ID] = *group
	return nil
}

func (s *Store) ListGroupsByUser(ctx context.Context, userID string) ([]core.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []core.Group
	for _, m := range s.memberships {
		if m.UserID != userID || m.Status != core.MembershipAccepted {
			continue
		}
		if group, ok := s.groups[m.GroupID]; ok {
			result = append(result, group)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) InsertMembership(ctx context.Context, m *core.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{groupID: m.GroupID, userID: m.UserID}
	if _, exists := s.memberships[key]; exists {
		return core.ErrAlreadyMember
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.memberships[key] = *m
	return nil
}

func (s *Store) FindMembership(ctx context.Context, groupID, userID string) (*core.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memberships[membershipKey{groupID: groupID, userID: userID}]
	if !ok {
		return nil, core.ErrMembershipNotFound
	}
	return &m, nil
}

func (s *Store) UpdateMembershipStatus(ctx context.Context, groupID, userID string, status core.MembershipStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{groupID: groupID, userID: userID}
	m, ok := s.memberships[key]
	if !ok {
		return core.ErrMembershipNotFound
	}
	m.Status = status
	s.memberships[key] = m
	return nil
}

func (s *Store) ExistsAcceptedMembership(ctx context.Context, groupID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memberships[membershipKey{groupID: groupID, userID: userID}]
	return ok && m.Status == core.MembershipAccepted, nil
}

func (s *Store) CountAcceptedMembers(ctx context.Context, groupID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, m := range s.memberships {
		if m.GroupID == groupID && m.Status == core.MembershipAccepted {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListMembers(ctx context.Context, groupID string) ([]core.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []core.Membership
	for _, m := range s.memberships {
		if m.GroupID == groupID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

// Schedules

func (s *Store) InsertSchedule(ctx context.Context, sched *core.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&sched.ID)
	s.schedules[sched.ID] = *sched
	return nil
}

func (s *Store) InsertSchedules(ctx context.Context, schedules []core.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range schedules {
		ensureID(&schedules[i].ID)
	}
	for _, sched := range schedules {
		s.schedules[sched.ID] = sched
	}
	return nil
}

func (s *Store) FindScheduleByID(ctx context.Context, id string) (*core.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sched, ok := s.schedules[id]
	if !ok {
		return nil, core.ErrScheduleNotFound
	}
	return &sched, nil
}

func (s *Store) FindSchedulesByGroupAndDateRange(ctx context.Context, groupID string, start, end core.Date, filter storage.ScheduleFilter) ([]core.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []core.Schedule
	for _, sched := range s.schedules {
		if sched.GroupID != groupID {
			continue
		}
		// Inclusive overlap: the event merely has to touch the window.
		if sched.StartDate.After(end.Time) || sched.EffectiveEndDate().Before(start.Time) {
			continue
		}
		switch {
		case filter.AuthorID != "":
			if sched.AuthorID != filter.AuthorID {
				continue
			}
		case filter.AssetType != "":
			if sched.AssetType != filter.AssetType {
				continue
			}
		}
		result = append(result, sched)
	}
	sortSchedules(result)
	return result, nil
}

// sortSchedules orders by start date, then start time with all-day (no time)
// entries first, then id for determinism.
func sortSchedules(schedules []core.Schedule) {
	sort.Slice(schedules, func(i, j int) bool {
		a, b := schedules[i], schedules[j]
		if !a.StartDate.Equal(b.StartDate.Time) {
			return a.StartDate.Before(b.StartDate.Time)
		}
		switch {
		case a.StartTime == nil && b.StartTime != nil:
			return true
		case a.StartTime != nil && b.StartTime == nil:
			return false
		case a.StartTime != nil && b.StartTime != nil && *a.StartTime != *b.StartTime:
			return a.StartTime.Before(*b.StartTime)
		}
		return a.ID < b.ID
	})
}

func (s *Store) FindSchedulesByRepeatGroupID(ctx context.Context, repeatGroupID string) ([]core.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []core.Schedule
	for _, sched := range s.schedules {
		if sched.RepeatGroupID == repeatGroupID && repeatGroupID != "" {
			result = append(result, sched)
		}
	}
	sortSchedules(result)
	return result, nil
}

func (s *Store) UpdateSchedule(ctx context.Context, sched *core.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[sched.ID]; !ok {
		return core.ErrScheduleNotFound
	}
	s.schedules[sched.ID] = *sched
	return nil
}

func (s *Store) DeleteSchedule(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[id]; !ok {
		return core.ErrScheduleNotFound
	}
	delete(s.schedules, id)
	return nil
}

func (s *Store) DeleteSchedulesByRepeatGroupID(ctx context.Context, repeatGroupID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for id, sched := range s.schedules {
		if sched.RepeatGroupID == repeatGroupID && repeatGroupID != "" {
			delete(s.schedules, id)
			deleted++
		}
	}
	return deleted, nil
}

// Transactions

func (s *Store) InsertTransaction(ctx context.Context, tx *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&tx.ID)
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *Store) FindTransactionByID(ctx context.Context, id string) (*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, core.ErrTransactionNotFound
	}
	return &tx, nil
}

func (s *Store) ListTransactionsByGroupAndDateRange(ctx context.Context, groupID string, start, end core.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []core.Transaction
	for _, tx := range s.transactions {
		if tx.GroupID != groupID {
			continue
		}
		if tx.Date.Before(start.Time) || tx.Date.After(end.Time) {
			continue
		}
		result = append(result, tx)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date.Time) {
			return result[i].Date.Before(result[j].Date.Time)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[tx.ID]; !ok {
		return core.ErrTransactionNotFound
	}
	s.transactions[tx.ID] = *tx
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return core.ErrTransactionNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) SumTransactionsByCategory(ctx context.Context, groupID string, start, end core.Date) ([]storage.CategorySum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sums := make(map[string]*storage.CategorySum)
	for _, tx := range s.transactions {
		if tx.GroupID != groupID || tx.Date.Before(start.Time) || tx.Date.After(end.Time) {
			continue
		}
		sum, ok := sums[tx.CategoryID]
		if !ok {
			sum = &storage.CategorySum{CategoryID: tx.CategoryID}
			if cat, found := s.categories[tx.CategoryID]; found {
				sum.CategoryName = cat.Name
				sum.Kind = cat.Kind
			}
			sums[tx.CategoryID] = sum
		}
		sum.TotalCents += tx.Amount.Cents
	}
	result := make([]storage.CategorySum, 0, len(sums))
	for _, sum := range sums {
		result = append(result, *sum)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].TotalCents > result[j].TotalCents
	})
	return result, nil
}

// Categories

func (s *Store) InsertCategory(ctx context.Context, c *core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&c.ID)
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) FindCategoryByID(ctx context.Context, id string) (*core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, core.ErrCategoryNotFound
	}
	return &c, nil
}

func (s *Store) ListCategoriesByGroup(ctx context.Context, groupID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []core.Category
	for _, c := range s.categories {
		if c.GroupID == groupID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; !ok {
		return core.ErrCategoryNotFound
	}
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return core.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

// Asset sources

func (s *Store) InsertAssetSource(ctx context.Context, a *core.AssetSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&a.ID)
	s.assetSources[a.ID] = *a
	return nil
}

func (s *Store) FindAssetSourceByID(ctx context.Context, id string) (*core.AssetSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assetSources[id]
	if !ok {
		return nil, core.ErrAssetSourceNotFound
	}
	return &a, nil
}

func (s *Store) ListAssetSourcesByGroup(ctx context.Context, groupID string) ([]core.AssetSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []core.AssetSource
	for _, a := range s.assetSources {
		if a.GroupID == groupID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) UpdateAssetSource(ctx context.Context, a *core.AssetSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assetSources[a.ID]; !ok {
		return core.ErrAssetSourceNotFound
	}
	s.assetSources[a.ID] = *a
	return nil
}

func (s *Store) DeleteAssetSource(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assetSources[id]; !ok {
		return core.ErrAssetSourceNotFound
	}
	delete(s.assetSources, id)
	return nil
}

// Activity feed

func (s *Store) InsertActivity(ctx context.Context, a *core.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&a.ID)
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	s.activities = append(s.activities, *a)
	return nil
}

func (s *Store) ListActivitiesByGroup(ctx context.Context, groupID string, limit int) ([]core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []core.Activity
	for i := len(s.activities) - 1; i >= 0; i-- {
		if s.activities[i].GroupID != groupID {
			continue
		}
		result = append(result, s.activities[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}
