package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"focolare/internal/amqp"
	"focolare/internal/core"
	"focolare/internal/storage"
)

// ScheduleService owns the calendar operations of a group. Every method
// follows the same order: look up, gate, validate, persist. Activity
// events go out after the write and never fail the request.
type ScheduleService struct {
	store  storage.Store
	gate   *Gate
	events Publisher
}

func NewScheduleService(store storage.Store, gate *Gate, events Publisher) *ScheduleService {
	return &ScheduleService{store: store, gate: gate, events: events}
}

// Create validates and persists a schedule authored by userID. A repeating
// schedule is stored together with its expanded siblings in one storage
// transaction: the series either fully exists or not at all. repeatEnd
// bounds the expansion; nil means one year from the start date.
func (s *ScheduleService) Create(ctx context.Context, userID string, sched *core.Schedule, repeatEnd *core.Date) (*core.Schedule, error) {
	if err := s.gate.VerifyAccess(ctx, sched.GroupID, userID); err != nil {
		return nil, err
	}

	sched.AuthorID = userID
	sched.Normalize()
	if err := sched.Validate(); err != nil {
		return nil, err
	}

	if sched.RepeatType == core.RepeatNone {
		sched.RepeatGroupID = ""
		if err := s.store.InsertSchedule(ctx, sched); err != nil {
			return nil, err
		}
	} else {
		// The seed references itself, so the id must exist before the
		// siblings are expanded and the whole series written at once.
		sched.ID = uuid.New().String()
		sched.RepeatGroupID = sched.ID
		series := append([]core.Schedule{*sched}, ExpandSchedule(*sched, repeatEnd)...)
		if err := s.store.InsertSchedules(ctx, series); err != nil {
			return nil, err
		}
	}

	publishActivity(ctx, s.events, amqp.NewActivityMessage(
		sched.GroupID, userID, amqp.KindScheduleCreated, sched.ID, sched.Title))
	return sched, nil
}

// FindByID looks the schedule up first, then gates on its group: an absent
// schedule is "not found" even for outsiders, an existing one in a foreign
// group is "access denied".
func (s *ScheduleService) FindByID(ctx context.Context, userID, scheduleID string) (*core.Schedule, error) {
	sched, err := s.store.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.VerifyAccess(ctx, sched.GroupID, userID); err != nil {
		return nil, err
	}
	return sched, nil
}

// FindByDateRange returns the group's schedules whose day interval overlaps
// [start, end], both inclusive. filter narrows by author or asset type,
// never both.
func (s *ScheduleService) FindByDateRange(ctx context.Context, userID, groupID string, start, end core.Date, filter storage.ScheduleFilter) ([]core.Schedule, error) {
	if err := s.gate.VerifyAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if end.Before(start.Time) {
		return nil, fmt.Errorf("%w: range end before range start", core.ErrInvalidInput)
	}
	return s.store.FindSchedulesByGroupAndDateRange(ctx, groupID, start, end, filter)
}

// ScheduleUpdate carries the mutable schedule fields. Group, author, and
// the repeat fields are fixed at creation and cannot be changed here.
type ScheduleUpdate struct {
	Title     string
	StartDate core.Date
	EndDate   *core.Date
	StartTime *core.TimeOfDay
	EndTime   *core.TimeOfDay
	AllDay    bool
	AssetType core.AssetType
	Category  core.ScheduleCategory
	Memo      string
}

// Update rewrites one instance. Updating a member of a recurring series
// touches only that instance; the siblings keep their own dates.
func (s *ScheduleService) Update(ctx context.Context, userID, scheduleID string, update ScheduleUpdate) (*core.Schedule, error) {
	sched, err := s.store.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.VerifyAccess(ctx, sched.GroupID, userID); err != nil {
		return nil, err
	}

	sched.Title = update.Title
	sched.StartDate = update.StartDate
	sched.EndDate = update.EndDate
	sched.StartTime = update.StartTime
	sched.EndTime = update.EndTime
	sched.AllDay = update.AllDay
	sched.AssetType = update.AssetType
	sched.Category = update.Category
	sched.Memo = update.Memo

	sched.Normalize()
	if err := sched.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSchedule(ctx, sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// Delete removes a single instance.
func (s *ScheduleService) Delete(ctx context.Context, userID, scheduleID string) error {
	sched, err := s.store.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		return err
	}
	if err := s.gate.VerifyAccess(ctx, sched.GroupID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteSchedule(ctx, scheduleID); err != nil {
		return err
	}

	publishActivity(ctx, s.events, amqp.NewActivityMessage(
		sched.GroupID, userID, amqp.KindScheduleDeleted, sched.ID, sched.Title))
	return nil
}

// DeleteRepeatGroup removes every instance of a series in one call. The
// gate runs against the group of the first found instance; an unknown or
// already-deleted series is a not-found, not a silent no-op.
func (s *ScheduleService) DeleteRepeatGroup(ctx context.Context, userID, repeatGroupID string) (int, error) {
	series, err := s.store.FindSchedulesByRepeatGroupID(ctx, repeatGroupID)
	if err != nil {
		return 0, err
	}
	if len(series) == 0 {
		return 0, fmt.Errorf("%w: repeat group %s", core.ErrScheduleNotFound, repeatGroupID)
	}
	if err := s.gate.VerifyAccess(ctx, series[0].GroupID, userID); err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteSchedulesByRepeatGroupID(ctx, repeatGroupID)
	if err != nil {
		return 0, err
	}

	publishActivity(ctx, s.events, amqp.NewActivityMessage(
		series[0].GroupID, userID, amqp.KindSeriesDeleted, repeatGroupID, series[0].Title))
	return deleted, nil
}
