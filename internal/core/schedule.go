package core

import (
	"fmt"
	"strings"
)

// RepeatType is the fixed recurrence model: a schedule either does not
// repeat or repeats at one of four frequencies until an end date.
type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

func (r RepeatType) Validate() error {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return nil
	}
	return fmt.Errorf("%w: unknown repeat type %q", ErrInvalidInput, r)
}

// ScheduleCategory tags calendar events.
type ScheduleCategory string

const (
	ScheduleAppointment ScheduleCategory = "appointment"
	ScheduleWork        ScheduleCategory = "work"
	ScheduleTravel      ScheduleCategory = "travel"
	ScheduleFamily      ScheduleCategory = "family"
	ScheduleFinance     ScheduleCategory = "finance"
	ScheduleEtc         ScheduleCategory = "etc"
)

func (c ScheduleCategory) Validate() error {
	switch c {
	case ScheduleAppointment, ScheduleWork, ScheduleTravel, ScheduleFamily, ScheduleFinance, ScheduleEtc:
		return nil
	}
	return fmt.Errorf("%w: unknown schedule category %q", ErrInvalidInput, c)
}

// Schedule is one calendar event instance. An instance of a recurring series
// carries the seed's id in RepeatGroupID; the seed references itself.
// GroupID, AuthorID, RepeatType and RepeatGroupID never change after creation.
type Schedule struct {
	ID            string
	GroupID       string
	AuthorID      string
	Title         string
	StartDate     Date
	EndDate       *Date
	StartTime     *TimeOfDay
	EndTime       *TimeOfDay
	AllDay        bool
	AssetType     AssetType
	Category      ScheduleCategory
	Memo          string
	RepeatType    RepeatType
	RepeatGroupID string
}

// Normalize clears the time-of-day fields of an all-day schedule, even when
// the caller supplied values. Applied at construction and on every update;
// it is a normalization step, not a validation failure.
func (s *Schedule) Normalize() {
	if s.AllDay {
		s.StartTime = nil
		s.EndTime = nil
	}
}

// Validate checks the entity invariants. It is side-effect free and is run
// both at creation and at every mutation. Note: no ordering is enforced
// between StartTime and EndTime for timed events, only presence.
func (s Schedule) Validate() error {
	title := strings.TrimSpace(s.Title)
	if title == "" {
		return fmt.Errorf("%w: title must not be blank", ErrInvalidInput)
	}
	if len([]rune(s.Title)) > 50 {
		return fmt.Errorf("%w: title too long (max 50 characters)", ErrInvalidInput)
	}
	if err := s.StartDate.Validate(); err != nil {
		return err
	}
	if s.EndDate != nil && s.EndDate.Before(s.StartDate.Time) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}
	if !s.AllDay && (s.StartTime == nil || s.EndTime == nil) {
		return fmt.Errorf("%w: timed schedule requires start and end times", ErrInvalidInput)
	}
	if s.StartTime != nil {
		if err := s.StartTime.Validate(); err != nil {
			return err
		}
	}
	if s.EndTime != nil {
		if err := s.EndTime.Validate(); err != nil {
			return err
		}
	}
	switch s.AssetType {
	case AssetPersonal, AssetJoint:
	default:
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidInput, s.AssetType)
	}
	if err := s.Category.Validate(); err != nil {
		return err
	}
	if len([]rune(s.Memo)) > 500 {
		return fmt.Errorf("%w: memo too long (max 500 characters)", ErrInvalidInput)
	}
	return s.RepeatType.Validate()
}

// EffectiveEndDate is the schedule's last day: EndDate when set, else the
// start day itself. Used by the overlap query.
func (s Schedule) EffectiveEndDate() Date {
	if s.EndDate != nil {
		return *s.EndDate
	}
	return s.StartDate
}
