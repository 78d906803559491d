package core

import (
	"errors"
	"strings"
	"testing"
)

func timedSchedule() Schedule {
	start, _ := ParseTimeOfDay("09:30")
	end, _ := ParseTimeOfDay("10:30")
	return Schedule{
		ID:         "s1",
		GroupID:    "g1",
		AuthorID:   "u1",
		Title:      "dentist",
		StartDate:  NewDate(2026, 2, 10),
		StartTime:  &start,
		EndTime:    &end,
		AllDay:     false,
		AssetType:  AssetPersonal,
		Category:   ScheduleAppointment,
		RepeatType: RepeatNone,
	}
}

func TestScheduleValidate(t *testing.T) {
	endBefore := NewDate(2026, 2, 9)
	sameDay := NewDate(2026, 2, 10)

	tests := []struct {
		name    string
		mutate  func(*Schedule)
		wantErr bool
	}{
		{name: "valid timed schedule", mutate: func(s *Schedule) {}},
		{
			name:    "blank title",
			mutate:  func(s *Schedule) { s.Title = "   " },
			wantErr: true,
		},
		{
			name:    "title too long",
			mutate:  func(s *Schedule) { s.Title = strings.Repeat("a", 51) },
			wantErr: true,
		},
		{
			name:   "title exactly 50 chars",
			mutate: func(s *Schedule) { s.Title = strings.Repeat("a", 50) },
		},
		{
			name:    "end date before start date",
			mutate:  func(s *Schedule) { s.EndDate = &endBefore },
			wantErr: true,
		},
		{
			name:   "same-day span is legal",
			mutate: func(s *Schedule) { s.EndDate = &sameDay },
		},
		{
			name:    "timed event missing end time",
			mutate:  func(s *Schedule) { s.EndTime = nil },
			wantErr: true,
		},
		{
			name:    "timed event missing both times",
			mutate:  func(s *Schedule) { s.StartTime, s.EndTime = nil, nil },
			wantErr: true,
		},
		{
			name: "all-day event without times",
			mutate: func(s *Schedule) {
				s.AllDay = true
				s.StartTime, s.EndTime = nil, nil
			},
		},
		{
			name:    "memo too long",
			mutate:  func(s *Schedule) { s.Memo = strings.Repeat("m", 501) },
			wantErr: true,
		},
		{
			name:    "unknown asset type",
			mutate:  func(s *Schedule) { s.AssetType = "corporate" },
			wantErr: true,
		},
		{
			name:    "unknown repeat type",
			mutate:  func(s *Schedule) { s.RepeatType = "fortnightly" },
			wantErr: true,
		},
		{
			name: "reversed times are tolerated",
			mutate: func(s *Schedule) {
				// Only presence is enforced for timed events, not ordering.
				*s.StartTime, *s.EndTime = *s.EndTime, *s.StartTime
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := timedSchedule()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("error %v should wrap ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestScheduleValidateIsIdempotent(t *testing.T) {
	s := timedSchedule()
	first := s.Validate()
	second := s.Validate()
	if (first == nil) != (second == nil) {
		t.Fatalf("validation not idempotent: first=%v second=%v", first, second)
	}

	bad := timedSchedule()
	bad.Title = ""
	if bad.Validate() == nil || bad.Validate() == nil {
		t.Fatal("invalid schedule should fail validation every time")
	}
}

func TestScheduleNormalizeClearsTimesForAllDay(t *testing.T) {
	s := timedSchedule()
	s.AllDay = true
	s.Normalize()
	if s.StartTime != nil || s.EndTime != nil {
		t.Fatalf("all-day schedule kept times: start=%v end=%v", s.StartTime, s.EndTime)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("normalized all-day schedule should be valid: %v", err)
	}
}

func TestScheduleNormalizeKeepsTimesForTimed(t *testing.T) {
	s := timedSchedule()
	s.Normalize()
	if s.StartTime == nil || s.EndTime == nil {
		t.Fatal("timed schedule lost its times during normalization")
	}
}

func TestScheduleEndBeforeStartAlwaysRejected(t *testing.T) {
	pairs := [][2]Date{
		{NewDate(2026, 2, 10), NewDate(2026, 2, 9)},
		{NewDate(2026, 1, 1), NewDate(2025, 12, 31)},
		{NewDate(2026, 3, 1), NewDate(2026, 2, 28)},
	}
	for _, pair := range pairs {
		s := timedSchedule()
		s.StartDate = pair[0]
		end := pair[1]
		s.EndDate = &end
		if err := s.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("start=%s end=%s: want ErrInvalidInput, got %v", pair[0], pair[1], err)
		}
	}
}

func TestScheduleEffectiveEndDate(t *testing.T) {
	s := timedSchedule()
	if got := s.EffectiveEndDate(); !got.Equal(s.StartDate.Time) {
		t.Fatalf("no end date: effective end %s, want %s", got, s.StartDate)
	}
	end := NewDate(2026, 2, 12)
	s.EndDate = &end
	if got := s.EffectiveEndDate(); !got.Equal(end.Time) {
		t.Fatalf("effective end %s, want %s", got, end)
	}
}
