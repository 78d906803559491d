package services

import (
	"time"

	"focolare/internal/core"
)

// maxOccurrences caps how many siblings a single series may expand to.
// The cap is silent: expansion stops, it does not error.
const maxOccurrences = 365

// Stepper advances a date by one recurrence period. Monthly and yearly
// steps clamp to the last valid day of the target month, and the step is
// applied to the previously emitted date, so Jan 31 -> Feb 28 -> Mar 28.
type Stepper func(core.Date) core.Date

var steppers = map[core.RepeatType]Stepper{
	core.RepeatDaily:   func(d core.Date) core.Date { return d.AddDays(1) },
	core.RepeatWeekly:  func(d core.Date) core.Date { return d.AddDays(7) },
	core.RepeatMonthly: func(d core.Date) core.Date { return addMonthsClamped(d, 1, 0) },
	core.RepeatYearly:  func(d core.Date) core.Date { return addMonthsClamped(d, 0, 1) },
}

func addMonthsClamped(d core.Date, months, years int) core.Date {
	year, month, day := d.Date()
	// Normalize via the first of the target month so time.AddDate cannot
	// spill over (Jan 31 + 1 month would otherwise land on Mar 2/3).
	target := time.Date(year+years, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return core.NewDate(target.Year(), int(target.Month()), day)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ExpandSchedule returns the sibling instances of a recurring seed, in
// chronological order. The seed itself is not included. Pure: nothing is
// read or written.
//
// Every sibling is a copy of the seed with start (and end, preserving the
// seed's day span) shifted by whole periods and RepeatGroupID set to the
// seed's id. Expansion runs while the shifted start is on or before the
// effective end: repeatEnd when given, otherwise one year after the seed's
// start.
func ExpandSchedule(seed core.Schedule, repeatEnd *core.Date) []core.Schedule {
	step, ok := steppers[seed.RepeatType]
	if !ok {
		return nil
	}

	effectiveEnd := core.Date{Time: seed.StartDate.AddDate(1, 0, 0)}
	if repeatEnd != nil {
		effectiveEnd = *repeatEnd
	}

	span := 0
	if seed.EndDate != nil {
		span = seed.StartDate.DaysUntil(*seed.EndDate)
	}

	var siblings []core.Schedule
	for current := step(seed.StartDate); !current.After(effectiveEnd.Time) && len(siblings) < maxOccurrences; current = step(current) {
		sibling := seed
		sibling.ID = ""
		sibling.StartDate = current
		if seed.EndDate != nil {
			end := current.AddDays(span)
			sibling.EndDate = &end
		}
		sibling.RepeatGroupID = seed.ID
		siblings = append(siblings, sibling)
	}
	return siblings
}
