package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"focolare/internal/core"
	"focolare/internal/storage"
)

const scheduleColumns = `id, group_id, author_id, title, start_date, end_date,
	start_time, end_time, all_day, asset_type, category, memo, repeat_type, repeat_group_id`

func (s *Store) InsertSchedule(ctx context.Context, sched *core.Schedule) error {
	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, insertScheduleSQL, scheduleArgs(sched)...)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// InsertSchedules writes the whole batch inside one transaction so a
// recurring series is never half-persisted.
func (s *Store) InsertSchedules(ctx context.Context, schedules []core.Schedule) error {
	if len(schedules) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range schedules {
		if schedules[i].ID == "" {
			schedules[i].ID = uuid.New().String()
		}
		if _, err := tx.ExecContext(ctx, insertScheduleSQL, scheduleArgs(&schedules[i])...); err != nil {
			return fmt.Errorf("insert schedule %d of %d: %w", i+1, len(schedules), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule batch: %w", err)
	}
	return nil
}

const insertScheduleSQL = `INSERT INTO schedules
	(id, group_id, author_id, title, start_date, end_date, start_time, end_time,
	 all_day, asset_type, category, memo, repeat_type, repeat_group_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func scheduleArgs(sched *core.Schedule) []any {
	var endDate, startTime, endTime, repeatGroup any
	if sched.EndDate != nil {
		endDate = sched.EndDate.String()
	}
	if sched.StartTime != nil {
		startTime = sched.StartTime.String()
	}
	if sched.EndTime != nil {
		endTime = sched.EndTime.String()
	}
	if sched.RepeatGroupID != "" {
		repeatGroup = sched.RepeatGroupID
	}
	return []any{
		sched.ID, sched.GroupID, sched.AuthorID, sched.Title,
		sched.StartDate.String(), endDate, startTime, endTime,
		sched.AllDay, string(sched.AssetType), string(sched.Category),
		sched.Memo, string(sched.RepeatType), repeatGroup,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*core.Schedule, error) {
	var (
		sched     core.Schedule
		startDate string
		endDate   sql.NullString
		startTime sql.NullString
		endTime   sql.NullString
		assetType string
		category  string
		repeat    string
		repeatGrp sql.NullString
	)
	err := row.Scan(&sched.ID, &sched.GroupID, &sched.AuthorID, &sched.Title,
		&startDate, &endDate, &startTime, &endTime, &sched.AllDay,
		&assetType, &category, &sched.Memo, &repeat, &repeatGrp)
	if err != nil {
		return nil, err
	}
	if sched.StartDate, err = core.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("stored start date: %w", err)
	}
	if endDate.Valid {
		d, err := core.ParseDate(endDate.String)
		if err != nil {
			return nil, fmt.Errorf("stored end date: %w", err)
		}
		sched.EndDate = &d
	}
	if startTime.Valid {
		t, err := core.ParseTimeOfDay(startTime.String)
		if err != nil {
			return nil, fmt.Errorf("stored start time: %w", err)
		}
		sched.StartTime = &t
	}
	if endTime.Valid {
		t, err := core.ParseTimeOfDay(endTime.String)
		if err != nil {
			return nil, fmt.Errorf("stored end time: %w", err)
		}
		sched.EndTime = &t
	}
	sched.AssetType = core.AssetType(assetType)
	sched.Category = core.ScheduleCategory(category)
	sched.RepeatType = core.RepeatType(repeat)
	if repeatGrp.Valid {
		sched.RepeatGroupID = repeatGrp.String
	}
	return &sched, nil
}

func (s *Store) FindScheduleByID(ctx context.Context, id string) (*core.Schedule, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+scheduleColumns+" FROM schedules WHERE id = ?", id)
	sched, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan schedule: %w", err)
	}
	return sched, nil
}

// FindSchedulesByGroupAndDateRange applies the inclusive overlap test:
// start_date <= queryEnd AND coalesce(end_date, start_date) >= queryStart.
// Dates are stored as ISO strings, so string comparison is date comparison.
// SQLite sorts NULL first ascending, which puts all-day entries before
// timed ones on the same day.
func (s *Store) FindSchedulesByGroupAndDateRange(ctx context.Context, groupID string, start, end core.Date, filter storage.ScheduleFilter) ([]core.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules
		WHERE group_id = ? AND start_date <= ? AND COALESCE(end_date, start_date) >= ?`
	args := []any{groupID, end.String(), start.String()}
	switch {
	case filter.AuthorID != "":
		query += " AND author_id = ?"
		args = append(args, filter.AuthorID)
	case filter.AssetType != "":
		query += " AND asset_type = ?"
		args = append(args, string(filter.AssetType))
	}
	query += " ORDER BY start_date, start_time, id"

	return s.querySchedules(ctx, query, args...)
}

func (s *Store) FindSchedulesByRepeatGroupID(ctx context.Context, repeatGroupID string) ([]core.Schedule, error) {
	return s.querySchedules(ctx,
		"SELECT "+scheduleColumns+" FROM schedules WHERE repeat_group_id = ? ORDER BY start_date, start_time, id",
		repeatGroupID)
}

func (s *Store) querySchedules(ctx context.Context, query string, args ...any) ([]core.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []core.Schedule
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, *sched)
	}
	return schedules, rows.Err()
}

// UpdateSchedule rewrites the mutable fields only. Group, author, repeat
// type, and repeat group are fixed at creation.
func (s *Store) UpdateSchedule(ctx context.Context, sched *core.Schedule) error {
	var endDate, startTime, endTime any
	if sched.EndDate != nil {
		endDate = sched.EndDate.String()
	}
	if sched.StartTime != nil {
		startTime = sched.StartTime.String()
	}
	if sched.EndTime != nil {
		endTime = sched.EndTime.String()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE schedules SET title = ?, start_date = ?, end_date = ?, start_time = ?,
		 end_time = ?, all_day = ?, asset_type = ?, category = ?, memo = ?
		 WHERE id = ?`,
		sched.Title, sched.StartDate.String(), endDate, startTime, endTime,
		sched.AllDay, string(sched.AssetType), string(sched.Category), sched.Memo,
		sched.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrScheduleNotFound
	}
	return nil
}

func (s *Store) DeleteSchedule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrScheduleNotFound
	}
	return nil
}

func (s *Store) DeleteSchedulesByRepeatGroupID(ctx context.Context, repeatGroupID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM schedules WHERE repeat_group_id = ?", repeatGroupID)
	if err != nil {
		return 0, fmt.Errorf("delete repeat group: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}
