package http

import (
	"fmt"
	"net/http"

	"focolare/internal/core"
	"focolare/internal/services"
	"focolare/internal/storage"
)

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sched, repeatEnd, err := scheduleFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sched.GroupID = r.PathValue("id")

	created, err := s.services.Schedules.Create(r.Context(), userIDFrom(r.Context()), sched, repeatEnd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toScheduleResponse(created))
}

func scheduleFromRequest(req scheduleRequest) (*core.Schedule, *core.Date, error) {
	startDate, err := core.ParseDate(req.StartDate)
	if err != nil {
		return nil, nil, err
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return nil, nil, err
	}
	startTime, err := parseOptionalTime(req.StartTime)
	if err != nil {
		return nil, nil, err
	}
	endTime, err := parseOptionalTime(req.EndTime)
	if err != nil {
		return nil, nil, err
	}
	repeatEnd, err := parseOptionalDate(req.RepeatEnd)
	if err != nil {
		return nil, nil, err
	}

	repeatType := core.RepeatType(req.RepeatType)
	if req.RepeatType == "" {
		repeatType = core.RepeatNone
	}

	return &core.Schedule{
		Title:      req.Title,
		StartDate:  startDate,
		EndDate:    endDate,
		StartTime:  startTime,
		EndTime:    endTime,
		AllDay:     req.AllDay,
		AssetType:  core.AssetType(req.AssetType),
		Category:   core.ScheduleCategory(req.Category),
		Memo:       req.Memo,
		RepeatType: repeatType,
	}, repeatEnd, nil
}

// handleListSchedules serves the calendar range query. The optional author
// and asset filters are mutually exclusive; author wins when both are sent.
func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := core.ParseDate(q.Get("start"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: start query parameter required", core.ErrInvalidInput))
		return
	}
	end, err := core.ParseDate(q.Get("end"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: end query parameter required", core.ErrInvalidInput))
		return
	}

	filter := storage.ScheduleFilter{
		AuthorID:  q.Get("author"),
		AssetType: core.AssetType(q.Get("asset")),
	}

	schedules, err := s.services.Schedules.FindByDateRange(r.Context(), userIDFrom(r.Context()),
		r.PathValue("id"), start, end, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponses(schedules))
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := s.services.Schedules.FindByID(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(sched))
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sched, _, err := scheduleFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	update := serviceScheduleUpdate(sched)

	updated, err := s.services.Schedules.Update(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(updated))
}

func serviceScheduleUpdate(sched *core.Schedule) services.ScheduleUpdate {
	return services.ScheduleUpdate{
		Title:     sched.Title,
		StartDate: sched.StartDate,
		EndDate:   sched.EndDate,
		StartTime: sched.StartTime,
		EndTime:   sched.EndTime,
		AllDay:    sched.AllDay,
		AssetType: sched.AssetType,
		Category:  sched.Category,
		Memo:      sched.Memo,
	}
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Schedules.Delete(r.Context(), userIDFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleDeleteRepeatGroup(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.services.Schedules.DeleteRepeatGroup(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}
