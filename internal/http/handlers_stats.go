package http

import (
	"fmt"
	"net/http"
	"time"

	"focolare/internal/core"
	"focolare/internal/services"
)

type categorySumResponse struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Kind         string `json:"kind"`
	TotalCents   int64  `json:"total_cents"`
}

type statsResponse struct {
	GroupID      string                `json:"group_id"`
	CycleStart   string                `json:"cycle_start"`
	CycleEnd     string                `json:"cycle_end"`
	Categories   []categorySumResponse `json:"categories"`
	ExpenseCents int64                 `json:"expense_cents"`
	IncomeCents  int64                 `json:"income_cents"`
}

func toStatsResponse(o *services.MonthOverview) statsResponse {
	resp := statsResponse{
		GroupID:      o.GroupID,
		CycleStart:   o.CycleStart.String(),
		CycleEnd:     o.CycleEnd.String(),
		Categories:   make([]categorySumResponse, len(o.Categories)),
		ExpenseCents: o.ExpenseCents,
		IncomeCents:  o.IncomeCents,
	}
	for i, sum := range o.Categories {
		resp.Categories[i] = categorySumResponse{
			CategoryID:   sum.CategoryID,
			CategoryName: sum.CategoryName,
			Kind:         string(sum.Kind),
			TotalCents:   sum.TotalCents,
		}
	}
	return resp
}

// handleStats serves the monthly overview. Year and month default to the
// current budget cycle when omitted.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))
	if year < 1970 || year > 9999 {
		writeError(w, r, fmt.Errorf("%w: year out of range", core.ErrInvalidInput))
		return
	}

	overview, err := s.services.Stats.Overview(r.Context(), userIDFrom(r.Context()),
		r.PathValue("id"), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(overview))
}
