package services

import (
	"context"
	"fmt"

	"focolare/internal/core"
	"focolare/internal/storage"
)

// MonthOverview is one budget cycle's grouped spending.
type MonthOverview struct {
	GroupID      string
	CycleStart   core.Date
	CycleEnd     core.Date
	Categories   []storage.CategorySum
	ExpenseCents int64
	IncomeCents  int64
}

// StatsService answers the budgeting read queries.
type StatsService struct {
	store storage.Store
	gate  *Gate
}

func NewStatsService(store storage.Store, gate *Gate) *StatsService {
	return &StatsService{store: store, gate: gate}
}

// Overview sums the group's transactions per category for the budget cycle
// containing the given year/month. The cycle starts on the group's budget
// start day and runs to the day before the same day of the next month.
func (s *StatsService) Overview(ctx context.Context, userID, groupID string, year, month int) (*MonthOverview, error) {
	if err := s.gate.VerifyAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1-12", core.ErrInvalidInput)
	}
	group, err := s.store.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}

	cycleStart := core.NewDate(year, month, group.BudgetStartDay)
	cycleEnd := core.Date{Time: cycleStart.AddDate(0, 1, 0)}.AddDays(-1)

	sums, err := s.store.SumTransactionsByCategory(ctx, groupID, cycleStart, cycleEnd)
	if err != nil {
		return nil, err
	}

	overview := &MonthOverview{
		GroupID:    groupID,
		CycleStart: cycleStart,
		CycleEnd:   cycleEnd,
		Categories: sums,
	}
	for _, sum := range sums {
		switch sum.Kind {
		case core.CategoryIncome:
			overview.IncomeCents += sum.TotalCents
		default:
			overview.ExpenseCents += sum.TotalCents
		}
	}
	return overview, nil
}
