package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"focolare/internal/core"
	"focolare/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "focolare.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedGroup(t *testing.T, store *Store) (userID, groupID string) {
	t.Helper()
	ctx := context.Background()
	user := &core.User{Email: "host@example.com", Nickname: "host", PasswordHash: "x"}
	if err := store.InsertUser(ctx, user); err != nil {
		t.Fatalf("InsertUser() error = %v", err)
	}
	group := &core.Group{Name: "family", Kind: core.GroupShared, HostID: user.ID, BudgetStartDay: 1}
	if err := store.InsertGroup(ctx, group); err != nil {
		t.Fatalf("InsertGroup() error = %v", err)
	}
	m := &core.Membership{GroupID: group.ID, UserID: user.ID, Status: core.MembershipAccepted, Role: core.RoleHost}
	if err := store.InsertMembership(ctx, m); err != nil {
		t.Fatalf("InsertMembership() error = %v", err)
	}
	return user.ID, group.ID
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error = %v", s, err)
	}
	return d
}

func TestUserEmailUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &core.User{Email: "dup@example.com", Nickname: "a", PasswordHash: "x"}
	if err := store.InsertUser(ctx, first); err != nil {
		t.Fatalf("InsertUser() error = %v", err)
	}
	second := &core.User{Email: "dup@example.com", Nickname: "b", PasswordHash: "y"}
	if err := store.InsertUser(ctx, second); !errors.Is(err, core.ErrEmailTaken) {
		t.Fatalf("InsertUser() error = %v, want ErrEmailTaken", err)
	}
}

func TestMembershipGateQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID, groupID := seedGroup(t, store)

	ok, err := store.ExistsAcceptedMembership(ctx, groupID, userID)
	if err != nil {
		t.Fatalf("ExistsAcceptedMembership() error = %v", err)
	}
	if !ok {
		t.Error("accepted member not found by gate query")
	}

	ok, err = store.ExistsAcceptedMembership(ctx, groupID, "stranger")
	if err != nil {
		t.Fatalf("ExistsAcceptedMembership() error = %v", err)
	}
	if ok {
		t.Error("non-member passed gate query")
	}

	// Invited members do not count until accepted.
	guest := &core.User{Email: "guest@example.com", Nickname: "guest", PasswordHash: "x"}
	if err := store.InsertUser(ctx, guest); err != nil {
		t.Fatalf("InsertUser() error = %v", err)
	}
	m := &core.Membership{GroupID: groupID, UserID: guest.ID, Status: core.MembershipInvited, Role: core.RoleGuest}
	if err := store.InsertMembership(ctx, m); err != nil {
		t.Fatalf("InsertMembership() error = %v", err)
	}
	ok, _ = store.ExistsAcceptedMembership(ctx, groupID, guest.ID)
	if ok {
		t.Error("invited member passed gate query")
	}
	count, err := store.CountAcceptedMembers(ctx, groupID)
	if err != nil {
		t.Fatalf("CountAcceptedMembers() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountAcceptedMembers() = %d, want 1", count)
	}

	if err := store.UpdateMembershipStatus(ctx, groupID, guest.ID, core.MembershipAccepted); err != nil {
		t.Fatalf("UpdateMembershipStatus() error = %v", err)
	}
	count, _ = store.CountAcceptedMembers(ctx, groupID)
	if count != 2 {
		t.Errorf("CountAcceptedMembers() after accept = %d, want 2", count)
	}
}

func TestScheduleRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID, groupID := seedGroup(t, store)

	end := mustDate(t, "2026-03-02")
	startTime, _ := core.ParseTimeOfDay("09:30")
	endTime, _ := core.ParseTimeOfDay("10:15")
	sched := &core.Schedule{
		GroupID:   groupID,
		AuthorID:  userID,
		Title:     "dentist",
		StartDate: mustDate(t, "2026-03-02"),
		EndDate:   &end,
		StartTime: &startTime,
		EndTime:   &endTime,
		AssetType: core.AssetPersonal,
		Category:  core.ScheduleAppointment,
		Memo:      "bring insurance card",
	}
	if err := store.InsertSchedule(ctx, sched); err != nil {
		t.Fatalf("InsertSchedule() error = %v", err)
	}
	if sched.ID == "" {
		t.Fatal("InsertSchedule() did not assign an id")
	}

	got, err := store.FindScheduleByID(ctx, sched.ID)
	if err != nil {
		t.Fatalf("FindScheduleByID() error = %v", err)
	}
	if got.Title != "dentist" || got.StartDate.String() != "2026-03-02" {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if got.StartTime == nil || got.StartTime.String() != "09:30" {
		t.Errorf("StartTime = %v, want 09:30", got.StartTime)
	}
	if got.EndDate == nil || got.EndDate.String() != "2026-03-02" {
		t.Errorf("EndDate = %v, want 2026-03-02", got.EndDate)
	}

	got.Title = "dentist (rescheduled)"
	got.StartTime = nil
	got.EndTime = nil
	got.AllDay = true
	if err := store.UpdateSchedule(ctx, got); err != nil {
		t.Fatalf("UpdateSchedule() error = %v", err)
	}
	updated, _ := store.FindScheduleByID(ctx, sched.ID)
	if updated.StartTime != nil || !updated.AllDay {
		t.Errorf("update did not clear times: %+v", updated)
	}

	if err := store.DeleteSchedule(ctx, sched.ID); err != nil {
		t.Fatalf("DeleteSchedule() error = %v", err)
	}
	if _, err := store.FindScheduleByID(ctx, sched.ID); !errors.Is(err, core.ErrScheduleNotFound) {
		t.Fatalf("FindScheduleByID() after delete error = %v, want ErrScheduleNotFound", err)
	}
	if err := store.DeleteSchedule(ctx, sched.ID); !errors.Is(err, core.ErrScheduleNotFound) {
		t.Fatalf("second DeleteSchedule() error = %v, want ErrScheduleNotFound", err)
	}
}

func TestFindSchedulesByGroupAndDateRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID, groupID := seedGroup(t, store)

	other := &core.User{Email: "other@example.com", Nickname: "other", PasswordHash: "x"}
	if err := store.InsertUser(ctx, other); err != nil {
		t.Fatalf("InsertUser() error = %v", err)
	}

	insert := func(title, start, end string, startTime string, author string, asset core.AssetType) {
		t.Helper()
		sched := &core.Schedule{
			GroupID:   groupID,
			AuthorID:  author,
			Title:     title,
			StartDate: mustDate(t, start),
			AllDay:    startTime == "",
			AssetType: asset,
			Category:  core.ScheduleEtc,
		}
		if end != "" {
			d := mustDate(t, end)
			sched.EndDate = &d
		}
		if startTime != "" {
			tod, _ := core.ParseTimeOfDay(startTime)
			sched.StartTime = &tod
			endTod, _ := core.ParseTimeOfDay("23:00")
			sched.EndTime = &endTod
		}
		if err := store.InsertSchedule(ctx, sched); err != nil {
			t.Fatalf("InsertSchedule(%s) error = %v", title, err)
		}
	}

	// Spans into the queried month from January.
	insert("spanning", "2026-01-28", "2026-02-05", "", userID, core.AssetJoint)
	// Timed and all-day on the same day, to check ordering.
	insert("timed", "2026-02-05", "", "08:00", userID, core.AssetPersonal)
	// Authored by someone else.
	insert("theirs", "2026-02-10", "", "12:00", other.ID, core.AssetJoint)
	// Entirely outside the window.
	insert("before", "2026-01-20", "2026-01-27", "", userID, core.AssetPersonal)
	insert("after", "2026-03-01", "", "", userID, core.AssetPersonal)

	queryStart := mustDate(t, "2026-02-01")
	queryEnd := mustDate(t, "2026-02-28")

	t.Run("unfiltered", func(t *testing.T) {
		got, err := store.FindSchedulesByGroupAndDateRange(ctx, groupID, queryStart, queryEnd, storage.ScheduleFilter{})
		if err != nil {
			t.Fatalf("FindSchedulesByGroupAndDateRange() error = %v", err)
		}
		titles := make([]string, len(got))
		for i, s := range got {
			titles[i] = s.Title
		}
		want := []string{"spanning", "timed", "theirs"}
		if len(titles) != len(want) {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
		for i := range want {
			if titles[i] != want[i] {
				t.Fatalf("titles = %v, want %v", titles, want)
			}
		}
	})

	t.Run("author filter", func(t *testing.T) {
		got, err := store.FindSchedulesByGroupAndDateRange(ctx, groupID, queryStart, queryEnd,
			storage.ScheduleFilter{AuthorID: other.ID})
		if err != nil {
			t.Fatalf("FindSchedulesByGroupAndDateRange() error = %v", err)
		}
		if len(got) != 1 || got[0].Title != "theirs" {
			t.Fatalf("got %d schedules, want exactly [theirs]", len(got))
		}
	})

	t.Run("asset filter", func(t *testing.T) {
		got, err := store.FindSchedulesByGroupAndDateRange(ctx, groupID, queryStart, queryEnd,
			storage.ScheduleFilter{AssetType: core.AssetJoint})
		if err != nil {
			t.Fatalf("FindSchedulesByGroupAndDateRange() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d joint schedules, want 2", len(got))
		}
	})

	t.Run("author wins over asset", func(t *testing.T) {
		got, err := store.FindSchedulesByGroupAndDateRange(ctx, groupID, queryStart, queryEnd,
			storage.ScheduleFilter{AuthorID: userID, AssetType: core.AssetJoint})
		if err != nil {
			t.Fatalf("FindSchedulesByGroupAndDateRange() error = %v", err)
		}
		for _, s := range got {
			if s.AuthorID != userID {
				t.Errorf("schedule %q authored by %s leaked through author filter", s.Title, s.AuthorID)
			}
		}
	})

	t.Run("all-day sorts before timed on same day", func(t *testing.T) {
		insert("allday-feb5", "2026-02-05", "", "", userID, core.AssetPersonal)
		got, err := store.FindSchedulesByGroupAndDateRange(ctx, groupID,
			mustDate(t, "2026-02-05"), mustDate(t, "2026-02-05"), storage.ScheduleFilter{})
		if err != nil {
			t.Fatalf("FindSchedulesByGroupAndDateRange() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d schedules on 02-05, want 3", len(got))
		}
		if got[len(got)-1].Title != "timed" {
			t.Errorf("timed entry not last: %v", got[len(got)-1].Title)
		}
	})
}

func TestRepeatGroupBatchAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID, groupID := seedGroup(t, store)

	seedID := "seed-id"
	series := make([]core.Schedule, 0, 4)
	for i, start := range []string{"2026-02-01", "2026-02-08", "2026-02-15", "2026-02-22"} {
		sched := core.Schedule{
			GroupID:       groupID,
			AuthorID:      userID,
			Title:         "weekly standup",
			StartDate:     mustDate(t, start),
			AllDay:        true,
			AssetType:     core.AssetJoint,
			Category:      core.ScheduleEtc,
			RepeatType:    core.RepeatWeekly,
			RepeatGroupID: seedID,
		}
		if i == 0 {
			sched.ID = seedID
		}
		series = append(series, sched)
	}
	if err := store.InsertSchedules(ctx, series); err != nil {
		t.Fatalf("InsertSchedules() error = %v", err)
	}

	got, err := store.FindSchedulesByRepeatGroupID(ctx, seedID)
	if err != nil {
		t.Fatalf("FindSchedulesByRepeatGroupID() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("series has %d rows, want 4", len(got))
	}
	if got[0].ID != seedID {
		t.Errorf("seed not first in series: %s", got[0].ID)
	}

	deleted, err := store.DeleteSchedulesByRepeatGroupID(ctx, seedID)
	if err != nil {
		t.Fatalf("DeleteSchedulesByRepeatGroupID() error = %v", err)
	}
	if deleted != 4 {
		t.Errorf("deleted %d rows, want 4", deleted)
	}
	if _, err := store.FindScheduleByID(ctx, seedID); !errors.Is(err, core.ErrScheduleNotFound) {
		t.Fatalf("seed still present after series delete: %v", err)
	}
	deleted, err = store.DeleteSchedulesByRepeatGroupID(ctx, seedID)
	if err != nil {
		t.Fatalf("second DeleteSchedulesByRepeatGroupID() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("second delete removed %d rows, want 0", deleted)
	}
}

func TestTransactionsAndCategorySums(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID, groupID := seedGroup(t, store)

	food := &core.Category{GroupID: groupID, Name: "food", Kind: core.CategoryExpense}
	rent := &core.Category{GroupID: groupID, Name: "rent", Kind: core.CategoryExpense}
	for _, c := range []*core.Category{food, rent} {
		if err := store.InsertCategory(ctx, c); err != nil {
			t.Fatalf("InsertCategory() error = %v", err)
		}
	}
	card := &core.AssetSource{GroupID: groupID, Name: "credit card", Color: "#ff0000"}
	if err := store.InsertAssetSource(ctx, card); err != nil {
		t.Fatalf("InsertAssetSource() error = %v", err)
	}

	insert := func(date string, cents int64, categoryID, sourceID string) {
		t.Helper()
		tx := &core.Transaction{
			GroupID:       groupID,
			AuthorID:      userID,
			Date:          mustDate(t, date),
			Amount:        core.Money{Cents: cents},
			Payee:         "shop",
			CategoryID:    categoryID,
			AssetType:     core.AssetJoint,
			AssetSourceID: sourceID,
		}
		if err := store.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("InsertTransaction() error = %v", err)
		}
	}

	insert("2026-02-03", 1250, food.ID, card.ID)
	insert("2026-02-10", 800, food.ID, "")
	insert("2026-02-01", 90000, rent.ID, card.ID)
	insert("2026-03-01", 5000, food.ID, "")

	txs, err := store.ListTransactionsByGroupAndDateRange(ctx, groupID,
		mustDate(t, "2026-02-01"), mustDate(t, "2026-02-28"))
	if err != nil {
		t.Fatalf("ListTransactionsByGroupAndDateRange() error = %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions in February, want 3", len(txs))
	}
	if txs[0].Date.String() != "2026-02-01" {
		t.Errorf("transactions not ordered by date: first is %s", txs[0].Date)
	}

	sums, err := store.SumTransactionsByCategory(ctx, groupID,
		mustDate(t, "2026-02-01"), mustDate(t, "2026-02-28"))
	if err != nil {
		t.Fatalf("SumTransactionsByCategory() error = %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("got %d category sums, want 2", len(sums))
	}
	if sums[0].CategoryName != "rent" || sums[0].TotalCents != 90000 {
		t.Errorf("largest sum = %+v, want rent 90000", sums[0])
	}
	if sums[1].CategoryName != "food" || sums[1].TotalCents != 2050 {
		t.Errorf("second sum = %+v, want food 2050", sums[1])
	}
}

func TestActivityFeed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID, groupID := seedGroup(t, store)

	for i := 0; i < 3; i++ {
		a := &core.Activity{
			GroupID: groupID,
			ActorID: userID,
			Kind:    "schedule.created",
			RefID:   "ref",
			Message: "created a schedule",
		}
		if err := store.InsertActivity(ctx, a); err != nil {
			t.Fatalf("InsertActivity() error = %v", err)
		}
	}

	got, err := store.ListActivitiesByGroup(ctx, groupID, 2)
	if err != nil {
		t.Fatalf("ListActivitiesByGroup() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d activities with limit 2, want 2", len(got))
	}
}
