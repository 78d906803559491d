package worker

import (
	"context"
	"errors"
	"testing"

	"focolare/internal/amqp"
	"focolare/internal/core"
	"focolare/internal/sheets"
	sheetsmem "focolare/internal/sheets/memory"
	"focolare/internal/storage/memory"
)

// flakyWriter fails until unblocked, then delegates to the in-memory store.
type flakyWriter struct {
	inner   *sheetsmem.Store
	failing bool
}

func (w *flakyWriter) AppendRows(ctx context.Context, rows []sheets.LedgerRow) error {
	if w.failing {
		return errors.New("spreadsheet unavailable")
	}
	return w.inner.AppendRows(ctx, rows)
}

func seedTransaction(t *testing.T, store *memory.Store) (groupID, txID string) {
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
	category := &core.Category{GroupID: group.ID, Name: "food", Kind: core.CategoryExpense}
	if err := store.InsertCategory(ctx, category); err != nil {
		t.Fatalf("InsertCategory() error = %v", err)
	}
	tx := &core.Transaction{
		GroupID:    group.ID,
		AuthorID:   user.ID,
		Date:       core.NewDate(2026, 2, 14),
		Amount:     core.Money{Cents: 2050},
		Payee:      "market",
		CategoryID: category.ID,
		AssetType:  core.AssetJoint,
	}
	if err := store.InsertTransaction(ctx, tx); err != nil {
		t.Fatalf("InsertTransaction() error = %v", err)
	}
	return group.ID, tx.ID
}

func TestHandleActivityMessage_WritesFeedRow(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groupID, _ := seedTransaction(t, store)
	w := NewActivityWorker(store, nil)

	msg := amqp.NewActivityMessage(groupID, "actor-1", amqp.KindScheduleCreated, "sched-1", "host created dentist")
	if err := w.HandleActivityMessage(ctx, msg); err != nil {
		t.Fatalf("HandleActivityMessage() error = %v", err)
	}

	feed, err := store.ListActivitiesByGroup(ctx, groupID, 10)
	if err != nil {
		t.Fatalf("ListActivitiesByGroup() error = %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("got %d activities, want 1", len(feed))
	}
	if feed[0].Kind != amqp.KindScheduleCreated || feed[0].RefID != "sched-1" {
		t.Errorf("activity = %+v", feed[0])
	}
	if feed[0].ID == "" {
		t.Error("activity should get an id")
	}
}

func TestHandleActivityMessage_ExportsTransaction(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groupID, txID := seedTransaction(t, store)
	ledger := sheetsmem.New()
	w := NewActivityWorker(store, ledger)

	msg := amqp.NewActivityMessage(groupID, "actor-1", amqp.KindTransactionCreated, txID, "host spent 20.50")
	if err := w.HandleActivityMessage(ctx, msg); err != nil {
		t.Fatalf("HandleActivityMessage() error = %v", err)
	}

	rows := ledger.Rows()
	if len(rows) != 1 {
		t.Fatalf("got %d ledger rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Date != "2026-02-14" || row.Payee != "market" || row.AmountCents != 2050 {
		t.Errorf("row = %+v", row)
	}
	if row.GroupName != "family" || row.Category != "food" {
		t.Errorf("row names = %+v", row)
	}
}

func TestHandleActivityMessage_MissingTransactionSkipsExport(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groupID, _ := seedTransaction(t, store)
	ledger := sheetsmem.New()
	w := NewActivityWorker(store, ledger)

	msg := amqp.NewActivityMessage(groupID, "actor-1", amqp.KindTransactionCreated, "missing", "")
	if err := w.HandleActivityMessage(ctx, msg); err != nil {
		t.Fatalf("HandleActivityMessage() error = %v", err)
	}
	if len(ledger.Rows()) != 0 {
		t.Errorf("got %d ledger rows, want 0", len(ledger.Rows()))
	}

	// The feed row is still written; only the export is skipped.
	feed, err := store.ListActivitiesByGroup(ctx, groupID, 10)
	if err != nil {
		t.Fatalf("ListActivitiesByGroup() error = %v", err)
	}
	if len(feed) != 1 {
		t.Errorf("got %d activities, want 1", len(feed))
	}
}

func TestFlushPending_RetriesParkedRows(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	groupID, txID := seedTransaction(t, store)
	writer := &flakyWriter{inner: sheetsmem.New(), failing: true}
	w := NewActivityWorker(store, writer)

	msg := amqp.NewActivityMessage(groupID, "actor-1", amqp.KindTransactionCreated, txID, "")
	if err := w.HandleActivityMessage(ctx, msg); err != nil {
		t.Fatalf("HandleActivityMessage() error = %v", err)
	}
	if got := w.PendingCount(); got != 1 {
		t.Fatalf("PendingCount() = %d, want 1", got)
	}

	// Still failing: the row stays parked.
	if err := w.FlushPending(ctx); err == nil {
		t.Fatal("FlushPending() = nil, want error while writer fails")
	}
	if got := w.PendingCount(); got != 1 {
		t.Fatalf("PendingCount() after failed flush = %d, want 1", got)
	}

	writer.failing = false
	if err := w.FlushPending(ctx); err != nil {
		t.Fatalf("FlushPending() error = %v", err)
	}
	if got := w.PendingCount(); got != 0 {
		t.Errorf("PendingCount() after flush = %d, want 0", got)
	}
	if len(writer.inner.Rows()) != 1 {
		t.Errorf("got %d ledger rows, want 1", len(writer.inner.Rows()))
	}
}
