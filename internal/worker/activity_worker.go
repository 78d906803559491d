// Package worker materializes activity events into the feed table and
// mirrors new transactions to the spreadsheet ledger.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"focolare/internal/amqp"
	"focolare/internal/core"
	"focolare/internal/sheets"
	"focolare/internal/storage"
)

// ActivityWorker consumes activity messages from the queue. Every message
// becomes a row in the group's activity feed; transaction events are
// additionally appended to the ledger sheet when a writer is configured.
type ActivityWorker struct {
	store  storage.Store
	ledger sheets.LedgerWriter

	mu      sync.Mutex
	pending []sheets.LedgerRow
}

func NewActivityWorker(store storage.Store, ledger sheets.LedgerWriter) *ActivityWorker {
	return &ActivityWorker{store: store, ledger: ledger}
}

// HandleActivityMessage processes one message. A storage failure is returned
// so the consumer requeues the delivery; ledger export failures are parked
// for the next flush instead.
func (w *ActivityWorker) HandleActivityMessage(ctx context.Context, msg *amqp.ActivityMessage) error {
	slog.InfoContext(ctx, "Processing activity message",
		"group_id", msg.GroupID,
		"kind", msg.Kind,
		"ref_id", msg.RefID)

	occurredAt := msg.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	activity := &core.Activity{
		ID:        uuid.NewString(),
		GroupID:   msg.GroupID,
		ActorID:   msg.ActorID,
		Kind:      msg.Kind,
		RefID:     msg.RefID,
		Message:   msg.Message,
		CreatedAt: occurredAt,
	}
	if err := w.store.InsertActivity(ctx, activity); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	if msg.Kind == amqp.KindTransactionCreated && w.ledger != nil {
		w.exportTransaction(ctx, msg.RefID)
	}
	return nil
}

// exportTransaction looks the transaction up and appends it to the ledger.
// Failures never bounce the message; the row is parked and retried by
// FlushPending.
func (w *ActivityWorker) exportTransaction(ctx context.Context, transactionID string) {
	tx, err := w.store.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			slog.WarnContext(ctx, "Transaction gone before export, skipping",
				"transaction_id", transactionID)
			return
		}
		slog.ErrorContext(ctx, "Failed to load transaction for export",
			"transaction_id", transactionID,
			"error", err)
		return
	}

	row := w.buildLedgerRow(ctx, tx)
	if err := w.ledger.AppendRows(ctx, []sheets.LedgerRow{row}); err != nil {
		slog.WarnContext(ctx, "Ledger append failed, parking row",
			"transaction_id", transactionID,
			"error", err)
		w.mu.Lock()
		w.pending = append(w.pending, row)
		w.mu.Unlock()
		return
	}

	slog.InfoContext(ctx, "Transaction exported to ledger",
		"transaction_id", transactionID)
}

func (w *ActivityWorker) buildLedgerRow(ctx context.Context, tx *core.Transaction) sheets.LedgerRow {
	row := sheets.LedgerRow{
		Date:        tx.Date.String(),
		Payee:       tx.Payee,
		AssetType:   string(tx.AssetType),
		Memo:        tx.Memo,
		AmountCents: tx.Amount.Cents,
	}
	if group, err := w.store.FindGroupByID(ctx, tx.GroupID); err == nil {
		row.GroupName = group.Name
	}
	if category, err := w.store.FindCategoryByID(ctx, tx.CategoryID); err == nil {
		row.Category = category.Name
	}
	if tx.AssetSourceID != "" {
		if source, err := w.store.FindAssetSourceByID(ctx, tx.AssetSourceID); err == nil {
			row.AssetSource = source.Name
		}
	}
	return row
}

// FlushPending retries every parked ledger row in one append. Rows are
// re-parked on failure.
func (w *ActivityWorker) FlushPending(ctx context.Context) error {
	w.mu.Lock()
	rows := w.pending
	w.pending = nil
	w.mu.Unlock()

	if len(rows) == 0 {
		return nil
	}

	if err := w.ledger.AppendRows(ctx, rows); err != nil {
		w.mu.Lock()
		w.pending = append(rows, w.pending...)
		w.mu.Unlock()
		return fmt.Errorf("flush %d pending ledger rows: %w", len(rows), err)
	}

	slog.InfoContext(ctx, "Flushed pending ledger rows", "count", len(rows))
	return nil
}

// PendingCount reports how many ledger rows await a retry.
func (w *ActivityWorker) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// RunFlusher retries parked ledger rows on the given interval until the
// context is cancelled. A backup for lost or failed appends.
func (w *ActivityWorker) RunFlusher(ctx context.Context, interval time.Duration) {
	if w.ledger == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.FlushPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending ledger flush failed", "error", err)
			}
		}
	}
}
