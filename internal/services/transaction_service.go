package services

import (
	"context"
	"fmt"

	"focolare/internal/amqp"
	"focolare/internal/core"
	"focolare/internal/storage"
)

// TransactionService owns the money records of a group.
type TransactionService struct {
	store  storage.Store
	gate   *Gate
	events Publisher
}

func NewTransactionService(store storage.Store, gate *Gate, events Publisher) *TransactionService {
	return &TransactionService{store: store, gate: gate, events: events}
}

// validateRefs checks that the referenced category (and asset source, when
// set) exist and belong to the transaction's group. A reference into a
// foreign group is invalid input, not access denied: the caller already
// passed the gate for its own group.
func (s *TransactionService) validateRefs(ctx context.Context, tx *core.Transaction) error {
	category, err := s.store.FindCategoryByID(ctx, tx.CategoryID)
	if err != nil {
		return err
	}
	if category.GroupID != tx.GroupID {
		return fmt.Errorf("%w: category belongs to another group", core.ErrInvalidInput)
	}
	if tx.AssetSourceID != "" {
		source, err := s.store.FindAssetSourceByID(ctx, tx.AssetSourceID)
		if err != nil {
			return err
		}
		if source.GroupID != tx.GroupID {
			return fmt.Errorf("%w: asset source belongs to another group", core.ErrInvalidInput)
		}
	}
	return nil
}

func (s *TransactionService) Create(ctx context.Context, userID string, tx *core.Transaction) (*core.Transaction, error) {
	if err := s.gate.VerifyAccess(ctx, tx.GroupID, userID); err != nil {
		return nil, err
	}
	tx.AuthorID = userID
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateRefs(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.store.InsertTransaction(ctx, tx); err != nil {
		return nil, err
	}

	publishActivity(ctx, s.events, amqp.NewActivityMessage(
		tx.GroupID, userID, amqp.KindTransactionCreated, tx.ID, tx.Payee))
	return tx, nil
}

func (s *TransactionService) FindByID(ctx context.Context, userID, transactionID string) (*core.Transaction, error) {
	tx, err := s.store.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.VerifyAccess(ctx, tx.GroupID, userID); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) ListByDateRange(ctx context.Context, userID, groupID string, start, end core.Date) ([]core.Transaction, error) {
	if err := s.gate.VerifyAccess(ctx, groupID, userID); err != nil {
		return nil, err
	}
	if end.Before(start.Time) {
		return nil, fmt.Errorf("%w: range end before range start", core.ErrInvalidInput)
	}
	return s.store.ListTransactionsByGroupAndDateRange(ctx, groupID, start, end)
}

// TransactionUpdate carries the mutable transaction fields.
type TransactionUpdate struct {
	Date          core.Date
	Amount        core.Money
	Payee         string
	CategoryID    string
	AssetType     core.AssetType
	AssetSourceID string
	Memo          string
}

func (s *TransactionService) Update(ctx context.Context, userID, transactionID string, update TransactionUpdate) (*core.Transaction, error) {
	tx, err := s.store.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.VerifyAccess(ctx, tx.GroupID, userID); err != nil {
		return nil, err
	}

	tx.Date = update.Date
	tx.Amount = update.Amount
	tx.Payee = update.Payee
	tx.CategoryID = update.CategoryID
	tx.AssetType = update.AssetType
	tx.AssetSourceID = update.AssetSourceID
	tx.Memo = update.Memo

	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := s.validateRefs(ctx, tx); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, transactionID string) error {
	tx, err := s.store.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := s.gate.VerifyAccess(ctx, tx.GroupID, userID); err != nil {
		return err
	}
	return s.store.DeleteTransaction(ctx, transactionID)
}
