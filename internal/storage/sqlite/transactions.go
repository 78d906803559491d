package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"focolare/internal/core"
	"focolare/internal/storage"
)

const transactionColumns = `id, group_id, author_id, tx_date, amount_cents,
	payee, category_id, asset_type, asset_source_id, memo, created_at`

func (s *Store) InsertTransaction(ctx context.Context, tx *core.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	var assetSource any
	if tx.AssetSourceID != "" {
		assetSource = tx.AssetSourceID
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (id, group_id, author_id, tx_date, amount_cents, payee, category_id,
		  asset_type, asset_source_id, memo, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.GroupID, tx.AuthorID, tx.Date.String(), tx.Amount.Cents,
		tx.Payee, tx.CategoryID, string(tx.AssetType), assetSource, tx.Memo, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var (
		tx          core.Transaction
		txDate      string
		assetType   string
		assetSource sql.NullString
	)
	err := row.Scan(&tx.ID, &tx.GroupID, &tx.AuthorID, &txDate, &tx.Amount.Cents,
		&tx.Payee, &tx.CategoryID, &assetType, &assetSource, &tx.Memo, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}
	if tx.Date, err = core.ParseDate(txDate); err != nil {
		return nil, fmt.Errorf("stored transaction date: %w", err)
	}
	tx.AssetType = core.AssetType(assetType)
	if assetSource.Valid {
		tx.AssetSourceID = assetSource.String
	}
	return &tx, nil
}

func (s *Store) FindTransactionByID(ctx context.Context, id string) (*core.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return tx, nil
}

func (s *Store) ListTransactionsByGroupAndDateRange(ctx context.Context, groupID string, start, end core.Date) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE group_id = ? AND tx_date >= ? AND tx_date <= ?
		 ORDER BY tx_date, id`,
		groupID, start.String(), end.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *core.Transaction) error {
	var assetSource any
	if tx.AssetSourceID != "" {
		assetSource = tx.AssetSourceID
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET tx_date = ?, amount_cents = ?, payee = ?,
		 category_id = ?, asset_type = ?, asset_source_id = ?, memo = ?
		 WHERE id = ?`,
		tx.Date.String(), tx.Amount.Cents, tx.Payee, tx.CategoryID,
		string(tx.AssetType), assetSource, tx.Memo, tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrTransactionNotFound
	}
	return nil
}

func (s *Store) SumTransactionsByCategory(ctx context.Context, groupID string, start, end core.Date) ([]storage.CategorySum, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.category_id, COALESCE(c.name, ''), COALESCE(c.kind, 'expense'),
		        SUM(t.amount_cents) AS total
		 FROM transactions t
		 LEFT JOIN categories c ON c.id = t.category_id
		 WHERE t.group_id = ? AND t.tx_date >= ? AND t.tx_date <= ?
		 GROUP BY t.category_id
		 ORDER BY total DESC`,
		groupID, start.String(), end.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("sum transactions: %w", err)
	}
	defer rows.Close()

	var sums []storage.CategorySum
	for rows.Next() {
		var (
			sum  storage.CategorySum
			kind string
		)
		if err := rows.Scan(&sum.CategoryID, &sum.CategoryName, &kind, &sum.TotalCents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		sum.Kind = core.CategoryKind(kind)
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}
