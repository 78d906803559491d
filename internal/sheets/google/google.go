// Package google adapts the ledger export port to the Google Sheets API
// using a service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"focolare/internal/config"
	"focolare/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ sheets.LedgerWriter = (*Client)(nil)

// New builds a Sheets client from the configured spreadsheet and service
// account credentials. Credentials come from inline JSON or a file path,
// whichever the config carries.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.GoogleSpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := strings.TrimSpace(cfg.GoogleSheetName)
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func loadCredentials(cfg *config.Config) ([]byte, error) {
	if inline := strings.TrimSpace(cfg.GoogleCredentialsJSON); inline != "" {
		return []byte(inline), nil
	}
	if file := strings.TrimSpace(cfg.GoogleCredentialsFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("missing service account credentials")
}

// AppendRows appends the ledger rows below the existing data on the
// configured sheet. Amounts are written in decimal units.
func (c *Client) AppendRows(ctx context.Context, rows []sheets.LedgerRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(rows) == 0 {
		return nil
	}

	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, []any{
			row.Date,
			row.GroupName,
			row.Payee,
			row.Category,
			float64(row.AmountCents) / 100.0,
			row.AssetType,
			row.AssetSource,
			row.Memo,
		})
	}

	rng := fmt.Sprintf("%s!A:H", c.sheetName)
	vr := &gsheet.ValueRange{Values: values}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}
	return nil
}
