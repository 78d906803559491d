// Package sheets defines the outbound port for the spreadsheet ledger
// export. The worker appends transaction rows through it; adapters live in
// sheets/google (production) and sheets/memory (tests).
package sheets

import "context"

// LedgerRow is one exported transaction, flattened to spreadsheet cells.
type LedgerRow struct {
	Date        string
	GroupName   string
	Payee       string
	Category    string
	AssetType   string
	AssetSource string
	Memo        string
	AmountCents int64
}

type LedgerWriter interface {
	AppendRows(ctx context.Context, rows []LedgerRow) error
}
