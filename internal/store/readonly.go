// =============================================================================
// HomeTax Batch Submitter - Read-Only Store Wrapper
// =============================================================================
//
// ReadOnly wraps a RecordStore for dry runs: reads pass through, writes are
// recorded in memory and never reach the workbook.
//
// =============================================================================

package store

import "github.com/taxbill/hometax-submitter/internal/batch"

// RecordedWrite is one suppressed write, kept for the dry-run report.
type RecordedWrite struct {
	// RowID is the target row, or 0 for an all-matching write.
	RowID int

	// PartyID is set for all-matching writes.
	PartyID string

	// Text is the status that would have been written.
	Text string
}

// ReadOnly is a RecordStore decorator that suppresses all writes.
type ReadOnly struct {
	Inner RecordStore

	// Writes accumulates every suppressed status write in call order.
	Writes []RecordedWrite

	// Ledger accumulates every suppressed ledger append.
	Ledger []LedgerEntry
}

// NewReadOnly wraps inner for a dry run.
func NewReadOnly(inner RecordStore) *ReadOnly {
	return &ReadOnly{Inner: inner}
}

func (r *ReadOnly) ReadRows() ([]batch.TransactionLine, error) {
	return r.Inner.ReadRows()
}

func (r *ReadOnly) WriteStatus(rowID int, text string) error {
	r.Writes = append(r.Writes, RecordedWrite{RowID: rowID, Text: text})
	return nil
}

func (r *ReadOnly) WriteStatusForAllMatching(partyID, text string) error {
	r.Writes = append(r.Writes, RecordedWrite{PartyID: partyID, Text: text})
	return nil
}

func (r *ReadOnly) AppendLedgerEntry(e LedgerEntry) error {
	r.Ledger = append(r.Ledger, e)
	return nil
}

func (r *ReadOnly) Close() error {
	return r.Inner.Close()
}
