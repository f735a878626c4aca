// =============================================================================
// HomeTax Batch Submitter - Record Store Contract
// =============================================================================
//
// The RecordStore is the capability contract over the row-oriented status
// store: read the transaction rows, write an outcome into a row's status
// cell, and append ledger rows for issued invoices. The per-row status cells
// double as the audit log; there is no separate log store.
//
// Writes must succeed-or-retry: the workbook is routinely open in a desktop
// Excel session, so implementations retry a bounded number of times on a
// busy/locked file before surfacing ErrBusy.
//
// =============================================================================

package store

import (
	"errors"

	"github.com/taxbill/hometax-submitter/internal/batch"
)

// ErrBusy is surfaced after bounded retries against a locked workbook.
var ErrBusy = errors.New("record store busy")

// =============================================================================
// LEDGER ENTRY
// =============================================================================

// LedgerEntry is one summary row for the invoice ledger sheet, written after
// a batch is successfully put on hold.
type LedgerEntry struct {
	// SupplyDate is the form's supply date (YYYYMMDD).
	SupplyDate string

	// PartyID and CompanyName identify the counter-party. CompanyName is the
	// remote system's registered name, not the sheet's.
	PartyID     string
	CompanyName string

	// ItemTitle summarizes the line items ("첫품목" or "첫품목 외 N개 품목").
	ItemTitle string

	// Spec and Quantity echo the first line item.
	Spec     string
	Quantity string

	// SupplyAmount, TaxAmount and TotalAmount are the remote-reported sums
	// in whole won.
	SupplyAmount int64
	TaxAmount    int64
	TotalAmount  int64

	// Period describes the covered dates and line count
	// ("250810-250831 4건", or a single ISO date for one line).
	Period string
}

// =============================================================================
// RECORD STORE
// =============================================================================

// RecordStore abstracts the spreadsheet the run reads from and reports into.
// Implementations are used from a single goroutine.
type RecordStore interface {
	// ReadRows returns every transaction line in spreadsheet row order.
	ReadRows() ([]batch.TransactionLine, error)

	// WriteStatus writes text into the status cell of the given source row.
	WriteStatus(rowID int, text string) error

	// WriteStatusForAllMatching writes text into the status cell of every
	// row whose registered-party id matches partyID. Used for outcome
	// classes that apply to the whole party, including rows belonging to
	// batches not yet processed.
	WriteStatusForAllMatching(partyID, text string) error

	// AppendLedgerEntry appends one invoice summary row to the ledger sheet.
	AppendLedgerEntry(e LedgerEntry) error

	// Close releases the underlying workbook handle.
	Close() error
}
