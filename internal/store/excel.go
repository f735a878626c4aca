// =============================================================================
// HomeTax Batch Submitter - Excel Record Store
// =============================================================================
//
// Workbook-backed RecordStore implementation on excelize. The workbook layout
// (sheet names, column letters, header rows) comes from configuration; cell
// values are normalized through the format package while reading so the rest
// of the engine only ever sees canonical values.
//
// The workbook is typically also open in a desktop Excel session. A save can
// therefore fail with a sharing violation at any time; every write goes
// through saveWithRetry, which retries a bounded number of times before
// reporting ErrBusy. A failed status write never rolls back a submission that
// already succeeded remotely - the caller decides how loudly to complain.
//
// =============================================================================

package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/taxbill/hometax-submitter/internal/batch"
	"github.com/taxbill/hometax-submitter/internal/config"
	"github.com/taxbill/hometax-submitter/internal/format"
)

// =============================================================================
// EXCEL STORE
// =============================================================================

// ExcelStore reads and writes one .xlsx workbook.
type ExcelStore struct {
	file *excelize.File
	cfg  config.WorkbookConfig

	retryAttempts int
	retryDelay    time.Duration

	// sleep is swapped out by tests.
	sleep func(time.Duration)
}

// Open opens the workbook described by the configuration.
func Open(cfg *config.Config) (*ExcelStore, error) {
	f, err := excelize.OpenFile(cfg.Workbook.Path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", cfg.Workbook.Path, err)
	}

	return &ExcelStore{
		file:          f,
		cfg:           cfg.Workbook,
		retryAttempts: cfg.Submission.StoreRetryAttempts,
		retryDelay:    cfg.Submission.StoreRetryDelay(),
		sleep:         time.Sleep,
	}, nil
}

// Close releases the workbook handle.
func (s *ExcelStore) Close() error {
	return s.file.Close()
}

// =============================================================================
// READING
// =============================================================================

// ReadRows reads every transaction line from the configured sheet, in row
// order. Header rows and rows without a registered-party id are skipped.
// Values are normalized: party ids to digits, dates to YYYYMMDD, amounts to
// whole won.
func (s *ExcelStore) ReadRows() ([]batch.TransactionLine, error) {
	rows, err := s.file.GetRows(s.cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", s.cfg.Sheet, err)
	}

	cols := s.cfg.Columns
	var lines []batch.TransactionLine

	for i, row := range rows {
		if i < s.cfg.HeaderRows {
			continue
		}

		partyID := format.RegistrationNumber(cell(row, cols.PartyID))
		if partyID == "" {
			continue
		}

		lines = append(lines, batch.TransactionLine{
			PartyID:      partyID,
			CompanyName:  strings.TrimSpace(cell(row, cols.CompanyName)),
			DocumentDate: format.Date(cell(row, cols.DocumentDate)),
			ItemName:     strings.TrimSpace(cell(row, cols.ItemName)),
			Spec:         strings.TrimSpace(cell(row, cols.Spec)),
			Quantity:     strings.TrimSpace(cell(row, cols.Quantity)),
			UnitPrice:    currencyOrBlank(cell(row, cols.UnitPrice)),
			SupplyAmount: format.ParseAmount(cell(row, cols.SupplyAmount)),
			TaxAmount:    format.ParseAmount(cell(row, cols.TaxAmount)),
			PaymentHint:  strings.TrimSpace(cell(row, cols.PaymentHint)),
			CashAmount:   format.ParseAmount(cell(row, cols.CashAmount)),
			SourceRow:    i + 1, // spreadsheet rows are 1-based
		})
	}

	return lines, nil
}

// cell returns the value at the given column letter within a row slice.
// excelize trims trailing empty cells, so out-of-range reads are blank.
func cell(row []string, column string) string {
	n, err := excelize.ColumnNameToNumber(column)
	if err != nil || n > len(row) {
		return ""
	}
	return row[n-1]
}

// currencyOrBlank normalizes a currency cell but keeps genuinely empty cells
// empty, so optional fields are not entered as literal zeros.
func currencyOrBlank(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return format.Currency(raw)
}

// =============================================================================
// STATUS WRITE-BACK
// =============================================================================

// WriteStatus writes text into the status cell of one source row.
func (s *ExcelStore) WriteStatus(rowID int, text string) error {
	cellRef := fmt.Sprintf("%s%d", s.cfg.StatusColumn, rowID)
	if err := s.file.SetCellStr(s.cfg.Sheet, cellRef, text); err != nil {
		return fmt.Errorf("set status cell %s: %w", cellRef, err)
	}
	return s.saveWithRetry()
}

// WriteStatusForAllMatching writes text into the status cell of every row
// whose registered-party id matches partyID (after normalization). All cells
// are updated in memory first so the workbook is saved once.
func (s *ExcelStore) WriteStatusForAllMatching(partyID, text string) error {
	rows, err := s.file.GetRows(s.cfg.Sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", s.cfg.Sheet, err)
	}

	want := format.RegistrationNumber(partyID)
	matched := 0

	for i, row := range rows {
		if i < s.cfg.HeaderRows {
			continue
		}
		if format.RegistrationNumber(cell(row, s.cfg.Columns.PartyID)) != want {
			continue
		}
		cellRef := fmt.Sprintf("%s%d", s.cfg.StatusColumn, i+1)
		if err := s.file.SetCellStr(s.cfg.Sheet, cellRef, text); err != nil {
			return fmt.Errorf("set status cell %s: %w", cellRef, err)
		}
		matched++
	}

	if matched == 0 {
		return nil
	}
	return s.saveWithRetry()
}

// =============================================================================
// LEDGER
// =============================================================================

// AppendLedgerEntry appends one invoice summary row to the ledger sheet,
// creating the sheet on first use.
func (s *ExcelStore) AppendLedgerEntry(e LedgerEntry) error {
	sheet := s.cfg.LedgerSheet

	idx, err := s.file.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("ledger sheet lookup: %w", err)
	}
	if idx < 0 {
		if _, err := s.file.NewSheet(sheet); err != nil {
			return fmt.Errorf("create ledger sheet %s: %w", sheet, err)
		}
	}

	rows, err := s.file.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read ledger sheet %s: %w", sheet, err)
	}
	next := len(rows) + 1

	values := []interface{}{
		e.SupplyDate,
		e.PartyID,
		e.CompanyName,
		e.ItemTitle,
		e.Spec,
		e.Quantity,
		e.SupplyAmount,
		e.TaxAmount,
		e.TotalAmount,
		e.Period,
	}
	for col, v := range values {
		cellRef, err := excelize.CoordinatesToCellName(col+1, next)
		if err != nil {
			return fmt.Errorf("ledger cell name: %w", err)
		}
		if err := s.file.SetCellValue(sheet, cellRef, v); err != nil {
			return fmt.Errorf("set ledger cell %s: %w", cellRef, err)
		}
	}

	return s.saveWithRetry()
}

// =============================================================================
// SAVE / RETRY
// =============================================================================

// saveWithRetry saves the workbook, retrying on a busy/locked file. After the
// configured attempts are exhausted the error is wrapped in ErrBusy so
// callers can distinguish contention from corruption.
func (s *ExcelStore) saveWithRetry() error {
	attempts := s.retryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			s.sleep(s.retryDelay)
		}
		last = s.file.Save()
		if last == nil {
			return nil
		}
		if !isBusy(last) {
			return fmt.Errorf("save workbook: %w", last)
		}
	}
	return fmt.Errorf("%w: %v", ErrBusy, last)
}

// isBusy recognizes the sharing-violation shapes a locked workbook produces
// on Windows and the POSIX equivalents.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"being used by another process",
		"sharing violation",
		"permission denied",
		"access is denied",
		"resource busy",
		"resource temporarily unavailable",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
