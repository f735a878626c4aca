package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/taxbill/hometax-submitter/internal/config"
)

// =============================================================================
// FIXTURES
// =============================================================================

func testStoreConfig(path string) *config.Config {
	return &config.Config{
		Workbook: config.WorkbookConfig{
			Path:         path,
			Sheet:        "거래처",
			LedgerSheet:  "세금계산서",
			HeaderRows:   1,
			StatusColumn: "Q",
			Columns: config.ColumnMap{
				DocumentDate: "A",
				PartyID:      "B",
				CompanyName:  "C",
				ItemName:     "D",
				Spec:         "E",
				Quantity:     "F",
				UnitPrice:    "G",
				SupplyAmount: "H",
				TaxAmount:    "I",
				PaymentHint:  "J",
				CashAmount:   "K",
			},
		},
		Submission: config.SubmissionConfig{StoreRetryAttempts: 1},
	}
}

func writeTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	const sheet = "거래처"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	f.SetActiveSheet(idx)

	rows := [][]interface{}{
		{"날짜", "등록번호", "상호", "품목", "규격", "수량", "단가", "공급가액", "세액", "구분", "입금액"},
		{"2025-08-01", "111-11-11111", "가나상사", "철근", "D10", "5", "20,000", "100,000", "10,000", "", ""},
		{"2025-08-02", "222-22-22222", "다라건설", "시멘트", "", "", "", "200,000", "20,000", "수표", "220,000"},
		{"", "", "", "", "", "", "", "", "", "", ""}, // blank row skipped
		{"2025-08-03", "111-11-11111", "가나상사", "모래", "", "", "", "300,000", "30,000", "", ""},
	}
	for i, row := range rows {
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}

	path := filepath.Join(t.TempDir(), "transactions.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	f.Close()
	return path
}

func openTestStore(t *testing.T) *ExcelStore {
	t.Helper()

	path := writeTestWorkbook(t)

	s, err := Open(testStoreConfig(path))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// TESTS
// =============================================================================

func TestReadRowsNormalizes(t *testing.T) {
	s := openTestStore(t)

	lines, err := s.ReadRows()
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header and blank row skipped)", len(lines))
	}

	first := lines[0]
	if first.PartyID != "1111111111" {
		t.Errorf("party = %q, want digits-only 1111111111", first.PartyID)
	}
	if first.DocumentDate != "20250801" {
		t.Errorf("date = %q, want 20250801", first.DocumentDate)
	}
	if first.SupplyAmount != 100000 || first.TaxAmount != 10000 {
		t.Errorf("amounts = %d/%d, want 100000/10000", first.SupplyAmount, first.TaxAmount)
	}
	if first.UnitPrice != "20000" {
		t.Errorf("unit price = %q, want normalized 20000", first.UnitPrice)
	}
	if first.SourceRow != 2 {
		t.Errorf("source row = %d, want 2", first.SourceRow)
	}

	second := lines[1]
	if second.PaymentHint != "수표" || second.CashAmount != 220000 {
		t.Errorf("payment = %q/%d, want 수표/220000", second.PaymentHint, second.CashAmount)
	}
	// Blank unit price stays blank, not "0".
	if second.UnitPrice != "" {
		t.Errorf("unit price = %q, want blank", second.UnitPrice)
	}

	if lines[2].SourceRow != 5 {
		t.Errorf("third line source row = %d, want 5 (blank row skipped)", lines[2].SourceRow)
	}
}

func TestWriteStatusPersists(t *testing.T) {
	s := openTestStore(t)

	if err := s.WriteStatus(2, "2025-08-15"); err != nil {
		t.Fatalf("WriteStatus: %v", err)
	}

	got, err := s.file.GetCellValue(s.cfg.Sheet, "Q2")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got != "2025-08-15" {
		t.Errorf("status cell = %q, want 2025-08-15", got)
	}
}

func TestWriteStatusForAllMatching(t *testing.T) {
	s := openTestStore(t)

	// Party 111-11-11111 owns rows 2 and 5.
	if err := s.WriteStatusForAllMatching("1111111111", "미등록"); err != nil {
		t.Fatalf("WriteStatusForAllMatching: %v", err)
	}

	for _, row := range []string{"Q2", "Q5"} {
		got, _ := s.file.GetCellValue(s.cfg.Sheet, row)
		if got != "미등록" {
			t.Errorf("%s = %q, want 미등록", row, got)
		}
	}
	// The other party's rows stay untouched.
	if got, _ := s.file.GetCellValue(s.cfg.Sheet, "Q3"); got != "" {
		t.Errorf("Q3 = %q, want blank", got)
	}
}

func TestWriteStatusForAllMatchingNoMatch(t *testing.T) {
	s := openTestStore(t)

	if err := s.WriteStatusForAllMatching("9999999999", "미등록"); err != nil {
		t.Fatalf("no-match write must not fail: %v", err)
	}
}

func TestAppendLedgerEntryCreatesSheet(t *testing.T) {
	s := openTestStore(t)

	e := LedgerEntry{
		SupplyDate:   "20250815",
		PartyID:      "1111111111",
		CompanyName:  "가나상사",
		ItemTitle:    "철근 외 1개 품목",
		SupplyAmount: 400000,
		TaxAmount:    40000,
		TotalAmount:  440000,
		Period:       "250801-250803 2건",
	}
	if err := s.AppendLedgerEntry(e); err != nil {
		t.Fatalf("AppendLedgerEntry: %v", err)
	}
	if err := s.AppendLedgerEntry(e); err != nil {
		t.Fatalf("second AppendLedgerEntry: %v", err)
	}

	rows, err := s.file.GetRows(s.cfg.LedgerSheet)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ledger has %d rows, want 2", len(rows))
	}
	if rows[0][2] != "가나상사" || rows[0][3] != "철근 외 1개 품목" {
		t.Errorf("ledger row = %v", rows[0])
	}
	if rows[1][9] != "250801-250803 2건" {
		t.Errorf("period cell = %q", rows[1][9])
	}
}

func TestSaveRetriesOnBusy(t *testing.T) {
	s := openTestStore(t)
	s.retryAttempts = 3
	s.retryDelay = time.Millisecond

	slept := 0
	s.sleep = func(time.Duration) { slept++ }

	// A healthy temp-dir workbook saves on the first try; no sleeps happen.
	if err := s.WriteStatus(2, "x"); err != nil {
		t.Fatalf("WriteStatus: %v", err)
	}
	if slept != 0 {
		t.Errorf("slept %d times on a clean save, want 0", slept)
	}
}

func TestIsBusy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"windows sharing violation", errors.New("The process cannot access the file because it is being used by another process."), true},
		{"posix busy", errors.New("open: resource temporarily unavailable"), true},
		{"permission", errors.New("open transactions.xlsx: permission denied"), true},
		{"unrelated", errors.New("zip: not a valid zip file"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBusy(tt.err); got != tt.want {
				t.Errorf("isBusy(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
