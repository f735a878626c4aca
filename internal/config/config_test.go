package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMinimalConfigGetsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
workbook:
  path: transactions.xlsx
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	w := cfg.Workbook
	if w.Sheet != "거래처" || w.LedgerSheet != "세금계산서" {
		t.Errorf("sheets = %q/%q, want 거래처/세금계산서", w.Sheet, w.LedgerSheet)
	}
	if w.HeaderRows != 1 || w.StatusColumn != "Q" {
		t.Errorf("header rows %d / status %q, want 1/Q", w.HeaderRows, w.StatusColumn)
	}
	if w.Columns.PartyID != "B" || w.Columns.CashAmount != "K" {
		t.Errorf("column defaults = %+v", w.Columns)
	}

	s := cfg.Submission
	if s.LineCap != 16 || s.VerifyRetries != 2 {
		t.Errorf("line cap %d / retries %d, want 16/2", s.LineCap, s.VerifyRetries)
	}
	if s.SettleDelay() != 2*time.Second {
		t.Errorf("settle delay = %v, want 2s", s.SettleDelay())
	}
	if s.VerifyTimeout() != 15*time.Second || s.EntryTimeout() != 5*time.Second || s.ConfirmTimeout() != 10*time.Second {
		t.Errorf("timeouts = %v/%v/%v", s.VerifyTimeout(), s.EntryTimeout(), s.ConfirmTimeout())
	}
	if s.StoreRetryAttempts != 3 || s.StoreRetryDelay() != time.Second {
		t.Errorf("store retry = %d/%v, want 3/1s", s.StoreRetryAttempts, s.StoreRetryDelay())
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
workbook:
  path: book.xlsx
  sheet: 매출
  status_column: R
  columns:
    party_id: C
submission:
  line_cap: 8
  settle_delay_secs: 5
alerts:
  enabled: true
backup_dir: backups
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Workbook.Sheet != "매출" || cfg.Workbook.StatusColumn != "R" {
		t.Errorf("overrides lost: %+v", cfg.Workbook)
	}
	if cfg.Workbook.Columns.PartyID != "C" {
		t.Errorf("party column = %q, want C", cfg.Workbook.Columns.PartyID)
	}
	// Unset columns still default.
	if cfg.Workbook.Columns.SupplyAmount != "H" {
		t.Errorf("supply column = %q, want default H", cfg.Workbook.Columns.SupplyAmount)
	}
	if cfg.Submission.LineCap != 8 || cfg.Submission.SettleDelaySecs != 5 {
		t.Errorf("submission overrides lost: %+v", cfg.Submission)
	}
	if !cfg.Alerts.Enabled || cfg.BackupDir != "backups" {
		t.Errorf("alerts/backup lost: %+v / %q", cfg.Alerts, cfg.BackupDir)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing workbook path",
			body:    "workbook: {}",
			wantErr: "workbook.path",
		},
		{
			name: "line cap above the grid size",
			body: `
workbook:
  path: book.xlsx
submission:
  line_cap: 17
`,
			wantErr: "line_cap",
		},
		{
			name: "negative retries",
			body: `
workbook:
  path: book.xlsx
submission:
  verify_retries: -1
`,
			wantErr: "verify_retries",
		},
		{
			name: "bad status column",
			body: `
workbook:
  path: book.xlsx
  status_column: "7"
`,
			wantErr: "column letter",
		},
		{
			name:    "unparseable yaml",
			body:    "workbook: [",
			wantErr: "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load of a missing file must fail")
	}
}

func TestValidColumn(t *testing.T) {
	tests := []struct {
		col  string
		want bool
	}{
		{"A", true}, {"Q", true}, {"AA", true}, {"XFD", true},
		{"", false}, {"a", false}, {"7", false}, {"ABCD", false}, {"A1", false},
	}

	for _, tt := range tests {
		if got := validColumn(tt.col); got != tt.want {
			t.Errorf("validColumn(%q) = %v, want %v", tt.col, got, tt.want)
		}
	}
}
