// =============================================================================
// HomeTax Batch Submitter - Configuration Module
// =============================================================================
//
// Loads and validates the YAML run configuration. One file describes the
// whole run:
//   - where the workbook lives and how its columns map onto transaction lines
//   - submission parameters (line cap, retries, per-step timeouts)
//   - alerting and backup behavior
//
// All durations are whole seconds in the file; defaults are applied after
// unmarshalling so a minimal config stays minimal.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config is the root of the run configuration.
type Config struct {
	// Workbook describes the spreadsheet acting as the record store.
	Workbook WorkbookConfig `yaml:"workbook"`

	// Submission tunes the engine: cap, retries, timeouts, settling.
	Submission SubmissionConfig `yaml:"submission"`

	// Alerts controls the audible operator alerts.
	Alerts AlertConfig `yaml:"alerts"`

	// BackupDir receives a timestamped copy of the workbook before each run.
	// Empty disables backups.
	BackupDir string `yaml:"backup_dir"`
}

// WorkbookConfig locates the workbook and maps its layout.
type WorkbookConfig struct {
	// Path to the .xlsx file.
	Path string `yaml:"path"`

	// Sheet holding the transaction rows.
	Sheet string `yaml:"sheet"`

	// LedgerSheet receives one summary row per issued invoice.
	LedgerSheet string `yaml:"ledger_sheet"`

	// HeaderRows is the number of leading rows to skip when reading.
	HeaderRows int `yaml:"header_rows"`

	// StatusColumn is the column letter that receives per-row outcomes.
	StatusColumn string `yaml:"status_column"`

	// Columns maps line fields to column letters.
	Columns ColumnMap `yaml:"columns"`
}

// ColumnMap names the column letter for each transaction-line field.
type ColumnMap struct {
	PartyID      string `yaml:"party_id"`
	CompanyName  string `yaml:"company_name"`
	DocumentDate string `yaml:"document_date"`
	ItemName     string `yaml:"item_name"`
	Spec         string `yaml:"spec"`
	Quantity     string `yaml:"quantity"`
	UnitPrice    string `yaml:"unit_price"`
	SupplyAmount string `yaml:"supply_amount"`
	TaxAmount    string `yaml:"tax_amount"`
	PaymentHint  string `yaml:"payment_hint"`
	CashAmount   string `yaml:"cash_amount"`
}

// SubmissionConfig tunes the batch engine.
type SubmissionConfig struct {
	// LineCap is the maximum lines per batch (the remote grid size).
	LineCap int `yaml:"line_cap"`

	// VerifyRetries is how many times a transient failure during party
	// verification is retried before the batch is marked failed. No other
	// phase retries.
	VerifyRetries int `yaml:"verify_retries"`

	// SettleDelaySecs is the pause between batches while the remote form
	// clears and stabilizes.
	SettleDelaySecs int `yaml:"settle_delay_secs"`

	// VerifyTimeoutSecs bounds the party verification step.
	VerifyTimeoutSecs int `yaml:"verify_timeout_secs"`

	// EntryTimeoutSecs bounds each field/grid operation.
	EntryTimeoutSecs int `yaml:"entry_timeout_secs"`

	// ConfirmTimeoutSecs bounds the wait for each confirmation dialog.
	ConfirmTimeoutSecs int `yaml:"confirm_timeout_secs"`

	// StoreRetryAttempts bounds status-write retries while the workbook is
	// locked by another process.
	StoreRetryAttempts int `yaml:"store_retry_attempts"`

	// StoreRetryDelaySecs is the pause between those retries.
	StoreRetryDelaySecs int `yaml:"store_retry_delay_secs"`
}

// AlertConfig controls operator alerts.
type AlertConfig struct {
	// Enabled turns the console beeps on. An unattended run should turn
	// them off.
	Enabled bool `yaml:"enabled"`
}

// =============================================================================
// DERIVED DURATIONS
// =============================================================================

// SettleDelay returns the inter-batch settling pause.
func (s SubmissionConfig) SettleDelay() time.Duration {
	return time.Duration(s.SettleDelaySecs) * time.Second
}

// VerifyTimeout bounds the party verification step.
func (s SubmissionConfig) VerifyTimeout() time.Duration {
	return time.Duration(s.VerifyTimeoutSecs) * time.Second
}

// EntryTimeout bounds a single form-entry operation.
func (s SubmissionConfig) EntryTimeout() time.Duration {
	return time.Duration(s.EntryTimeoutSecs) * time.Second
}

// ConfirmTimeout bounds the wait for one confirmation dialog.
func (s SubmissionConfig) ConfirmTimeout() time.Duration {
	return time.Duration(s.ConfirmTimeoutSecs) * time.Second
}

// StoreRetryDelay is the pause between busy-workbook write retries.
func (s SubmissionConfig) StoreRetryDelay() time.Duration {
	return time.Duration(s.StoreRetryDelaySecs) * time.Second
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills in every zero field that has a sensible default.
func (c *Config) applyDefaults() {
	w := &c.Workbook
	if w.Sheet == "" {
		w.Sheet = "거래처"
	}
	if w.LedgerSheet == "" {
		w.LedgerSheet = "세금계산서"
	}
	if w.HeaderRows == 0 {
		w.HeaderRows = 1
	}
	if w.StatusColumn == "" {
		w.StatusColumn = "Q"
	}

	cols := &w.Columns
	defaultCol(&cols.DocumentDate, "A")
	defaultCol(&cols.PartyID, "B")
	defaultCol(&cols.CompanyName, "C")
	defaultCol(&cols.ItemName, "D")
	defaultCol(&cols.Spec, "E")
	defaultCol(&cols.Quantity, "F")
	defaultCol(&cols.UnitPrice, "G")
	defaultCol(&cols.SupplyAmount, "H")
	defaultCol(&cols.TaxAmount, "I")
	defaultCol(&cols.PaymentHint, "J")
	defaultCol(&cols.CashAmount, "K")

	s := &c.Submission
	if s.LineCap == 0 {
		s.LineCap = 16
	}
	if s.VerifyRetries == 0 {
		s.VerifyRetries = 2
	}
	if s.SettleDelaySecs == 0 {
		s.SettleDelaySecs = 2
	}
	if s.VerifyTimeoutSecs == 0 {
		s.VerifyTimeoutSecs = 15
	}
	if s.EntryTimeoutSecs == 0 {
		s.EntryTimeoutSecs = 5
	}
	if s.ConfirmTimeoutSecs == 0 {
		s.ConfirmTimeoutSecs = 10
	}
	if s.StoreRetryAttempts == 0 {
		s.StoreRetryAttempts = 3
	}
	if s.StoreRetryDelaySecs == 0 {
		s.StoreRetryDelaySecs = 1
	}
}

func defaultCol(col *string, letter string) {
	if *col == "" {
		*col = letter
	}
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Workbook.Path == "" {
		return fmt.Errorf("workbook.path is required")
	}
	if c.Submission.LineCap < 1 || c.Submission.LineCap > 16 {
		return fmt.Errorf("submission.line_cap must be between 1 and 16, got %d", c.Submission.LineCap)
	}
	if c.Submission.VerifyRetries < 0 {
		return fmt.Errorf("submission.verify_retries must not be negative")
	}
	for name, letter := range map[string]string{
		"status_column":         c.Workbook.StatusColumn,
		"columns.party_id":      c.Workbook.Columns.PartyID,
		"columns.document_date": c.Workbook.Columns.DocumentDate,
		"columns.supply_amount": c.Workbook.Columns.SupplyAmount,
		"columns.tax_amount":    c.Workbook.Columns.TaxAmount,
	} {
		if !validColumn(letter) {
			return fmt.Errorf("workbook.%s: %q is not a column letter", name, letter)
		}
	}
	return nil
}

// validColumn accepts A..XFD style column letters.
func validColumn(s string) bool {
	if s == "" || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
