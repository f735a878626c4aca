// =============================================================================
// HomeTax Batch Submitter - Run Command
// =============================================================================
//
// Defines the 'run' command: the full submission pipeline. Loads the
// configuration, backs the workbook up, opens the record store, builds the
// form driver, and hands everything to the batch orchestrator.
//
// COMMAND USAGE:
//   submitter run [--dry-run] [--party 1234567890] [--workbook path.xlsx]
//
// A dry run swaps in the form simulator and a write-suppressing store
// wrapper, then reports the writes that a live run would have made. A live
// run requires an attached form driver; none ships in-tree, so 'run' without
// --dry-run refuses with an explanation rather than touching the workbook.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taxbill/hometax-submitter/internal/config"
	"github.com/taxbill/hometax-submitter/internal/driver"
	"github.com/taxbill/hometax-submitter/internal/engine"
	"github.com/taxbill/hometax-submitter/internal/format"
	"github.com/taxbill/hometax-submitter/internal/store"
	"github.com/taxbill/hometax-submitter/internal/submit"
	"github.com/taxbill/hometax-submitter/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	// runDryRun swaps in the simulator and suppresses workbook writes.
	runDryRun bool

	// runParty restricts the run to one registration number.
	runParty string

	// runWorkbook overrides the configured workbook path.
	runWorkbook string
)

// =============================================================================
// RUN COMMAND DEFINITION
// =============================================================================

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Submit every workbook batch through the tax-invoice form",
	Long: `Read the transaction rows from the workbook, group them into per-party
batches, and submit each batch through the electronic tax-invoice form.
Per-row outcomes are written to the status column and each issued invoice is
summarized on the ledger sheet.

With --dry-run the batches are driven through an in-memory simulator and the
workbook is never modified; the writes a live run would have made are printed
instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubmission()
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false,
		"Preview the run against the form simulator without writing to the workbook")
	runCmd.Flags().StringVar(&runParty, "party", "",
		"Restrict the run to one registration number")
	runCmd.Flags().StringVar(&runWorkbook, "workbook", "",
		"Override the configured workbook path")

	rootCmd.AddCommand(runCmd)
}

// =============================================================================
// RUN PIPELINE
// =============================================================================

func runSubmission() error {
	log := &engine.StdLogger{Verbose: verbose}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if runWorkbook != "" {
		cfg.Workbook.Path = runWorkbook
	}

	drv, err := newFormDriver()
	if err != nil {
		return err
	}

	// Snapshot the workbook before a live run can modify it.
	if !runDryRun && cfg.BackupDir != "" {
		backup, err := utils.BackupWorkbook(cfg.Workbook.Path, cfg.BackupDir)
		if err != nil {
			return err
		}
		log.Info("workbook backed up to %s", backup)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}

	var recorder *store.ReadOnly
	var recordStore store.RecordStore = st
	if runDryRun {
		recorder = store.NewReadOnly(st)
		recordStore = recorder
	}
	defer recordStore.Close()

	beeper := utils.NewBeeper()
	beeper.Enabled = cfg.Alerts.Enabled && !runDryRun

	rc := engine.NewRunContext(cfg, drv, recordStore, log, beeper)
	rc.PartyFilter = format.RegistrationNumber(runParty)
	rc.ShowProgress = !runDryRun && term.IsTerminal(int(os.Stdout.Fd()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := engine.Run(ctx, rc)
	if err != nil {
		return err
	}

	printSummary(summary)
	if recorder != nil {
		printDryRunReport(recorder)
	}
	return nil
}

// newFormDriver builds the form session for this run. Only the simulator
// ships in-tree; a live run needs an attached browser driver.
func newFormDriver() (driver.FormDriver, error) {
	if runDryRun {
		return driver.NewSimulator(), nil
	}
	return nil, fmt.Errorf("no live form driver is attached; use --dry-run to preview the submission")
}

// printSummary writes the run summary to stdout.
func printSummary(s *engine.Summary) {
	fmt.Printf("\nRun %s\n", s.RunID)
	fmt.Printf("  Batches:   %d (%d lines)\n", s.Batches, s.Lines)
	fmt.Printf("  Succeeded: %d\n", s.Succeeded)
	fmt.Printf("  Skipped:   %d\n", s.Skipped)
	fmt.Printf("  Failed:    %d\n", s.Failed)
	fmt.Printf("  Elapsed:   %s\n", s.Elapsed.Round(time.Millisecond))

	for _, r := range s.Results {
		if r.Outcome.Kind == submit.OutcomeSuccess {
			continue
		}
		fmt.Printf("  - batch %d (%s, %d lines): %s\n", r.Index+1, r.PartyID, r.LineCount, r.Outcome.Status)
	}
}

// printDryRunReport lists the writes a live run would have made.
func printDryRunReport(r *store.ReadOnly) {
	fmt.Printf("\nDry run: %d status write(s), %d ledger row(s) suppressed\n", len(r.Writes), len(r.Ledger))
	for _, w := range r.Writes {
		if w.RowID > 0 {
			fmt.Printf("  row %d -> %q\n", w.RowID, w.Text)
		} else {
			fmt.Printf("  all rows for %s -> %q\n", w.PartyID, w.Text)
		}
	}
	for _, e := range r.Ledger {
		fmt.Printf("  ledger: %s %s %s (%d won)\n", e.SupplyDate, e.PartyID, e.ItemTitle, e.TotalAmount)
	}
}
