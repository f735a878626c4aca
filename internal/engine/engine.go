// =============================================================================
// HomeTax Batch Submitter - Batch Orchestrator
// =============================================================================
//
// Iterates the grouped batches and drives each one through the submission
// state machine to a terminal outcome. Failures are contained at the batch
// boundary: one bad batch never stops the run. Between batches the engine
// settles for a fixed delay so the remote form can clear before the next
// verification starts; after the last batch the driver session is torn down
// (logout) best-effort.
//
// The RunContext replaces any global session state: everything a run touches
// is threaded through it explicitly, and its lifetime is exactly one run.
//
// =============================================================================

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/taxbill/hometax-submitter/internal/batch"
	"github.com/taxbill/hometax-submitter/internal/config"
	"github.com/taxbill/hometax-submitter/internal/driver"
	"github.com/taxbill/hometax-submitter/internal/store"
	"github.com/taxbill/hometax-submitter/internal/submit"
)

// =============================================================================
// RUN CONTEXT
// =============================================================================

// RunContext carries everything one run needs. It is created by the CLI,
// handed to Run, and discarded afterwards; nothing in it outlives the run.
type RunContext struct {
	// RunID identifies the run in logs and the summary.
	RunID uuid.UUID

	// Cfg is the loaded and validated configuration.
	Cfg *config.Config

	// Driver is the form session, exclusively owned by the orchestrator for
	// the duration of the run.
	Driver driver.FormDriver

	// Store is the workbook record store.
	Store store.RecordStore

	// Log receives run output.
	Log submit.Logger

	// Alert emits operator beeps.
	Alert submit.Alerter

	// ShowProgress draws the batch progress bar (attended runs only).
	ShowProgress bool

	// PartyFilter, when non-empty, restricts the run to one registration
	// number (digits only).
	PartyFilter string
}

// NewRunContext stamps a fresh run over the given collaborators.
func NewRunContext(cfg *config.Config, d driver.FormDriver, s store.RecordStore, log submit.Logger, alert submit.Alerter) *RunContext {
	return &RunContext{
		RunID:  uuid.New(),
		Cfg:    cfg,
		Driver: d,
		Store:  s,
		Log:    log,
		Alert:  alert,
	}
}

// =============================================================================
// RESULTS
// =============================================================================

// BatchResult records the terminal outcome of one batch.
type BatchResult struct {
	Index     int
	PartyID   string
	LineCount int
	Outcome   submit.Outcome
}

// Summary aggregates a whole run.
type Summary struct {
	RunID     uuid.UUID
	Batches   int
	Lines     int
	Succeeded int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
	Results   []BatchResult
}

// =============================================================================
// RUN
// =============================================================================

// Run executes the full pipeline: read rows, group, submit every batch
// sequentially, settle between batches, tear the session down, summarize.
//
// The only error return is a failure to even start (rows unreadable or
// nothing to do after filtering); once batches are running, every problem is
// absorbed into a per-batch outcome.
func Run(ctx context.Context, rc *RunContext) (*Summary, error) {
	start := time.Now()

	lines, err := rc.Store.ReadRows()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if rc.PartyFilter != "" {
		lines = filterByParty(lines, rc.PartyFilter)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no transaction rows to submit")
	}

	batches := batch.Group(lines, rc.Cfg.Submission.LineCap)
	rc.Log.Info("run %s: %d row(s) grouped into %d batch(es)", rc.RunID, len(lines), len(batches))

	machine := submit.New(rc.Driver, rc.Store, rc.Cfg.Submission, rc.Log, rc.Alert)
	bar := rc.newProgressBar(len(batches))

	summary := &Summary{RunID: rc.RunID, Batches: len(batches), Lines: len(lines)}

	for i, b := range batches {
		if i > 0 {
			// Let the remote form clear before the next verification.
			rc.settle(ctx)
		}
		if ctx.Err() != nil {
			rc.Log.Warn("run %s: cancelled after %d batch(es)", rc.RunID, i)
			break
		}

		outcome := machine.Submit(ctx, b)

		result := BatchResult{Index: i, PartyID: b.PartyID, LineCount: b.Size(), Outcome: outcome}
		summary.Results = append(summary.Results, result)

		switch {
		case outcome.Kind == submit.OutcomeSuccess:
			summary.Succeeded++
		case outcome.Skipped():
			summary.Skipped++
		default:
			summary.Failed++
		}

		bar.Add(1)
	}

	rc.teardown()

	summary.Elapsed = time.Since(start)
	rc.Log.Info("run %s: done - %d succeeded, %d skipped, %d failed of %d batch(es)",
		rc.RunID, summary.Succeeded, summary.Skipped, summary.Failed, summary.Batches)

	return summary, nil
}

// settle pauses between batches, waking early on cancellation.
func (rc *RunContext) settle(ctx context.Context) {
	delay := rc.Cfg.Submission.SettleDelay()
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// teardown logs the session out, best effort with its own short deadline.
func (rc *RunContext) teardown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rc.Driver.Teardown(ctx); err != nil {
		rc.Log.Warn("run %s: session teardown failed: %v", rc.RunID, err)
	}
}

// newProgressBar builds the attended-run progress bar, or a silent one.
func (rc *RunContext) newProgressBar(total int) *progressbar.ProgressBar {
	if !rc.ShowProgress {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Submitting batches"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// filterByParty keeps only lines for the given registration number.
func filterByParty(lines []batch.TransactionLine, partyID string) []batch.TransactionLine {
	var kept []batch.TransactionLine
	for _, l := range lines {
		if l.PartyID == partyID {
			kept = append(kept, l)
		}
	}
	return kept
}
