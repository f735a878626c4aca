// =============================================================================
// HomeTax Batch Submitter - Submission State Machine
// =============================================================================
//
// Drives one batch through the remote form:
//
//   PartyVerification -> LineEntry -> PaymentFinalization
//        -> ConfirmationResolution -> Recorded
//
// with Aborted as the failure terminal from any phase. Only party
// verification retries (bounded, transient driver errors only); a failure
// past line entry aborts the whole batch rather than leave the remote form in
// a half-entered state.
//
// Status write-back rules:
//   - Recorded writes today's date to each of the batch's own rows and
//     appends the invoice ledger row.
//   - Aborted writes the classified status to every row of the party, so a
//     party split across batches is marked consistently no matter which
//     chunk hit the problem.
// Store write failures are run-level warnings: they never change an outcome
// that the remote side already accepted.
//
// =============================================================================

package submit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/taxbill/hometax-submitter/internal/batch"
	"github.com/taxbill/hometax-submitter/internal/config"
	"github.com/taxbill/hometax-submitter/internal/driver"
	"github.com/taxbill/hometax-submitter/internal/format"
	"github.com/taxbill/hometax-submitter/internal/payment"
	"github.com/taxbill/hometax-submitter/internal/store"
)

// confirmationCount is how many sequential dialogs the hold action raises:
// the confirmation prompt, then the success notice.
const confirmationCount = 2

// =============================================================================
// STATES
// =============================================================================

// State is one phase of the submission state machine.
type State int

const (
	StatePartyVerification State = iota
	StateLineEntry
	StatePaymentFinalization
	StateConfirmationResolution
	StateRecorded
	StateAborted
)

// String names the state for logs.
func (s State) String() string {
	switch s {
	case StatePartyVerification:
		return "party-verification"
	case StateLineEntry:
		return "line-entry"
	case StatePaymentFinalization:
		return "payment-finalization"
	case StateConfirmationResolution:
		return "confirmation-resolution"
	case StateRecorded:
		return "recorded"
	default:
		return "aborted"
	}
}

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Logger is the logging surface the machine needs.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Alerter emits the attended-operator beep sequence.
type Alerter interface {
	Alert(count int)
}

// =============================================================================
// MACHINE
// =============================================================================

// Machine submits batches through a FormDriver and records outcomes through a
// RecordStore. One Machine serves a whole run; Submit is called once per
// batch, sequentially.
type Machine struct {
	Driver driver.FormDriver
	Store  store.RecordStore
	Cfg    config.SubmissionConfig
	Log    Logger
	Alert  Alerter

	// now is swapped out by tests.
	now func() time.Time
}

// New builds a Machine over the given collaborators.
func New(d driver.FormDriver, s store.RecordStore, cfg config.SubmissionConfig, log Logger, alert Alerter) *Machine {
	return &Machine{
		Driver: d,
		Store:  s,
		Cfg:    cfg,
		Log:    log,
		Alert:  alert,
		now:    time.Now,
	}
}

// submission carries the per-batch working set between phases.
type submission struct {
	batch       batch.Batch
	companyName string
	supplyDate  string
	remoteTotal int64
	allocation  payment.Allocation
	outcome     Outcome
}

// Submit drives b to a terminal state and returns its outcome. The returned
// outcome is always terminal; the caller proceeds to the next batch
// regardless.
func (m *Machine) Submit(ctx context.Context, b batch.Batch) Outcome {
	sub := &submission{batch: b}
	state := StatePartyVerification

	for {
		m.Log.Debug("batch %s: entering %s", b.PartyID, state)

		switch state {
		case StatePartyVerification:
			state = m.verifyParty(ctx, sub)
		case StateLineEntry:
			state = m.enterLines(ctx, sub)
		case StatePaymentFinalization:
			state = m.finalizePayment(ctx, sub)
		case StateConfirmationResolution:
			state = m.resolveConfirmations(ctx, sub)
		case StateRecorded:
			m.record(sub)
			return sub.outcome
		case StateAborted:
			m.abort(sub)
			return sub.outcome
		}
	}
}

// =============================================================================
// PHASE: PARTY VERIFICATION
// =============================================================================

// verifyParty submits the registration number and classifies the verdict.
// Transient driver failures are retried a bounded number of times; everything
// else is terminal for the batch.
func (m *Machine) verifyParty(ctx context.Context, sub *submission) State {
	attempts := 1 + m.Cfg.VerifyRetries

	for attempt := 1; attempt <= attempts; attempt++ {
		vctx, cancel := context.WithTimeout(ctx, m.Cfg.VerifyTimeout())
		vr, err := m.Driver.SubmitPartyID(vctx, sub.batch.PartyID)
		cancel()

		if err != nil {
			if driver.IsTransient(err) && attempt < attempts {
				m.Log.Warn("batch %s: verification attempt %d/%d failed, retrying: %v",
					sub.batch.PartyID, attempt, attempts, err)
				continue
			}
			m.Log.Error("batch %s: verification failed: %v", sub.batch.PartyID, err)
			m.Alert.Alert(3)
			sub.outcome = Outcome{
				Kind:      OutcomeFailed,
				Status:    StatusProcessingError,
				Reason:    fmt.Errorf("party verification: %w", err),
				PartyWide: true,
			}
			return StateAborted
		}

		c := Classify(vr)
		if !c.Proceed {
			m.Log.Info("batch %s: %s (%s)", sub.batch.PartyID, c.Outcome.Kind, c.Outcome.Status)
			m.Alert.Alert(c.Alerts)
			sub.outcome = c.Outcome
			return StateAborted
		}

		sub.companyName = c.CompanyName
		m.Log.Info("batch %s: verified as %q, %d line(s)",
			sub.batch.PartyID, sub.companyName, sub.batch.Size())
		return StateLineEntry
	}

	// Unreachable: the loop always returns.
	return StateAborted
}

// =============================================================================
// PHASE: LINE ENTRY
// =============================================================================

// enterLines checks the supply date, grows the grid when needed and fills
// every line in batch order. Any failure here aborts: a partially entered
// form must not be finalized.
func (m *Machine) enterLines(ctx context.Context, sub *submission) State {
	if err := m.checkSupplyDate(ctx, sub); err != nil {
		return m.abortWith(sub, fmt.Errorf("supply date: %w", err))
	}

	// The grid starts with four rows; everything past that needs an
	// add-line request first.
	for extra := sub.batch.Size() - 4; extra > 0; extra-- {
		if err := m.driverCall(ctx, func(c context.Context) error {
			return m.Driver.AddLineSlot(c)
		}); err != nil {
			return m.abortWith(sub, fmt.Errorf("add line slot: %w", err))
		}
	}

	for i, line := range sub.batch.Lines {
		fields := lineFields(line)
		if err := m.driverCall(ctx, func(c context.Context) error {
			return m.Driver.EnterLine(c, i, fields)
		}); err != nil {
			return m.abortWith(sub, fmt.Errorf("enter line %d: %w", i+1, err))
		}
	}

	m.Log.Debug("batch %s: %d line(s) entered", sub.batch.PartyID, sub.batch.Size())
	return StatePaymentFinalization
}

// checkSupplyDate compares the batch's first document date against the form's
// supply date. A year/month mismatch gets a loud alert and the form date is
// corrected to the batch's.
func (m *Machine) checkSupplyDate(ctx context.Context, sub *submission) error {
	var formDate string
	err := m.driverCall(ctx, func(c context.Context) error {
		var e error
		formDate, e = m.Driver.ReadSupplyDate(c)
		return e
	})
	if err != nil {
		return err
	}
	sub.supplyDate = format.Date(formDate)

	want := sub.batch.Lines[0].DocumentDate
	if format.YearMonth(want) == "" || format.YearMonth(want) == format.YearMonth(formDate) {
		return nil
	}

	m.Log.Warn("batch %s: supply month mismatch (sheet %s, form %s), correcting",
		sub.batch.PartyID, format.YearMonth(want), format.YearMonth(formDate))
	m.Alert.Alert(5)

	if err := m.driverCall(ctx, func(c context.Context) error {
		return m.Driver.SetSupplyDate(c, want)
	}); err != nil {
		return err
	}
	sub.supplyDate = want
	return nil
}

// lineFields maps a transaction line onto the remote grid's field set.
func lineFields(l batch.TransactionLine) driver.LineFields {
	return driver.LineFields{
		Day:          format.Day(l.DocumentDate),
		Name:         l.ItemName,
		Spec:         l.Spec,
		Qty:          l.Quantity,
		UnitPrice:    l.UnitPrice,
		SupplyAmount: strconv.FormatInt(l.SupplyAmount, 10),
		TaxAmount:    strconv.FormatInt(l.TaxAmount, 10),
	}
}

// =============================================================================
// PHASE: PAYMENT FINALIZATION
// =============================================================================

// finalizePayment reads the authoritative remote total, runs the allocator
// and writes the split (including the receipt-vs-claim marker) to the form.
func (m *Machine) finalizePayment(ctx context.Context, sub *submission) State {
	err := m.driverCall(ctx, func(c context.Context) error {
		var e error
		sub.remoteTotal, e = m.Driver.ReadRemoteTotal(c)
		return e
	})
	if err != nil {
		return m.abortWith(sub, fmt.Errorf("read remote total: %w", err))
	}

	if local := sub.batch.LocalTotal(); local != sub.remoteTotal {
		// Informational only: the remote figure wins.
		m.Log.Debug("batch %s: local total %d differs from remote %d",
			sub.batch.PartyID, local, sub.remoteTotal)
	}

	alloc, warn := payment.Allocate(sub.batch, sub.remoteTotal)
	if warn != nil {
		m.Log.Warn("batch %s: %s", sub.batch.PartyID, warn)
	}
	sub.allocation = alloc

	m.Log.Info("batch %s: allocation cash=%d check=%d note=%d credit=%d (%s)",
		sub.batch.PartyID, alloc.Cash, alloc.Check, alloc.Note, alloc.Credit,
		alloc.DocumentMode())

	if err := m.driverCall(ctx, func(c context.Context) error {
		return m.Driver.SetPaymentAllocation(c, alloc)
	}); err != nil {
		return m.abortWith(sub, fmt.Errorf("set payment allocation: %w", err))
	}

	return StateConfirmationResolution
}

// =============================================================================
// PHASE: CONFIRMATION RESOLUTION
// =============================================================================

// resolveConfirmations pushes the hold action and awaits both confirmation
// dialogs in order. The batch is only Recorded after the second dialog; a
// timeout anywhere leaves it Failed.
func (m *Machine) resolveConfirmations(ctx context.Context, sub *submission) State {
	perConfirm := m.Cfg.ConfirmTimeout()

	// Overall bound: both dialogs plus slack for the hold action itself.
	cctx, cancel := context.WithTimeout(ctx, time.Duration(confirmationCount)*perConfirm+2*time.Second)
	defer cancel()

	if err := m.Driver.FinalizeAndAwaitConfirmations(cctx, confirmationCount, perConfirm); err != nil {
		if driver.IsTimeout(err) {
			m.Log.Error("batch %s: confirmation dialogs not completed: %v", sub.batch.PartyID, err)
		} else {
			m.Log.Error("batch %s: hold/finalize failed: %v", sub.batch.PartyID, err)
		}
		return m.abortWith(sub, fmt.Errorf("finalize: %w", err))
	}

	m.Log.Info("batch %s: issuance hold accepted", sub.batch.PartyID)
	return StateRecorded
}

// =============================================================================
// TERMINALS
// =============================================================================

// record writes the success status to each of the batch's rows and appends
// the ledger entry. Store failures are warnings only: the remote submission
// already happened and must stay recorded as a success.
func (m *Machine) record(sub *submission) {
	today := m.now().Format("2006-01-02")
	sub.outcome = Outcome{Kind: OutcomeSuccess, Status: today}

	for _, line := range sub.batch.Lines {
		if err := m.Store.WriteStatus(line.SourceRow, today); err != nil {
			m.Log.Warn("batch %s: status write for row %d failed: %v",
				sub.batch.PartyID, line.SourceRow, err)
		}
	}

	entry := ledgerEntry(sub.batch, sub.companyName, sub.supplyDate, sub.remoteTotal)
	if err := m.Store.AppendLedgerEntry(entry); err != nil {
		m.Log.Warn("batch %s: ledger append failed: %v", sub.batch.PartyID, err)
	}
}

// abort writes the classified status. Party-wide outcomes cover every row of
// the party; the rare batch-scoped ones fall back to the batch's own rows.
func (m *Machine) abort(sub *submission) {
	if sub.outcome.PartyWide {
		if err := m.Store.WriteStatusForAllMatching(sub.batch.PartyID, sub.outcome.Status); err != nil {
			m.Log.Warn("batch %s: party-wide status write failed: %v", sub.batch.PartyID, err)
		}
		return
	}
	for _, line := range sub.batch.Lines {
		if err := m.Store.WriteStatus(line.SourceRow, sub.outcome.Status); err != nil {
			m.Log.Warn("batch %s: status write for row %d failed: %v",
				sub.batch.PartyID, line.SourceRow, err)
		}
	}
}

// abortWith marks the batch failed with the generic processing-error status.
func (m *Machine) abortWith(sub *submission, reason error) State {
	m.Log.Error("batch %s: %v", sub.batch.PartyID, reason)
	m.Alert.Alert(3)
	sub.outcome = Outcome{
		Kind:      OutcomeFailed,
		Status:    StatusProcessingError,
		Reason:    reason,
		PartyWide: true,
	}
	return StateAborted
}

// driverCall runs one driver operation under the per-step entry timeout.
func (m *Machine) driverCall(ctx context.Context, op func(context.Context) error) error {
	c, cancel := context.WithTimeout(ctx, m.Cfg.EntryTimeout())
	defer cancel()
	return op(c)
}
