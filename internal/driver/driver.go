// =============================================================================
// HomeTax Batch Submitter - Form Driver Contract
// =============================================================================
//
// The FormDriver is the capability contract for everything the submission
// engine needs from the remote tax-invoice form: verify a party, enter line
// items, write the payment split, and push the hold/finalize action through
// its confirmation dialogs.
//
// How a concrete driver resolves an action (which selectors, how many retry
// strategies, JS fallbacks) is its own business; the engine only depends on
// the success/failure/timeout contract expressed by DriverError. The browser
// implementation lives outside this repository; the in-tree Simulator backs
// dry runs.
//
// =============================================================================

package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taxbill/hometax-submitter/internal/payment"
)

// =============================================================================
// VERIFICATION RESULT
// =============================================================================

// VerificationKind tags the outcome of submitting a party id to the form.
type VerificationKind int

const (
	// VerificationValid - the form accepted the number. CompanyName holds
	// what the remote system knows the party as; it can be blank for numbers
	// that pass the checksum but have no registration behind them.
	VerificationValid VerificationKind = iota

	// VerificationNotRegistered - the driver could positively determine that
	// no registration exists for the number.
	VerificationNotRegistered

	// VerificationBranchSelection - the form raised a branch (종사업장)
	// disambiguation popup, which the driver dismissed. The batch cannot be
	// submitted unattended.
	VerificationBranchSelection

	// VerificationNumberRejected - the form rejected the number outright.
	// Message carries the remote complaint.
	VerificationNumberRejected
)

// VerificationResult is the outcome of one party-id check. Produced and
// consumed within a single state-machine phase.
type VerificationResult struct {
	Kind        VerificationKind
	CompanyName string
	Message     string
}

// =============================================================================
// LINE FIELDS
// =============================================================================

// LineFields is the field set for one row of the remote line-item grid.
// All values are strings exactly as they are typed into the form.
type LineFields struct {
	Day          string // day-of-month within the supply period
	Name         string
	Spec         string
	Qty          string
	UnitPrice    string
	SupplyAmount string
	TaxAmount    string
}

// =============================================================================
// DRIVER ERROR
// =============================================================================

// DriverError wraps a failed driver operation. Timeout and Transient let the
// engine decide between a bounded local retry (party verification only) and
// aborting the batch.
type DriverError struct {
	// Op names the failed operation ("submit_party_id", "enter_line", ...).
	Op string

	// Timeout is set when the operation ran out its bounded wait.
	Timeout bool

	// Transient marks races the engine may retry (element not yet ready,
	// navigation in flight).
	Transient bool

	// Err is the underlying cause, possibly nil for pure timeouts.
	Err error
}

func (e *DriverError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("driver %s: %v", e.Op, e.Err)
	case e.Timeout:
		return fmt.Sprintf("driver %s: timed out", e.Op)
	default:
		return fmt.Sprintf("driver %s: failed", e.Op)
	}
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a driver error eligible for a bounded
// retry.
func IsTransient(err error) bool {
	var de *DriverError
	return errors.As(err, &de) && de.Transient
}

// IsTimeout reports whether err is a driver timeout.
func IsTimeout(err error) bool {
	var de *DriverError
	return errors.As(err, &de) && de.Timeout
}

// =============================================================================
// FORM DRIVER
// =============================================================================

// FormDriver abstracts the remote tax-invoice form. Every call is a
// suspension point with a bounded timeout carried by ctx; implementations
// must return rather than block past it.
//
// The driver session has one active form: calls are never made concurrently
// and the engine owns the session for the duration of a run.
type FormDriver interface {
	// SubmitPartyID enters the registration number and awaits the form's
	// verdict. A non-nil error means the verification step itself broke, not
	// that the number was bad.
	SubmitPartyID(ctx context.Context, id string) (VerificationResult, error)

	// ReadSupplyDate returns the form's current supply date as YYYYMMDD.
	ReadSupplyDate(ctx context.Context) (string, error)

	// SetSupplyDate overwrites the form's supply date with a YYYYMMDD value.
	SetSupplyDate(ctx context.Context, yyyymmdd string) error

	// AddLineSlot grows the line grid by one row. Only needed past the four
	// rows the form starts with.
	AddLineSlot(ctx context.Context) error

	// EnterLine fills grid row index (0-based) with f.
	EnterLine(ctx context.Context, index int, f LineFields) error

	// ReadRemoteTotal returns the form's computed grand total in whole won.
	// This figure is authoritative over any local sum.
	ReadRemoteTotal(ctx context.Context) (int64, error)

	// SetPaymentAllocation writes the cash/check/note/credit split and the
	// receipt-vs-claim marker derived from it.
	SetPaymentAllocation(ctx context.Context, a payment.Allocation) error

	// FinalizeAndAwaitConfirmations pushes the hold/finalize action and then
	// accepts expected confirmation dialogs in order. The second dialog only
	// appears after the first is acknowledged; implementations must await
	// them sequentially, each within perConfirm.
	FinalizeAndAwaitConfirmations(ctx context.Context, expected int, perConfirm time.Duration) error

	// Teardown ends the remote session (logout). Best effort; called once
	// after the last batch.
	Teardown(ctx context.Context) error
}
