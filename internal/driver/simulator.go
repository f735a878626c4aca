// =============================================================================
// HomeTax Batch Submitter - Dry-Run Simulator
// =============================================================================
//
// Simulator is an in-memory FormDriver for --dry-run: it accepts every party,
// echoes the entered line amounts back as the remote total, and confirms
// instantly. It lets an operator exercise grouping, allocation and the full
// state machine without a browser session or a remote submission.
//
// =============================================================================

package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/taxbill/hometax-submitter/internal/format"
	"github.com/taxbill/hometax-submitter/internal/payment"
)

// Simulator implements FormDriver without any remote side. The zero value is
// ready to use. Not safe for concurrent use, which matches the engine's
// single-worker model.
type Simulator struct {
	// CompanyName is returned for every verification. Defaults to a marker
	// name so dry-run logs are unmistakable.
	CompanyName string

	supplyDate string
	slots      int
	entered    int64
}

// NewSimulator returns a dry-run driver stamped with today's supply date.
func NewSimulator() *Simulator {
	return &Simulator{
		CompanyName: "(모의실행)",
		supplyDate:  time.Now().Format("20060102"),
		slots:       4,
	}
}

func (s *Simulator) SubmitPartyID(ctx context.Context, id string) (VerificationResult, error) {
	// Reset per-form state; a new verification starts a fresh form.
	s.entered = 0
	s.slots = 4
	return VerificationResult{Kind: VerificationValid, CompanyName: s.CompanyName}, nil
}

func (s *Simulator) ReadSupplyDate(ctx context.Context) (string, error) {
	return s.supplyDate, nil
}

func (s *Simulator) SetSupplyDate(ctx context.Context, yyyymmdd string) error {
	s.supplyDate = yyyymmdd
	return nil
}

func (s *Simulator) AddLineSlot(ctx context.Context) error {
	s.slots++
	return nil
}

func (s *Simulator) EnterLine(ctx context.Context, index int, f LineFields) error {
	if index >= s.slots {
		return &DriverError{Op: "enter_line", Err: errNoSlot(index)}
	}
	s.entered += format.ParseAmount(f.SupplyAmount) + format.ParseAmount(f.TaxAmount)
	return nil
}

func (s *Simulator) ReadRemoteTotal(ctx context.Context) (int64, error) {
	return s.entered, nil
}

func (s *Simulator) SetPaymentAllocation(ctx context.Context, a payment.Allocation) error {
	return nil
}

func (s *Simulator) FinalizeAndAwaitConfirmations(ctx context.Context, expected int, perConfirm time.Duration) error {
	return nil
}

func (s *Simulator) Teardown(ctx context.Context) error {
	return nil
}

type errNoSlot int

func (e errNoSlot) Error() string {
	return fmt.Sprintf("no line slot at index %d", int(e))
}
