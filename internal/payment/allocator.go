// =============================================================================
// HomeTax Batch Submitter - Payment Allocator
// =============================================================================
//
// Computes the cash/check/note/credit split for one batch. Each row's cash
// amount is bucketed by its cash-type tag (수표 -> check, 어음 -> note,
// default cash); the credit (외상미수금, accounts receivable) bucket absorbs
// whatever the remote-reported total leaves uncovered.
//
// The remote total is the legally binding figure and is treated as ground
// truth over the local sum: the local amounts only decide which bucket takes
// the shortfall. When the recorded payments exceed the remote total the
// credit is clamped to zero and the discrepancy is surfaced as a non-fatal
// warning rather than a hard error.
//
// =============================================================================

package payment

import (
	"fmt"

	"github.com/taxbill/hometax-submitter/internal/batch"
)

// Cash-type tags as they appear in the payment category column.
const (
	tagCheck = "수표"
	tagNote  = "어음"
)

// =============================================================================
// ALLOCATION
// =============================================================================

// DocumentMode selects the receipt-vs-claim marker on the finished form.
type DocumentMode int

const (
	// ModeReceipt (영수) - some portion of the batch was actually paid.
	ModeReceipt DocumentMode = iota

	// ModeClaim (청구) - nothing was paid; the whole amount is billed as
	// receivable.
	ModeClaim
)

// String returns the marker label as it reads on the form.
func (m DocumentMode) String() string {
	if m == ModeClaim {
		return "청구"
	}
	return "영수"
}

// Allocation is the per-method split of a batch's remote total, in whole won.
// Invariant: Cash+Check+Note+Credit == remote total, except when a shortfall
// forced the credit clamp.
type Allocation struct {
	Cash   int64
	Check  int64
	Note   int64
	Credit int64
}

// PaymentSum returns the settled (non-credit) portion.
func (a Allocation) PaymentSum() int64 {
	return a.Cash + a.Check + a.Note
}

// Total returns the full allocated amount including credit.
func (a Allocation) Total() int64 {
	return a.PaymentSum() + a.Credit
}

// DocumentMode returns ModeClaim when no payment method was recorded at all,
// ModeReceipt otherwise.
func (a Allocation) DocumentMode() DocumentMode {
	if a.PaymentSum() == 0 {
		return ModeClaim
	}
	return ModeReceipt
}

// ShortfallWarning reports recorded payments exceeding the remote total. The
// credit was clamped to zero; the allocation understates the remote total by
// Amount won.
type ShortfallWarning struct {
	PartyID     string
	RemoteTotal int64
	PaymentSum  int64
}

// Amount returns how far the payments overshoot the remote total.
func (w ShortfallWarning) Amount() int64 {
	return w.PaymentSum - w.RemoteTotal
}

func (w ShortfallWarning) String() string {
	return fmt.Sprintf("party %s: recorded payments %d won exceed remote total %d won; credit clamped to 0",
		w.PartyID, w.PaymentSum, w.RemoteTotal)
}

// =============================================================================
// ALLOCATE
// =============================================================================

// Allocate computes the payment split for b against the authoritative
// remote-reported total.
//
// Rules:
//  1. Each line's cash amount lands in the bucket named by its payment hint;
//     zero amounts contribute nothing regardless of the hint.
//  2. If no payment was recorded at all, the entire remote total is credit.
//  3. Otherwise credit = remoteTotal - paymentSum, clamped at zero with a
//     returned warning when the subtraction would go negative.
func Allocate(b batch.Batch, remoteTotal int64) (Allocation, *ShortfallWarning) {
	var alloc Allocation

	for _, line := range b.Lines {
		if line.CashAmount <= 0 {
			continue
		}
		switch line.PaymentHint {
		case tagCheck:
			alloc.Check += line.CashAmount
		case tagNote:
			alloc.Note += line.CashAmount
		default:
			alloc.Cash += line.CashAmount
		}
	}

	paymentSum := alloc.PaymentSum()
	if paymentSum == 0 {
		alloc.Credit = remoteTotal
		return alloc, nil
	}

	credit := remoteTotal - paymentSum
	if credit < 0 {
		alloc.Credit = 0
		return alloc, &ShortfallWarning{
			PartyID:     b.PartyID,
			RemoteTotal: remoteTotal,
			PaymentSum:  paymentSum,
		}
	}

	alloc.Credit = credit
	return alloc, nil
}
