// =============================================================================
// HomeTax Batch Submitter - Batch Types
// =============================================================================
//
// Shared types for the submission engine. A TransactionLine is one spreadsheet
// row after normalization; a Batch is the unit of submission: an ordered run
// of lines for a single registered party, capped at the remote form's line
// grid size (16 items).
//
// These types are used by:
//   - batch (grouping)
//   - payment (allocation)
//   - submit (state machine)
//   - store (row reading / status write-back)
//
// =============================================================================

package batch

// DefaultLineCap is the number of line items one remote form accepts.
// The grid starts with 4 rows and grows to 16 via add-line requests.
const DefaultLineCap = 16

// =============================================================================
// TRANSACTION LINE
// =============================================================================

// TransactionLine is one normalized input row. It is immutable once read;
// ownership passes from the store to the grouper and then to the batch that
// carries it.
type TransactionLine struct {
	// PartyID is the counter-party registration number, digits only.
	// This is the grouping key.
	PartyID string

	// CompanyName is the counter-party name as recorded in the sheet.
	// Informational; the remote system's name wins during verification.
	CompanyName string

	// DocumentDate is the supply date in canonical YYYYMMDD form.
	DocumentDate string

	// ItemName, Spec, Quantity and UnitPrice are entered verbatim into the
	// remote line grid.
	ItemName  string
	Spec      string
	Quantity  string
	UnitPrice string

	// SupplyAmount and TaxAmount are whole-won amounts.
	SupplyAmount int64
	TaxAmount    int64

	// PaymentHint is the row's cash-type tag: "수표" (check), "어음" (note),
	// anything else counts as cash. Blank means no payment recorded.
	PaymentHint string

	// CashAmount is the settled amount for this row in whole won.
	// Zero means the row is entirely receivable.
	CashAmount int64

	// SourceRow is the 1-based spreadsheet row this line came from, used for
	// status write-back.
	SourceRow int
}

// Total returns supply + tax for the line.
func (l TransactionLine) Total() int64 {
	return l.SupplyAmount + l.TaxAmount
}

// =============================================================================
// BATCH
// =============================================================================

// Batch is an ordered group of 1..cap lines sharing one PartyID. Created by
// Group and consumed exactly once by the submission state machine; never
// mutated after creation.
type Batch struct {
	// PartyID is the registration number shared by every line.
	PartyID string

	// Lines holds the batch's lines in their original relative sheet order.
	Lines []TransactionLine
}

// Size returns the number of lines in the batch.
func (b Batch) Size() int {
	return len(b.Lines)
}

// LocalTotal returns the locally computed supply+tax sum across all lines.
// The remote-reported total remains authoritative for allocation; this sum is
// informational (logging, dry runs).
func (b Batch) LocalTotal() int64 {
	var sum int64
	for _, l := range b.Lines {
		sum += l.Total()
	}
	return sum
}
