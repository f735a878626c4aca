// =============================================================================
// HomeTax Batch Submitter - Submission Outcomes
// =============================================================================
//
// Terminal classifications for one batch. The Status string is exactly what
// lands in the workbook's status column; these cells double as the audit
// trail the operator works from, so the strings match what the back office
// has always read there.
//
// =============================================================================

package submit

// Status strings written to the workbook, as the operators know them.
const (
	// StatusUnregistered (미등록) - the number verified but no company name
	// came back; the party is not registered.
	StatusUnregistered = "미등록"

	// StatusUnregisteredBranch (미등록(주)) - a branch disambiguation popup
	// appeared; the registration is ambiguous and needs a human.
	StatusUnregisteredBranch = "미등록(주)"

	// StatusNumberError (번호오류) - the form rejected the registration
	// number as invalid or duplicate.
	StatusNumberError = "번호오류"

	// StatusProcessingError (처리오류) - an unexpected failure anywhere in
	// the submission.
	StatusProcessingError = "처리오류"
)

// =============================================================================
// OUTCOME
// =============================================================================

// OutcomeKind tags the terminal result of one batch submission.
type OutcomeKind int

const (
	// OutcomeSuccess - the invoice was put on hold and recorded.
	OutcomeSuccess OutcomeKind = iota

	// OutcomeSkippedUnregistered - the party is unregistered or branch-
	// ambiguous; the batch was skipped before any line entry.
	OutcomeSkippedUnregistered

	// OutcomeSkippedNumberError - the registration number itself was
	// rejected as invalid or duplicate.
	OutcomeSkippedNumberError

	// OutcomeFailed - the submission broke mid-flight; the batch was
	// aborted.
	OutcomeFailed
)

// String names the kind for logs and the run summary.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkippedUnregistered:
		return "skipped-unregistered"
	case OutcomeSkippedNumberError:
		return "skipped-number-error"
	default:
		return "failed"
	}
}

// Outcome is the terminal result attached to a batch after submission.
type Outcome struct {
	// Kind is the terminal classification.
	Kind OutcomeKind

	// Status is the exact string written back to each affected row. For a
	// success this is today's date.
	Status string

	// Reason carries the underlying error for OutcomeFailed; nil otherwise.
	Reason error

	// PartyWide marks outcomes written to every row of the party, not just
	// the batch's own rows. All skip and failure classes are party-wide so a
	// 20-line party split across batches ends up marked consistently.
	PartyWide bool
}

// Skipped reports whether the outcome is one of the skip classes.
func (o Outcome) Skipped() bool {
	return o.Kind == OutcomeSkippedUnregistered || o.Kind == OutcomeSkippedNumberError
}
