// =============================================================================
// HomeTax Batch Submitter - Verification Classification
// =============================================================================
//
// Maps a VerificationResult onto the batch outcome and the operator alert.
// Priority order:
//   1. branch disambiguation appeared        -> 미등록(주), 1 beep
//   2. number rejected (invalid/duplicate)   -> 번호오류, 3 beeps
//   3. verified but blank company name       -> 미등록, 2 beeps
//   4. verified with a company name          -> proceed to line entry
//
// The beep counts are the ones attended operators are trained on: they react
// to the count without reading the screen.
//
// =============================================================================

package submit

import (
	"strings"

	"github.com/taxbill/hometax-submitter/internal/driver"
)

// Classification is the verdict on one verification result.
type Classification struct {
	// Proceed is true only for a verified party with a non-blank company
	// name; the state machine then moves to line entry.
	Proceed bool

	// CompanyName is the remote-registered name when Proceed is set.
	CompanyName string

	// Outcome is the terminal outcome when Proceed is false.
	Outcome Outcome

	// Alerts is the number of beeps for the attended operator.
	Alerts int
}

// Classify maps the driver's verification verdict to a batch decision.
func Classify(vr driver.VerificationResult) Classification {
	switch vr.Kind {
	case driver.VerificationBranchSelection:
		return Classification{
			Outcome: Outcome{
				Kind:      OutcomeSkippedUnregistered,
				Status:    StatusUnregisteredBranch,
				PartyWide: true,
			},
			Alerts: 1,
		}

	case driver.VerificationNumberRejected:
		return Classification{
			Outcome: Outcome{
				Kind:      OutcomeSkippedNumberError,
				Status:    StatusNumberError,
				PartyWide: true,
			},
			Alerts: 3,
		}

	case driver.VerificationNotRegistered:
		return Classification{
			Outcome: Outcome{
				Kind:      OutcomeSkippedUnregistered,
				Status:    StatusUnregistered,
				PartyWide: true,
			},
			Alerts: 2,
		}

	default: // VerificationValid
		name := strings.TrimSpace(vr.CompanyName)
		if name == "" {
			// The number passed the form's check but nothing is registered
			// behind it.
			return Classification{
				Outcome: Outcome{
					Kind:      OutcomeSkippedUnregistered,
					Status:    StatusUnregistered,
					PartyWide: true,
				},
				Alerts: 2,
			}
		}
		return Classification{Proceed: true, CompanyName: name}
	}
}
