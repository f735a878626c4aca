// =============================================================================
// HomeTax Batch Submitter - Ledger Row Construction
// =============================================================================
//
// Builds the invoice ledger summary row for a successfully held batch: the
// item title ("첫품목 외 N개 품목"), the covered period descriptor, and the
// amount columns.
//
// =============================================================================

package submit

import (
	"fmt"

	"github.com/taxbill/hometax-submitter/internal/batch"
	"github.com/taxbill/hometax-submitter/internal/store"
)

// ledgerEntry assembles the summary row for b. company is the remote-
// registered name, supplyDate the form's YYYYMMDD supply date and remoteTotal
// the form-reported grand total.
func ledgerEntry(b batch.Batch, company, supplyDate string, remoteTotal int64) store.LedgerEntry {
	var supplySum, taxSum int64
	for _, l := range b.Lines {
		supplySum += l.SupplyAmount
		taxSum += l.TaxAmount
	}

	first := b.Lines[0]

	return store.LedgerEntry{
		SupplyDate:   supplyDate,
		PartyID:      b.PartyID,
		CompanyName:  company,
		ItemTitle:    itemTitle(b.Lines),
		Spec:         first.Spec,
		Quantity:     first.Quantity,
		SupplyAmount: supplySum,
		TaxAmount:    taxSum,
		TotalAmount:  remoteTotal,
		Period:       periodDescriptor(b.Lines),
	}
}

// itemTitle summarizes the batch's items: the first item name alone for a
// single line, "<first> 외 N개 품목" for more.
func itemTitle(lines []batch.TransactionLine) string {
	name := lines[0].ItemName
	if name == "" {
		name = "품목"
	}
	if len(lines) == 1 {
		return name
	}
	return fmt.Sprintf("%s 외 %d개 품목", name, len(lines)-1)
}

// periodDescriptor renders the covered date range: a single ISO date for one
// line, "YYMMDD-YYMMDD N건" across distinct dates, "YYMMDD N건" when every
// line shares a date.
func periodDescriptor(lines []batch.TransactionLine) string {
	if len(lines) == 1 {
		return isoDate(lines[0].DocumentDate)
	}

	start := shortDate(lines[0].DocumentDate)
	end := shortDate(lines[len(lines)-1].DocumentDate)

	switch {
	case start != "" && end != "" && start != end:
		return fmt.Sprintf("%s-%s %d건", start, end, len(lines))
	case start != "":
		return fmt.Sprintf("%s %d건", start, len(lines))
	default:
		return fmt.Sprintf("%d건", len(lines))
	}
}

// isoDate converts YYYYMMDD to YYYY-MM-DD, passing anything shorter through.
func isoDate(yyyymmdd string) string {
	if len(yyyymmdd) < 8 {
		return yyyymmdd
	}
	return yyyymmdd[:4] + "-" + yyyymmdd[4:6] + "-" + yyyymmdd[6:8]
}

// shortDate converts YYYYMMDD to YYMMDD; blank when the date is not full.
func shortDate(yyyymmdd string) string {
	if len(yyyymmdd) < 8 {
		return ""
	}
	return yyyymmdd[2:8]
}
