// =============================================================================
// HomeTax Batch Submitter - Batch Grouper
// =============================================================================
//
// Partitions the flat row list into submittable batches. Rows are stable-
// sorted by registered-party id (equal keys keep spreadsheet order, which is
// deliberately NOT a date sort) and then chunked: a new batch starts whenever
// the party changes or the current batch reaches the line cap. A party with
// 40 rows therefore yields batches of 16/16/8.
//
// Pure function, no I/O. Concatenating the emitted batches reproduces the
// input as a stable sort by party id: no row is lost or duplicated.
//
// =============================================================================

package batch

import "sort"

// Group partitions lines into per-party batches of at most cap lines each.
//
// A cap below 1 falls back to DefaultLineCap. Empty input yields nil.
func Group(lines []TransactionLine, cap int) []Batch {
	if cap < 1 {
		cap = DefaultLineCap
	}
	if len(lines) == 0 {
		return nil
	}

	// Stable sort on the grouping key only, preserving the original relative
	// order of rows within a party.
	sorted := make([]TransactionLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PartyID < sorted[j].PartyID
	})

	var batches []Batch
	var current Batch

	for _, line := range sorted {
		if current.Size() == 0 {
			current = Batch{PartyID: line.PartyID}
		} else if line.PartyID != current.PartyID || current.Size() >= cap {
			batches = append(batches, current)
			current = Batch{PartyID: line.PartyID}
		}
		current.Lines = append(current.Lines, line)
	}
	batches = append(batches, current)

	return batches
}
