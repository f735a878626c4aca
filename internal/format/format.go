// =============================================================================
// HomeTax Batch Submitter - Value Formatter
// =============================================================================
//
// This module normalizes raw spreadsheet cell values into the canonical forms
// the submission engine works with. Spreadsheet exports are messy: dates come
// as "2025-08-10", "2025/08/10" or "20250810", registration numbers carry
// dashes and spaces, and currency cells contain thousands separators or even
// float noise ("1,234,000", "1234000.0").
//
// All functions here are pure and total: they never return an error and never
// panic. Bad input degrades to an empty string (or "0" for currency) so that a
// single malformed cell can never take down a run.
//
// =============================================================================

package format

import (
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// DATE FORMATTING
// =============================================================================

// Date normalizes a date-like cell value to YYYYMMDD.
//
// Separators ('-', '/', '.') are stripped. If the stripped value has at least
// 8 characters, the first 8 are taken; shorter values are returned as-is so
// partial dates still round-trip. Blank input yields "".
func Date(raw string) string {
	s := stripSeparators(raw)
	if s == "" {
		return ""
	}
	if len(s) >= 8 {
		return s[:8]
	}
	return s
}

// Day extracts the day-of-month from a date-like cell value as digits without
// a leading zero ("2025-08-05" -> "5"). The remote line-item grid only takes
// the day; year and month come from the form's supply date.
func Day(raw string) string {
	d := Date(raw)
	if len(d) < 8 {
		return ""
	}
	day, err := strconv.Atoi(d[6:8])
	if err != nil || day == 0 {
		return ""
	}
	return strconv.Itoa(day)
}

// YearMonth returns the YYYYMM prefix of a date-like cell value, or "" when
// the value does not normalize to a full date. Used for the supply-date
// mismatch check.
func YearMonth(raw string) string {
	d := Date(raw)
	if len(d) < 6 {
		return ""
	}
	return d[:6]
}

// =============================================================================
// REGISTRATION NUMBER FORMATTING
// =============================================================================

// RegistrationNumber strips every non-digit character from a registered-party
// id ("123-45-67890" -> "1234567890"). Blank input yields "".
func RegistrationNumber(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// CURRENCY FORMATTING
// =============================================================================

// Currency normalizes a currency cell to a whole-won decimal string.
//
// Thousands separators and surrounding whitespace are stripped, the remainder
// is parsed as a decimal and rounded to the nearest won. Anything that fails
// to parse (including blank cells) yields "0".
func Currency(raw string) string {
	return strconv.FormatInt(ParseAmount(raw), 10)
}

// ParseAmount is Currency with a numeric result: the rounded whole-won value
// of a currency cell, or 0 when the cell does not parse.
func ParseAmount(raw string) int64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	// Round half away from zero, matching how the totals appear on the form.
	return int64(math.Round(f))
}

// =============================================================================
// HELPERS
// =============================================================================

func stripSeparators(raw string) string {
	s := strings.TrimSpace(raw)
	for _, sep := range []string{"-", "/", "."} {
		s = strings.ReplaceAll(s, sep, "")
	}
	return s
}
