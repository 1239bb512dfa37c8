// Package reconcile syncs external price-list and history spreadsheets against
// the stored catalogue. Analysis passes only report; sync passes insert new
// products and blindly overwrite prices, never names.
package reconcile

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeCode cleans a business code read from a spreadsheet cell: trims
// whitespace and collapses numeric cells that arrive as "100.0" back to "100".
// Returns "" when the cell holds nothing usable.
func NormalizeCode(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "nan") {
		return ""
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return s
}

// NormalizeName strips the decorative asterisks some exports carry and trims.
func NormalizeName(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "*", ""))
}

// ParseQuantity coerces a cell to an integer quantity; anything unparsable
// counts as zero so a dirty row never aborts the batch.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return int(f)
	}
	return 0
}

// ParsePrice coerces a cell to a price, accepting the comma decimal separator
// of the exports; unparsable cells default to zero.
func ParsePrice(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParseDate extracts the "YYYY-MM-DD" day from a cell that may carry a time
// part or a slash-formatted date. Returns "" when nothing date-like is found.
func ParseDate(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return ""
	}
	if len(s) == 10 && s[4] == '-' && s[7] == '-' {
		return s
	}
	// dd/mm/yyyy from exports opened and re-saved by hand
	if parti := strings.Split(s, "/"); len(parti) == 3 && len(parti[2]) == 4 {
		giorno, mese := parti[0], parti[1]
		if len(giorno) == 1 {
			giorno = "0" + giorno
		}
		if len(mese) == 1 {
			mese = "0" + mese
		}
		return parti[2] + "-" + mese + "-" + giorno
	}
	return ""
}
