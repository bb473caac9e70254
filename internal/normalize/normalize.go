// Package normalize centralizes the locale- and encoding-tolerant parsing
// used by every feed loader: Brazilian/US decimal handling, accent-stripped
// text canonicalization and heuristic column resolution.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Canonical returns the canonical form of a free-text value: compatibility
// decomposition with combining marks removed, lowercased and trimmed.
// Canonical forms are used only for equality and map lookup; raw values are
// preserved for display.
func Canonical(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseDecimal parses a scalar that may use either Brazilian ("1.234,56")
// or US ("1,234.56") conventions. When both separators are present the
// rightmost one is the decimal point. It never fails and never goes below
// zero: empty, negative, NaN and garbage input all map to 0.
func ParseDecimal(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56 -> comma is the decimal point
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56 -> comma is grouping
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// 7,24 -> comma is the decimal point
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseQty parses a quantity cell and truncates it to an integer.
func ParseQty(s string) int {
	return int(ParseDecimal(s))
}

// truthy covers the textual flag values seen across the inventory feeds.
var truthy = map[string]bool{
	"sim":  true,
	"yes":  true,
	"true": true,
	"1":    true,
}

// IsTruthy reports whether a textual flag cell represents true.
func IsTruthy(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}
