/*
series.go - Headcount series normalization

PURPOSE:
  Raw headcount data arrives as a sparse map keyed by year strings, in two
  column-name variants ("2024" and "[2024]"). The builder normalizes both
  into one dense, ordered series over the configured year range and
  computes year-over-year deltas. All the downstream calculators consume
  the normalized series; the key ambiguity never leaks past this file.

DEFAULTS:
  Missing or non-numeric values coerce to 0, never an error. A year the
  raw map simply didn't mention is still tracked as "unobserved" so the
  post-support monitor can distinguish "dropped to zero" from "no data
  yet".
*/
package credit

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// YEAR RANGE
// =============================================================================

// YearRange is the configured analysis span, inclusive on both ends.
type YearRange struct {
	First int
	Last  int
}

// DefaultYearRange covers the data currently carried per company.
func DefaultYearRange() YearRange { return YearRange{First: 2016, Last: 2025} }

func (r YearRange) Contains(year int) bool { return year >= r.First && year <= r.Last }

// =============================================================================
// SERIES
// =============================================================================

// Series is the dense headcount series plus its delta series. Deltas exist
// for every year after the first in range: Delta[y] = Total[y] - Total[y-1].
type Series struct {
	Range    YearRange
	Total    map[int]int
	Delta    map[int]int
	observed map[int]bool
}

// Observed reports the headcount for a year and whether the raw input
// actually carried a value for it.
func (s *Series) Observed(year int) (int, bool) {
	return s.Total[year], s.observed[year]
}

// =============================================================================
// BUILDER
// =============================================================================

type SeriesBuilder struct {
	Range YearRange
}

func NewSeriesBuilder(r YearRange) *SeriesBuilder {
	if r.First == 0 && r.Last == 0 {
		r = DefaultYearRange()
	}
	return &SeriesBuilder{Range: r}
}

// Build normalizes the raw per-year map. Both "2024" and "[2024]" key forms
// are accepted; the plain form wins when both are present. Building is
// idempotent: the same raw map always yields the same series.
func (b *SeriesBuilder) Build(raw map[string]int) *Series {
	s := &Series{
		Range:    b.Range,
		Total:    make(map[int]int),
		Delta:    make(map[int]int),
		observed: make(map[int]bool),
	}

	for year := b.Range.First; year <= b.Range.Last; year++ {
		value, ok := yearValue(raw, year)
		s.Total[year] = value
		s.observed[year] = ok
	}

	// No delta for the first year in range: there is nothing to diff against.
	for year := b.Range.First + 1; year <= b.Range.Last; year++ {
		s.Delta[year] = s.Total[year] - s.Total[year-1]
	}

	return s
}

// yearValue resolves the "whichever key exists" access pattern.
func yearValue(raw map[string]int, year int) (int, bool) {
	plain := strconv.Itoa(year)
	if v, ok := raw[plain]; ok {
		return v, true
	}
	if v, ok := raw[fmt.Sprintf("[%d]", year)]; ok {
		return v, true
	}
	return 0, false
}

// ParseYearKey turns either key form back into a year, for callers that
// iterate raw maps directly (the adjustment map uses the same convention).
func ParseYearKey(key string) (int, bool) {
	key = strings.TrimSuffix(strings.TrimPrefix(key, "["), "]")
	year, err := strconv.Atoi(key)
	if err != nil {
		return 0, false
	}
	return year, true
}
