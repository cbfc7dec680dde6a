/*
classify.go - Region and industry classification

PURPOSE:
  Maps raw profile strings onto the two binary classifications the rate
  tables key on. Both classifiers are total functions: any input, including
  nil-ish empty strings, resolves to the conservative default (Other zone,
  General category).

  The lookup tables are injected, immutable configuration. The defaults
  match the statute: the capital region is Seoul, Gyeonggi, and Incheon;
  the designated growth-service industries are KSIC divisions 62, 63
  (software, information services) and 72 (R&D).
*/
package credit

import "strings"

// =============================================================================
// REGION CLASSIFIER
// =============================================================================

// DefaultCapitalRegions are the administrative division names that place an
// employer in the capital zone when they appear anywhere in the division
// string.
var DefaultCapitalRegions = []string{"서울특별시", "경기도", "인천광역시"}

type RegionClassifier struct {
	capitalNames []string
}

// NewRegionClassifier builds a classifier over the given capital-region
// names. With no names it uses DefaultCapitalRegions.
func NewRegionClassifier(names ...string) *RegionClassifier {
	if len(names) == 0 {
		names = DefaultCapitalRegions
	}
	return &RegionClassifier{capitalNames: names}
}

// Classify returns ZoneCapital iff the division string contains one of the
// capital-region names. Empty or unknown input is ZoneOther.
func (c *RegionClassifier) Classify(division string) Zone {
	for _, name := range c.capitalNames {
		if name != "" && strings.Contains(division, name) {
			return ZoneCapital
		}
	}
	return ZoneOther
}

// =============================================================================
// INDUSTRY CLASSIFIER
// =============================================================================

// DefaultGrowthIndustryPrefixes are the 2-digit industry code prefixes
// designated as growth-service industries.
var DefaultGrowthIndustryPrefixes = []string{"62", "63", "72"}

type IndustryClassifier struct {
	growthPrefixes map[string]bool
}

func NewIndustryClassifier(prefixes ...string) *IndustryClassifier {
	if len(prefixes) == 0 {
		prefixes = DefaultGrowthIndustryPrefixes
	}
	set := make(map[string]bool, len(prefixes))
	for _, p := range prefixes {
		set[p] = true
	}
	return &IndustryClassifier{growthPrefixes: set}
}

// Classify looks at the first two characters of the industry code.
// Short, empty, or unlisted codes are CategoryGeneral.
func (c *IndustryClassifier) Classify(code string) Category {
	if len(code) < 2 {
		return CategoryGeneral
	}
	if c.growthPrefixes[code[:2]] {
		return CategoryGrowthService
	}
	return CategoryGeneral
}
