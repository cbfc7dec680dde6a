package credit_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/taxcredit-engine/credit"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestAnalyzer(r credit.YearRange) *credit.Analyzer {
	a := credit.NewAnalyzer()
	a.Years = r
	return a
}

func otherZoneProfile() *credit.CompanyProfile {
	return &credit.CompanyProfile{
		RegistrationNo: "1234567890",
		Name:           "좋은느낌",
		Province:       "부산광역시",
		District:       "해운대구",
		IndustryCode:   "47911",
	}
}

func findYear(t *testing.T, res *credit.AnalysisResult, year int) credit.YearResult {
	t.Helper()
	for _, row := range res.Years {
		if row.Year == year {
			return row
		}
	}
	t.Fatalf("year %d missing from ledger", year)
	return credit.YearResult{}
}

// =============================================================================
// PRECONDITIONS AND DEGRADATION
// =============================================================================

func TestAnalyzer_NoProfile(t *testing.T) {
	a := newTestAnalyzer(credit.YearRange{First: 2020, Last: 2024})

	_, err := a.Analyze(credit.AnalysisInput{HeadcountByYear: map[string]int{"2023": 5}})
	assert.ErrorIs(t, err, credit.ErrNoProfile)
}

func TestAnalyzer_EmptyHeadcounts(t *testing.T) {
	// Zero data for every year: no cohorts, zero totals, no error.

	a := newTestAnalyzer(credit.YearRange{First: 2020, Last: 2024})
	res, err := a.Analyze(credit.AnalysisInput{
		Profile: otherZoneProfile(),
		Now:     credit.NewTimePoint(2024, time.June, 1),
	})
	require.NoError(t, err)

	assert.Len(t, res.Years, 4) // 2021..2024: no delta for the first year
	for _, row := range res.Years {
		assert.Equal(t, credit.StatusNeutral, row.Status)
	}
	assert.True(t, res.Summary.GrandTotal.IsZero())
}

func TestAnalyzer_MalformedProfileDegrades(t *testing.T) {
	// Empty region and industry fall back to Other/General; the ledger
	// still comes out.

	a := newTestAnalyzer(credit.YearRange{First: 2022, Last: 2024})
	res, err := a.Analyze(credit.AnalysisInput{
		Profile:         &credit.CompanyProfile{RegistrationNo: "0000000000"},
		HeadcountByYear: map[string]int{"2022": 1, "2023": 2},
		Now:             credit.NewTimePoint(2024, time.June, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, credit.ZoneOther, res.Zone)
	assert.Equal(t, credit.CategoryGeneral, res.Category)
	assert.NotEmpty(t, res.Years)
}

// =============================================================================
// COHORT CLASSIFICATION
// =============================================================================

func TestAnalyzer_GenerationACohort_Ongoing(t *testing.T) {
	// GIVEN: Other-zone company, +10 heads in 2023, no youth
	// WHEN: Analyzed mid-2024 (amendment open, monitoring running)
	// THEN: 92,000,000 employment credit, provisionally reported

	a := newTestAnalyzer(credit.YearRange{First: 2022, Last: 2024})
	res, err := a.Analyze(credit.AnalysisInput{
		Profile:         otherZoneProfile(),
		HeadcountByYear: map[string]int{"2022": 5, "2023": 15, "2024": 15},
		Now:             credit.NewTimePoint(2024, time.June, 1),
	})
	require.NoError(t, err)

	row := findYear(t, res, 2023)
	assert.Equal(t, credit.ChangeIncrease, row.ChangeType)
	assert.Equal(t, credit.StatusPostSupportOngoing, row.Status)
	assert.Equal(t, 10, row.IncreaseCount)
	assert.Equal(t, 0, row.AdjustedYouthCount)
	assert.Equal(t, 10, row.OthersCount)
	assert.Equal(t, credit.GenerationA, row.Generation)
	assert.True(t, row.EmploymentCredit.Equal(decimal.NewFromInt(92_000_000)),
		"employment credit = %v", row.EmploymentCredit)
	assert.Equal(t, "2029-03-31", row.AmendmentDeadline.String())
	assert.Equal(t, "2025-12-31", row.MonitoringEnd.String())
}

func TestAnalyzer_AmendmentExpiryFlipsToZero(t *testing.T) {
	// Same cohort, evaluated past March 31, 2029: status flips to
	// AmendmentExpired and the credit is forced to zero.

	a := newTestAnalyzer(credit.YearRange{First: 2022, Last: 2024})
	input := credit.AnalysisInput{
		Profile:         otherZoneProfile(),
		HeadcountByYear: map[string]int{"2022": 5, "2023": 15, "2024": 15},
		Now:             credit.NewTimePoint(2029, time.April, 1),
	}
	res, err := a.Analyze(input)
	require.NoError(t, err)

	row := findYear(t, res, 2023)
	assert.Equal(t, credit.StatusAmendmentExpired, row.Status)
	assert.True(t, row.TotalCredit.IsZero())
	assert.True(t, row.OriginalCredit.IsZero())

	// Monotonicity: pushing now further out never flips it back.
	input.Now = credit.NewTimePoint(2032, time.January, 1)
	res, err = a.Analyze(input)
	require.NoError(t, err)
	assert.Equal(t, credit.StatusAmendmentExpired, findYear(t, res, 2023).Status)
}

func TestAnalyzer_YouthAdjustmentClampedToDelta(t *testing.T) {
	a := newTestAnalyzer(credit.YearRange{First: 2022, Last: 2024})
	res, err := a.Analyze(credit.AnalysisInput{
		Profile:         otherZoneProfile(),
		HeadcountByYear: map[string]int{"2022": 5, "2023": 7},
		Adjustments:     map[string]credit.Adjustment{"2023": {YouthCount: 5}},
		Now:             credit.NewTimePoint(2024, time.June, 1),
	})
	require.NoError(t, err)

	row := findYear(t, res, 2023)
	assert.Equal(t, 2, row.AdjustedYouthCount, "youth count clamps to the delta")
	assert.Equal(t, 0, row.OthersCount)
	assert.Equal(t, row.IncreaseCount, row.AdjustedYouthCount+row.OthersCount)
}

func TestAnalyzer_PostSupportComplete(t *testing.T) {
	// Cohort 2020, headcount held through 2022; evaluated 2024: both
	// monitoring windows closed, amendment (March 31 2026) still open.

	a := newTestAnalyzer(credit.YearRange{First: 2019, Last: 2023})
	res, err := a.Analyze(credit.AnalysisInput{
		Profile:         otherZoneProfile(),
		HeadcountByYear: map[string]int{"2019": 5, "2020": 8, "2021": 8, "2022": 9, "2023": 9},
		Now:             credit.NewTimePoint(2024, time.June, 1),
	})
	require.NoError(t, err)

	row := findYear(t, res, 2020)
	assert.Equal(t, credit.StatusPostSupportComplete, row.Status)
	// 3 × 770 × 10,000
	assert.True(t, row.EmploymentCredit.Equal(decimal.NewFromInt(23_100_000)),
		"employment credit = %v", row.EmploymentCredit)
	assert.True(t, row.TotalCredit.Equal(row.OriginalCredit))
}

// =============================================================================
// RECAPTURE FLOW
// =============================================================================

func TestAnalyzer_DecreaseForfeitsOpenCohorts(t *testing.T) {
	// GIVEN: 15 -> 18 -> 8 across 2022..2024
	// WHEN: Analyzed late 2024 (2023's monitoring runs through 2025)
	// THEN: The 2023 cohort is recaptured in full and the 2024 decrease
	//       row carries the clawback assessment

	a := newTestAnalyzer(credit.YearRange{First: 2021, Last: 2024})
	res, err := a.Analyze(credit.AnalysisInput{
		Profile:         otherZoneProfile(),
		HeadcountByYear: map[string]int{"2021": 15, "2022": 15, "2023": 18, "2024": 8},
		Now:             credit.NewTimePoint(2024, time.November, 1),
	})
	require.NoError(t, err)

	cohort := findYear(t, res, 2023)
	assert.Equal(t, credit.StatusRecaptureRisk, cohort.Status)
	require.NotNil(t, cohort.Violation)
	assert.Equal(t, 2024, cohort.Violation.Year)
	assert.Equal(t, 18, cohort.Violation.Baseline)
	assert.Equal(t, 10, cohort.Violation.Shortfall)

	// 3 heads: employment 3×920×10⁴ + insurance 3×10×0.5×10⁴
	wantOriginal := decimal.NewFromInt(27_600_000 + 150_000)
	assert.True(t, cohort.OriginalCredit.Equal(wantOriginal), "original = %v", cohort.OriginalCredit)
	assert.True(t, cohort.RecaptureAmount.Equal(wantOriginal))
	assert.True(t, cohort.TotalCredit.IsZero(), "recaptured cohort claims nothing")

	trigger := findYear(t, res, 2024)
	assert.Equal(t, credit.StatusRecaptureTrigger, trigger.Status)
	require.NotNil(t, trigger.Recapture)
	assert.Equal(t, 10, trigger.Recapture.DecreaseCount)
	assert.Equal(t, []int{2023}, trigger.Recapture.ForfeitedYears)
	assert.True(t, trigger.Recapture.Amount.Equal(wantOriginal))

	// Forfeited money is excluded from the headline total.
	assert.True(t, res.Summary.GrandTotal.IsZero())
	assert.True(t, res.Summary.ByStatus[credit.StatusRecaptureRisk].Equal(wantOriginal))
}

func TestAnalyzer_CohortOutsideLookbackSurvivesDecrease(t *testing.T) {
	// Cohort 2020, decrease 2024: outside the 2-year lookback and past
	// its own monitoring window — the credit stands.

	a := newTestAnalyzer(credit.YearRange{First: 2019, Last: 2024})
	res, err := a.Analyze(credit.AnalysisInput{
		Profile:         otherZoneProfile(),
		HeadcountByYear: map[string]int{"2019": 5, "2020": 9, "2021": 9, "2022": 9, "2023": 9, "2024": 4},
		Now:             credit.NewTimePoint(2024, time.November, 1),
	})
	require.NoError(t, err)

	cohort := findYear(t, res, 2020)
	assert.Equal(t, credit.StatusPostSupportComplete, cohort.Status)
	assert.False(t, cohort.TotalCredit.IsZero())

	trigger := findYear(t, res, 2024)
	require.NotNil(t, trigger.Recapture)
	assert.Empty(t, trigger.Recapture.ForfeitedYears)
}

// =============================================================================
// GENERATION B
// =============================================================================

func TestAnalyzer_GenerationBCohort_TierWeightedCredits(t *testing.T) {
	// 2025 cohort in the unified program, all three claim years open:
	// employment accrues per tier, social insurance on the first two only.

	a := newTestAnalyzer(credit.YearRange{First: 2024, Last: 2025})
	res, err := a.Analyze(credit.AnalysisInput{
		Profile:         otherZoneProfile(),
		HeadcountByYear: map[string]int{"2024": 10, "2025": 13},
		Adjustments:     map[string]credit.Adjustment{"2025": {YouthCount: 1}},
		Now:             credit.NewTimePoint(2026, time.March, 1),
	})
	require.NoError(t, err)

	row := findYear(t, res, 2025)
	assert.Equal(t, credit.GenerationB, row.Generation)
	assert.Len(t, row.Deadlines, 3)
	assert.Equal(t, "2031-05-31", row.AmendmentDeadline.String())

	// per year: (2×770 + 1×1200) × 10,000 = 27,400,000 → ×3 tiers
	assert.True(t, row.EmploymentCredit.Equal(decimal.NewFromInt(82_200_000)),
		"employment credit = %v", row.EmploymentCredit)
	// per year: (1×120×1.0 + 2×120×0.5) × 10,000 = 2,400,000 → ×2 tiers
	assert.True(t, row.SocialInsuranceCredit.Equal(decimal.NewFromInt(4_800_000)),
		"insurance credit = %v", row.SocialInsuranceCredit)
	assert.Equal(t, credit.StatusPostSupportOngoing, row.Status)
}

func TestAnalyzer_ModeOverridePinsGeneration(t *testing.T) {
	a := newTestAnalyzer(credit.YearRange{First: 2022, Last: 2023})
	a.Mode = credit.RateModeGenerationB

	res, err := a.Analyze(credit.AnalysisInput{
		Profile:         otherZoneProfile(),
		HeadcountByYear: map[string]int{"2022": 5, "2023": 8},
		Now:             credit.NewTimePoint(2024, time.June, 1),
	})
	require.NoError(t, err)

	row := findYear(t, res, 2023)
	assert.Equal(t, credit.GenerationB, row.Generation)
	assert.Len(t, row.Deadlines, 3)
}
