package credit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/taxcredit-engine/credit"
)

func TestCreditCalculator_GenerationA_NoYouth(t *testing.T) {
	// GIVEN: 2023 cohort, Other zone, General category, 10 non-youth hires
	// WHEN: Calculating
	// THEN: employment = 10 × 920 × 10,000 = 92,000,000

	calc := credit.CreditCalculator{Source: credit.RateSourceFor(2023, credit.RateModeAuto)}
	amounts := calc.Calculate(credit.CohortInput{
		Year:        2023,
		Zone:        credit.ZoneOther,
		Category:    credit.CategoryGeneral,
		OthersCount: 10,
	})

	if !amounts.Employment.Equal(decimal.NewFromInt(92_000_000)) {
		t.Errorf("employment credit = %v, want 92000000", amounts.Employment)
	}
	// insurance = 10 × 10 × 0.5 × 10,000 = 500,000
	if !amounts.SocialInsurance.Equal(decimal.NewFromInt(500_000)) {
		t.Errorf("insurance credit = %v, want 500000", amounts.SocialInsurance)
	}
}

func TestCreditCalculator_GenerationA_YouthMultiplier(t *testing.T) {
	// 2022 cohort, Capital: base 700, youth multiplier 1.57.
	// 2 youth + 3 others: (3×700 + 2×700×1.57) × 10,000 = 42,980,000

	calc := credit.CreditCalculator{Source: credit.RateSourceFor(2022, credit.RateModeAuto)}
	amounts := calc.Calculate(credit.CohortInput{
		Year:        2022,
		Zone:        credit.ZoneCapital,
		Category:    credit.CategoryGeneral,
		YouthCount:  2,
		OthersCount: 3,
	})

	if !amounts.Employment.Equal(decimal.NewFromInt(42_980_000)) {
		t.Errorf("employment credit = %v, want 42980000", amounts.Employment)
	}
	// insurance = (2×10×2.0 + 3×10×0.5) × 10,000 = 550,000
	if !amounts.SocialInsurance.Equal(decimal.NewFromInt(550_000)) {
		t.Errorf("insurance credit = %v, want 550000", amounts.SocialInsurance)
	}
}

func TestCreditCalculator_GenerationA_GrowthServiceRatio(t *testing.T) {
	calc := credit.CreditCalculator{Source: credit.RateSourceFor(2023, credit.RateModeAuto)}
	amounts := calc.Calculate(credit.CohortInput{
		Year:        2023,
		Zone:        credit.ZoneOther,
		Category:    credit.CategoryGrowthService,
		OthersCount: 4,
	})

	// insurance = 4 × 10 × 0.75 × 10,000 = 300,000
	if !amounts.SocialInsurance.Equal(decimal.NewFromInt(300_000)) {
		t.Errorf("growth-service insurance credit = %v, want 300000", amounts.SocialInsurance)
	}
}

func TestCreditCalculator_GenerationB(t *testing.T) {
	// Unified program, Other zone: youth 1200, others 770.
	// 1 youth + 2 others: (2×770 + 1×1200) × 10,000 = 27,400,000
	// insurance (base 120): (1×120×1.0 + 2×120×0.5) × 10,000 = 2,400,000

	calc := credit.CreditCalculator{Source: credit.RateSourceFor(2025, credit.RateModeAuto)}
	amounts := calc.Calculate(credit.CohortInput{
		Year:        2025,
		Zone:        credit.ZoneOther,
		Category:    credit.CategoryGeneral,
		YouthCount:  1,
		OthersCount: 2,
	})

	if !amounts.Employment.Equal(decimal.NewFromInt(27_400_000)) {
		t.Errorf("employment credit = %v, want 27400000", amounts.Employment)
	}
	if !amounts.SocialInsurance.Equal(decimal.NewFromInt(2_400_000)) {
		t.Errorf("insurance credit = %v, want 2400000", amounts.SocialInsurance)
	}
}

func TestCreditCalculator_UnsupportedYearYieldsZero(t *testing.T) {
	// 2016 has no Generation A rate: zero credit, not an error.

	calc := credit.CreditCalculator{Source: credit.RateSourceFor(2016, credit.RateModeAuto)}
	amounts := calc.Calculate(credit.CohortInput{
		Year:        2016,
		Zone:        credit.ZoneCapital,
		Category:    credit.CategoryGeneral,
		OthersCount: 5,
	})

	if !amounts.Employment.IsZero() {
		t.Errorf("out-of-table year produced employment credit %v", amounts.Employment)
	}
}
