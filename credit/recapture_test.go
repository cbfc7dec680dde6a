package credit_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warp/taxcredit-engine/credit"
)

func increaseCohort(year int, original int64) credit.YearResult {
	return credit.YearResult{
		Year:           year,
		ChangeType:     credit.ChangeIncrease,
		OriginalCredit: decimal.NewFromInt(original),
	}
}

func TestRecaptureCalculator_LookbackWindow(t *testing.T) {
	// GIVEN: Cohorts 2020, 2022, 2023; a decrease in 2024; window 2
	// WHEN: Assessing
	// THEN: 2022 and 2023 forfeit; 2020 is outside the lookback

	cohorts := []credit.YearResult{
		increaseCohort(2020, 10_000_000),
		increaseCohort(2022, 20_000_000),
		increaseCohort(2023, 30_000_000),
	}
	calc := credit.RecaptureCalculator{Window: 2}

	event := calc.Assess(cohorts, 2024, 5)

	if event.DecreaseYear != 2024 || event.DecreaseCount != 5 {
		t.Errorf("event header = %+v", event)
	}
	if len(event.ForfeitedYears) != 2 || event.ForfeitedYears[0] != 2022 || event.ForfeitedYears[1] != 2023 {
		t.Errorf("forfeited years = %v, want [2022 2023]", event.ForfeitedYears)
	}
	if !event.Amount.Equal(decimal.NewFromInt(50_000_000)) {
		t.Errorf("forfeited amount = %v, want 50000000", event.Amount)
	}
}

func TestRecaptureCalculator_ConservationBound(t *testing.T) {
	// The recapture amount never exceeds the sum of the referenced
	// cohorts' nominal credits, whatever the decrease magnitude.

	cohorts := []credit.YearResult{increaseCohort(2023, 7_000_000)}
	calc := credit.RecaptureCalculator{Window: 2}

	event := calc.Assess(cohorts, 2024, 1000)
	if !event.Amount.Equal(decimal.NewFromInt(7_000_000)) {
		t.Errorf("amount = %v, want exactly the 2023 credit", event.Amount)
	}
}

func TestRecaptureCalculator_SkipsNonCohortsAndZeroCredits(t *testing.T) {
	rows := []credit.YearResult{
		{Year: 2022, ChangeType: credit.ChangeDecrease},
		{Year: 2023, ChangeType: credit.ChangeIncrease}, // expired: zero original
	}
	calc := credit.RecaptureCalculator{Window: 2}

	event := calc.Assess(rows, 2024, 3)
	if len(event.ForfeitedYears) != 0 || !event.Amount.IsZero() {
		t.Errorf("nothing should forfeit, got %+v", event)
	}
}
