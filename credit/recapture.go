/*
recapture.go - Clawback assessment for decrease years

PURPOSE:
  A headcount decrease in year D voids the credits of the increase cohorts
  still inside their monitoring window: every cohort year in
  [D - window, D - 1] that earned a credit forfeits it in full. The
  forfeited sum becomes the decrease year's recapture liability. Cohorts
  outside the lookback window are untouched no matter how large the
  decrease.
*/
package credit

import "github.com/shopspring/decimal"

// RecaptureEvent is the clawback derived from one decrease year.
type RecaptureEvent struct {
	DecreaseYear   int
	DecreaseCount  int
	ForfeitedYears []int
	Amount         decimal.Decimal
}

type RecaptureCalculator struct {
	// Window is the lookback length in years; the employment-credit
	// monitoring window governs it.
	Window int
}

// Assess walks backward from the decrease year over the already-classified
// increase cohorts and sums the forfeited credits. Cohorts whose amendment
// window had already expired carry no credit, so they contribute nothing.
func (r RecaptureCalculator) Assess(cohorts []YearResult, decreaseYear, magnitude int) RecaptureEvent {
	event := RecaptureEvent{
		DecreaseYear:  decreaseYear,
		DecreaseCount: magnitude,
		Amount:        decimal.Zero,
	}

	first := decreaseYear - r.Window
	for _, cohort := range cohorts {
		if cohort.ChangeType != ChangeIncrease {
			continue
		}
		if cohort.Year < first || cohort.Year >= decreaseYear {
			continue
		}
		if cohort.OriginalCredit.IsZero() {
			continue
		}
		event.ForfeitedYears = append(event.ForfeitedYears, cohort.Year)
		event.Amount = event.Amount.Add(cohort.OriginalCredit)
	}

	return event
}
