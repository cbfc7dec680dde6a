/*
calculator.go - Nominal credit amounts for one cohort

PURPOSE:
  Applies the statutory formulas to a cohort's increase split. Rates are
  quoted in ₩10,000 units, so amounts scale by 10,000 and round half-up to
  whole won at the formula boundary — the only place rounding happens.

FORMULAS:
  employment = (others × othersRate + youth × youthRate × multiplier) × 10,000
  insurance  = (youth × unit × youthRatio + others × unit × othersRatio) × 10,000

  A zero rate (year outside the table) yields a zero credit, not an error.
*/
package credit

import "github.com/shopspring/decimal"

var wonScale = decimal.NewFromInt(10000)

// CohortInput is everything the formulas need for one cohort year.
type CohortInput struct {
	Year     int
	Zone     Zone
	Category Category

	YouthCount  int
	OthersCount int

	// InsuranceBaseUnit is the Generation B per-head unit override in
	// ₩10,000 units; 0 selects the generation default.
	InsuranceBaseUnit int
}

// CreditAmounts are the two program credits for one cohort, in won.
type CreditAmounts struct {
	Employment      decimal.Decimal
	SocialInsurance decimal.Decimal
}

func (c CreditAmounts) Total() decimal.Decimal { return c.Employment.Add(c.SocialInsurance) }

type CreditCalculator struct {
	Source RateSource
}

// Calculate produces the nominal credits for one cohort. Eligibility,
// deadlines and recapture are the orchestrator's business; this is pure
// rate arithmetic.
func (c CreditCalculator) Calculate(in CohortInput) CreditAmounts {
	youth := decimal.NewFromInt(int64(in.YouthCount))
	others := decimal.NewFromInt(int64(in.OthersCount))

	emp := c.Source.Employment(in.Year, in.Zone)
	employment := others.Mul(emp.OthersRate).
		Add(youth.Mul(emp.YouthRate).Mul(emp.YouthMultiplier)).
		Mul(wonScale).
		Round(0)

	ins := c.Source.SocialInsurance(in.Year, in.Category, in.InsuranceBaseUnit)
	insurance := youth.Mul(ins.UnitRate).Mul(ins.YouthRatio).
		Add(others.Mul(ins.UnitRate).Mul(ins.OthersRatio)).
		Mul(wonScale).
		Round(0)

	return CreditAmounts{Employment: employment, SocialInsurance: insurance}
}
