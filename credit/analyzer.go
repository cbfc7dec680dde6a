/*
analyzer.go - The per-company analysis orchestrator

PURPOSE:
  Drives the series builder, rate tables, deadline windows, post-support
  monitor, and credit/recapture calculators across the full year range for
  one company, producing the ordered ledger and the aggregate summary.

STATE MACHINE (per cohort year, evaluated in priority order):
  1. Amendment window fully expired  -> AmendmentExpired  (credit = 0)
  2. Monitoring violation detected   -> RecaptureRisk     (credit = 0,
                                        recapture = forfeited sum)
  3. No monitoring window still open -> PostSupportComplete (full credit)
  4. Otherwise                       -> PostSupportOngoing  (provisional)

  Decrease years classify as RecaptureTrigger and carry the clawback
  assessment; unchanged years are Neutral.

ORDERING:
  Years are processed strictly ascending — a decrease year's assessment
  reads the cohort rows produced before it. Separate companies have no
  ordering relationship and may be analyzed concurrently.

FAILURE SEMANTICS:
  A nil profile is the one refusal (ErrNoProfile). Malformed profile
  fields degrade to Other/General/zero and a best-effort ledger is still
  produced.
*/
package credit

import "github.com/shopspring/decimal"

// =============================================================================
// ANALYZER
// =============================================================================

type Analyzer struct {
	Regions    *RegionClassifier
	Industries *IndustryClassifier
	Years      YearRange
	Mode       RateMode
}

// NewAnalyzer returns an analyzer with the statutory defaults: the
// standard classification tables, the default year range, and per-year
// generation selection.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Regions:    NewRegionClassifier(),
		Industries: NewIndustryClassifier(),
		Years:      DefaultYearRange(),
		Mode:       RateModeAuto,
	}
}

// AnalysisInput is the engine's boundary contract. Year keys in both maps
// may be plain ("2024") or bracketed ("[2024]").
type AnalysisInput struct {
	Profile         *CompanyProfile
	HeadcountByYear map[string]int
	Adjustments     map[string]Adjustment
	Now             TimePoint // zero value means today
}

// Analyze runs the full per-year state machine for one company.
func (a *Analyzer) Analyze(in AnalysisInput) (*AnalysisResult, error) {
	if in.Profile == nil {
		return nil, ErrNoProfile
	}

	now := in.Now
	if now.IsZero() {
		now = Today()
	}

	result := &AnalysisResult{
		Profile:  *in.Profile,
		Zone:     a.Regions.Classify(in.Profile.Province),
		Category: a.Industries.Classify(in.Profile.IndustryCode),
	}

	series := NewSeriesBuilder(a.Years).Build(in.HeadcountByYear)
	adjustments := normalizeAdjustments(in.Adjustments)

	for year := a.Years.First + 1; year <= a.Years.Last; year++ {
		delta := series.Delta[year]
		switch {
		case delta > 0:
			row := a.classifyCohort(year, delta, adjustments[year], result, series, now)
			result.Years = append(result.Years, row)
		case delta < 0:
			row := a.classifyDecrease(year, delta, result, now)
			result.Years = append(result.Years, row)
		default:
			result.Years = append(result.Years, YearResult{
				Year:       year,
				ChangeType: ChangeNone,
				Status:     StatusNeutral,
			})
		}
	}

	result.Summary = summarize(result.Years)
	return result, nil
}

// =============================================================================
// COHORT CLASSIFICATION
// =============================================================================

func (a *Analyzer) classifyCohort(year, delta int, adj Adjustment, res *AnalysisResult, series *Series, now TimePoint) YearResult {
	source := RateSourceFor(year, a.Mode)
	windows := WindowCalculator{Model: source.DeadlineModel()}
	deadlines := windows.Deadlines(year, now)

	adjustedYouth := adj.YouthCount
	if adjustedYouth > delta {
		adjustedYouth = delta
	}
	if adjustedYouth < 0 {
		adjustedYouth = 0
	}
	others := delta - adjustedYouth

	monitor := Monitor{Source: source}
	empReport := monitor.Check(year, CreditEmployment, series, now)
	insReport := monitor.Check(year, CreditSocialInsurance, series, now)

	row := YearResult{
		Year:               year,
		ChangeType:         ChangeIncrease,
		IncreaseCount:      delta,
		AdjustedYouthCount: adjustedYouth,
		OthersCount:        others,
		Generation:         source.Generation(),
		AmendmentDeadline:  deadlines[0].Date,
		Deadlines:          deadlines,
		MonitoringEnd:      empReport.End,
	}

	// Priority 1: amendment window gone. Terminal, zero everything.
	if windows.Expired(year, now) {
		row.Status = StatusAmendmentExpired
		return row
	}

	amounts := CreditCalculator{Source: source}.Calculate(CohortInput{
		Year:              year,
		Zone:              res.Zone,
		Category:          res.Category,
		YouthCount:        adjustedYouth,
		OthersCount:       others,
		InsuranceBaseUnit: adj.SocialInsuranceBase,
	})
	employment, insurance := tierCredits(amounts, deadlines)
	original := employment.Add(insurance)

	// Priority 2: monitoring violation. The cohort keeps its nominal
	// amount on the books as recapture liability, claims nothing.
	if empReport.Violation != nil {
		row.Status = StatusRecaptureRisk
		row.Violation = empReport.Violation
		row.OriginalCredit = original
		row.RecaptureAmount = original
		return row
	}

	row.EmploymentCredit = employment
	row.SocialInsuranceCredit = insurance
	row.TotalCredit = original
	row.OriginalCredit = original

	// Priority 3/4: monitoring closed vs. still running.
	if !empReport.InMonitoring && !insReport.InMonitoring {
		row.Status = StatusPostSupportComplete
	} else {
		row.Status = StatusPostSupportOngoing
	}
	return row
}

// tierCredits applies the claim-year gating. Generation A has one tier
// carrying both programs. Generation B spreads the per-year amounts across
// three tiers; the social-insurance portion only attaches to the first
// two claim years.
func tierCredits(amounts CreditAmounts, deadlines []Deadline) (employment, insurance decimal.Decimal) {
	employment = decimal.Zero
	insurance = decimal.Zero
	for _, d := range deadlines {
		if !d.Available {
			continue
		}
		employment = employment.Add(amounts.Employment)
		if d.Offset < 2 {
			insurance = insurance.Add(amounts.SocialInsurance)
		}
	}
	return employment, insurance
}

// =============================================================================
// DECREASE CLASSIFICATION
// =============================================================================

func (a *Analyzer) classifyDecrease(year, delta int, res *AnalysisResult, now TimePoint) YearResult {
	source := RateSourceFor(year, a.Mode)
	calc := RecaptureCalculator{Window: source.MonitoringWindow(CreditEmployment)}
	event := calc.Assess(res.Years, year, -delta)

	return YearResult{
		Year:          year,
		ChangeType:    ChangeDecrease,
		Status:        StatusRecaptureTrigger,
		IncreaseCount: delta,
		Recapture:     &event,
	}
}

// =============================================================================
// SUMMARY
// =============================================================================

// summarize buckets money by status. Violated cohorts contribute their
// recapture liability to the RecaptureRisk bucket; everything else
// contributes claimable credit. The grand total is claimable money only —
// forfeited amounts never count.
func summarize(years []YearResult) Summary {
	s := Summary{
		ByStatus:   make(map[Status]decimal.Decimal),
		GrandTotal: decimal.Zero,
	}
	for _, row := range years {
		bucket := s.ByStatus[row.Status]
		if row.Status == StatusRecaptureRisk {
			s.ByStatus[row.Status] = bucket.Add(row.RecaptureAmount)
		} else {
			s.ByStatus[row.Status] = bucket.Add(row.TotalCredit)
		}
		s.GrandTotal = s.GrandTotal.Add(row.TotalCredit)
	}
	return s
}

// =============================================================================
// HELPERS
// =============================================================================

func normalizeAdjustments(raw map[string]Adjustment) map[int]Adjustment {
	out := make(map[int]Adjustment, len(raw))
	for key, adj := range raw {
		if year, ok := ParseYearKey(key); ok {
			out[year] = adj
		}
	}
	return out
}
