/*
monitor.go - Post-support (claw-back-risk) monitoring

PURPOSE:
  After a cohort year earns a credit, headcount must stay at or above the
  cohort baseline through the monitoring window: 2 years for the
  employment credit, 1 year for the social-insurance credit. This file
  walks the headcount series forward inside that window and reports the
  first violating year.

RULES:
  - monitoringEnd = December 31 of (Y + window). Past that date, no
    violation is possible; monitoring is complete.
  - The baseline is the cohort year's own headcount, series[Y].
  - Scanning covers Y+1 through min(currentYear, Y+window), ascending.
    The FIRST year strictly below the baseline wins; later, worse years
    are not reported.
  - A year the raw data never observed is not a violation. Data that
    hasn't arrived yet cannot prove a decrease.
*/
package credit

// =============================================================================
// REPORTS
// =============================================================================

// Violation identifies the first in-window year whose headcount fell below
// the cohort baseline.
type Violation struct {
	Year      int
	Baseline  int
	Observed  int
	Shortfall int
}

// MonitorReport is the outcome of one (cohort, credit type) check.
type MonitorReport struct {
	InMonitoring  bool
	End           TimePoint
	RemainingDays int
	Violation     *Violation
}

// =============================================================================
// MONITOR
// =============================================================================

type Monitor struct {
	Source RateSource
}

// Check evaluates the monitoring obligation for one cohort year and credit
// type against the series and now. Pure: recomputed per invocation, no
// state carried.
func (m Monitor) Check(cohortYear int, ct CreditType, series *Series, now TimePoint) MonitorReport {
	window := m.Source.MonitoringWindow(ct)
	end := EndOfYear(cohortYear + window)

	if now.After(end) {
		return MonitorReport{InMonitoring: false, End: end}
	}

	report := MonitorReport{
		InMonitoring:  true,
		End:           end,
		RemainingDays: RemainingDays(now, end),
	}

	baseline, _ := series.Observed(cohortYear)

	last := cohortYear + window
	if now.Year() < last {
		last = now.Year()
	}
	for year := cohortYear + 1; year <= last; year++ {
		observed, ok := series.Observed(year)
		if !ok {
			continue // not yet observable
		}
		if observed < baseline {
			report.Violation = &Violation{
				Year:      year,
				Baseline:  baseline,
				Observed:  observed,
				Shortfall: baseline - observed,
			}
			break // earliest year wins
		}
	}

	return report
}
