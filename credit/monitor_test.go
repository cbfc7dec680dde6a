package credit_test

import (
	"testing"
	"time"

	"github.com/warp/taxcredit-engine/credit"
)

func buildSeries(t *testing.T, r credit.YearRange, raw map[string]int) *credit.Series {
	t.Helper()
	return credit.NewSeriesBuilder(r).Build(raw)
}

func TestMonitor_CompleteAfterWindowEnd(t *testing.T) {
	// GIVEN: Cohort 2020, employment credit (2-year window, ends Dec 31 2022)
	// WHEN: Checked in 2023
	// THEN: Monitoring is complete; no violation possible

	s := buildSeries(t, credit.YearRange{First: 2019, Last: 2024}, map[string]int{
		"2019": 5, "2020": 10, "2021": 3, "2022": 3,
	})
	m := credit.Monitor{Source: credit.RateSourceFor(2020, credit.RateModeAuto)}

	report := m.Check(2020, credit.CreditEmployment, s, credit.NewTimePoint(2023, time.January, 1))
	if report.InMonitoring {
		t.Error("monitoring should be complete")
	}
	if report.Violation != nil {
		t.Error("complete monitoring never reports a violation")
	}
	if got := report.End.String(); got != "2022-12-31" {
		t.Errorf("monitoring end = %s, want 2022-12-31", got)
	}
}

func TestMonitor_FirstViolatingYearWins(t *testing.T) {
	// GIVEN: Cohort 2022 (baseline 10) with drops in 2023 (8) and 2024 (2)
	// WHEN: Checked during the window
	// THEN: 2023 is reported, not the worse 2024

	s := buildSeries(t, credit.YearRange{First: 2021, Last: 2024}, map[string]int{
		"2021": 6, "2022": 10, "2023": 8, "2024": 2,
	})
	m := credit.Monitor{Source: credit.RateSourceFor(2022, credit.RateModeAuto)}

	report := m.Check(2022, credit.CreditEmployment, s, credit.NewTimePoint(2024, time.July, 1))
	if report.Violation == nil {
		t.Fatal("expected a violation")
	}
	if report.Violation.Year != 2023 {
		t.Errorf("violation year = %d, want 2023 (earliest wins)", report.Violation.Year)
	}
	if report.Violation.Baseline != 10 || report.Violation.Observed != 8 || report.Violation.Shortfall != 2 {
		t.Errorf("violation detail = %+v", report.Violation)
	}
}

func TestMonitor_UnobservedYearIsNotAViolation(t *testing.T) {
	// GIVEN: Cohort 2023 with no 2024 data yet
	// WHEN: Checked in 2024
	// THEN: No violation — absence of data is "not yet observable"

	s := buildSeries(t, credit.YearRange{First: 2022, Last: 2025}, map[string]int{
		"2022": 4, "2023": 9,
	})
	m := credit.Monitor{Source: credit.RateSourceFor(2023, credit.RateModeAuto)}

	report := m.Check(2023, credit.CreditEmployment, s, credit.NewTimePoint(2024, time.November, 1))
	if !report.InMonitoring {
		t.Error("window runs through 2025; should be in monitoring")
	}
	if report.Violation != nil {
		t.Errorf("unobserved year flagged as violation: %+v", report.Violation)
	}
}

func TestMonitor_SocialInsuranceWindowIsOneYear(t *testing.T) {
	s := buildSeries(t, credit.YearRange{First: 2021, Last: 2024}, map[string]int{
		"2021": 4, "2022": 9, "2023": 9,
	})
	m := credit.Monitor{Source: credit.RateSourceFor(2022, credit.RateModeAuto)}

	// Employment window (2y) still open in 2024...
	emp := m.Check(2022, credit.CreditEmployment, s, credit.NewTimePoint(2024, time.June, 1))
	if !emp.InMonitoring {
		t.Error("employment monitoring runs through 2024")
	}

	// ...but the social-insurance window (1y) closed end of 2023.
	ins := m.Check(2022, credit.CreditSocialInsurance, s, credit.NewTimePoint(2024, time.June, 1))
	if ins.InMonitoring {
		t.Error("social-insurance monitoring ended Dec 31 2023")
	}
}

func TestMonitor_ScanStopsAtCurrentYear(t *testing.T) {
	// A drop recorded for a future year must not be flagged before "now"
	// reaches it.

	s := buildSeries(t, credit.YearRange{First: 2022, Last: 2025}, map[string]int{
		"2022": 4, "2023": 9, "2024": 9, "2025": 2,
	})
	m := credit.Monitor{Source: credit.RateSourceFor(2023, credit.RateModeAuto)}

	report := m.Check(2023, credit.CreditEmployment, s, credit.NewTimePoint(2024, time.December, 1))
	if report.Violation != nil {
		t.Errorf("2025 data scanned too early: %+v", report.Violation)
	}
}
