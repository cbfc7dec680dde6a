/*
Package credit implements the hiring tax-credit eligibility, calculation,
and recapture engine.

PURPOSE:
  Converts a company profile plus a per-year headcount time series into a
  structured ledger of per-year outcomes: which years earned a statutory
  hiring credit, how much, whether the filing window is still open, and
  whether a later headcount decrease claws the credit back.

KEY CONCEPTS:
  - Cohort year:    A year whose headcount increased over the prior year.
                    Only cohorts earn credit.
  - Amendment:      The retroactive filing window for a cohort. Once it
                    closes the credit is gone, regardless of anything else.
  - Post-support:   A monitoring window after each cohort year during which
                    headcount must not drop below the cohort baseline.
  - Recapture:      Forfeiture of an earned credit because the monitoring
                    window was violated.
  - Generations:    Two incompatible statutory rule sets exist. Generation A
                    (cohorts through 2024) has two independently claimable
                    programs; Generation B (the unified program) has a flat
                    rate table and three claim-year deadlines per cohort.

DESIGN PRINCIPLES:
  1. Purity: the whole analysis is a function of (profile, headcounts,
     adjustments, now). No I/O, no shared mutable state, safe to run
     concurrently for independent companies.
  2. Precision: decimal.Decimal for every won amount, half-up rounding at
     the statutory formula boundary only.
  3. Degradation over failure: bad region strings, unknown industry codes,
     and missing headcounts resolve to documented defaults. The only hard
     failure is a missing profile.

SEE ALSO:
  - rates.go:      statutory rate tables, Generation A/B selection
  - series.go:     headcount normalization and deltas
  - window.go:     amendment deadline models
  - monitor.go:    post-support violation detection
  - analyzer.go:   the per-year state machine
*/
package credit

import (
	"errors"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLASSIFICATION RESULTS
// =============================================================================

// Zone is the binary location classification used to select credit rates.
type Zone string

const (
	ZoneCapital Zone = "capital"
	ZoneOther   Zone = "other"
)

// Category is the binary industry classification used to select the
// social-insurance subsidy ratio.
type Category string

const (
	CategoryGrowthService Category = "growth_service"
	CategoryGeneral       Category = "general"
)

// =============================================================================
// COMPANY PROFILE
// =============================================================================

// CompanyProfile is the immutable company record the analysis runs against.
// Zone and Category are derived by the classifiers, never stored here.
type CompanyProfile struct {
	RegistrationNo string
	Name           string
	Province       string // administrative division, e.g. "서울특별시"
	District       string
	IndustryCode   string
	EstablishedAt  TimePoint
	Excluded       bool // external disqualification marker, pass-through
}

// Adjustment carries the per-year what-if parameters a caller may supply
// for a cohort: how many of the increase were youth hires, and (Generation B
// only) the per-head social-insurance base unit rate in ₩10,000 units.
type Adjustment struct {
	YouthCount          int
	SocialInsuranceBase int // 0 means the generation default
}

// =============================================================================
// CHANGE CLASSIFICATION
// =============================================================================

type ChangeType string

const (
	ChangeIncrease ChangeType = "increase"
	ChangeDecrease ChangeType = "decrease"
	ChangeNone     ChangeType = "none"
)

// Status is the terminal classification of a ledger year.
type Status string

const (
	// Increase-cohort statuses, in evaluation priority order.
	StatusAmendmentExpired    Status = "amendment_expired"
	StatusRecaptureRisk       Status = "recapture_risk"
	StatusPostSupportComplete Status = "post_support_complete"
	StatusPostSupportOngoing  Status = "post_support_ongoing"

	// Non-cohort statuses.
	StatusRecaptureTrigger Status = "recapture_trigger" // decrease year
	StatusNeutral          Status = "neutral"           // no change
)

// =============================================================================
// LEDGER OUTPUT
// =============================================================================

// YearResult is one row of the per-company ledger.
type YearResult struct {
	Year       int
	ChangeType ChangeType
	Status     Status

	IncreaseCount      int
	AdjustedYouthCount int
	OthersCount        int

	// Credits in won. TotalCredit is what is actually still claimable;
	// OriginalCredit is the nominal amount before expiry or recapture.
	EmploymentCredit      decimal.Decimal
	SocialInsuranceCredit decimal.Decimal
	TotalCredit           decimal.Decimal
	OriginalCredit        decimal.Decimal
	RecaptureAmount       decimal.Decimal

	Generation Generation

	AmendmentDeadline TimePoint
	Deadlines         []Deadline // all tiers (Generation B has three)
	MonitoringEnd     TimePoint

	Violation *Violation      // set when post-support monitoring failed
	Recapture *RecaptureEvent // set on decrease years
}

// Summary buckets claimable money by status. RecaptureRisk rows contribute
// their recapture amount; every other status contributes its total credit.
// GrandTotal only counts money that is actually claimable.
type Summary struct {
	ByStatus   map[Status]decimal.Decimal
	GrandTotal decimal.Decimal
}

// AnalysisResult is the full outcome for one company.
type AnalysisResult struct {
	Profile  CompanyProfile
	Zone     Zone
	Category Category
	Years    []YearResult
	Summary  Summary
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNoProfile is the only hard precondition failure: the engine refuses to
// run without a company profile. Everything else degrades to defaults.
var ErrNoProfile = errors.New("credit: no company profile")
