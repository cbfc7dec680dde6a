/*
window.go - Amendment (retroactive filing) deadline calculation

PURPOSE:
  Computes whether a cohort year's retroactive claim window is still open.
  The statute's amendment rule has been interpreted two ways across rule
  generations, so the cutoff is a parameter, not a constant:

  Model A: one deadline, March 31 of Y+6.
  Model B: three deadlines, May 31 of Y+6, Y+7 and Y+8 — one per statutory
           claim year, each independently expiring.

  The calculator never errors: a deadline fully in the past just comes
  back with Available=false and zero remaining days.
*/
package credit

import "time"

// =============================================================================
// DEADLINE MODELS
// =============================================================================

// DeadlineModel parametrizes the amendment cutoff: the month/day it falls
// on, how many years past the cohort year the first deadline sits, and how
// many consecutive claim-year tiers exist.
type DeadlineModel struct {
	Month    time.Month
	Day      int
	YearsOut int
	Tiers    int
}

var (
	AmendmentModelA = DeadlineModel{Month: time.March, Day: 31, YearsOut: 6, Tiers: 1}
	AmendmentModelB = DeadlineModel{Month: time.May, Day: 31, YearsOut: 6, Tiers: 3}
)

// Deadline is one tier's filing cutoff for a cohort.
type Deadline struct {
	Offset        int // claim-year offset: 0, 1, 2
	Date          TimePoint
	Available     bool
	RemainingDays int
}

// =============================================================================
// WINDOW CALCULATOR
// =============================================================================

type WindowCalculator struct {
	Model DeadlineModel
}

// Deadlines returns every tier's deadline for a cohort year, evaluated
// against now. Total function: out-of-window cohorts simply come back
// unavailable.
func (w WindowCalculator) Deadlines(cohortYear int, now TimePoint) []Deadline {
	tiers := w.Model.Tiers
	if tiers < 1 {
		tiers = 1
	}
	deadlines := make([]Deadline, 0, tiers)
	for offset := 0; offset < tiers; offset++ {
		date := NewTimePoint(cohortYear+w.Model.YearsOut+offset, w.Model.Month, w.Model.Day)
		deadlines = append(deadlines, Deadline{
			Offset:        offset,
			Date:          date,
			Available:     now.BeforeOrEqual(date),
			RemainingDays: RemainingDays(now, date),
		})
	}
	return deadlines
}

// Expired reports whether every tier has passed. For Model A this is the
// single March 31 check; for Model B all three tiers must be gone.
func (w WindowCalculator) Expired(cohortYear int, now TimePoint) bool {
	for _, d := range w.Deadlines(cohortYear, now) {
		if d.Available {
			return false
		}
	}
	return true
}
