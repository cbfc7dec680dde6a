package credit

import (
	"time"
)

// =============================================================================
// TIME POINT - Day-granular dates (deadlines, monitoring ends, "now")
// =============================================================================

type TimePoint struct {
	Time time.Time
}

func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() TimePoint {
	now := time.Now()
	return NewTimePoint(now.Year(), now.Month(), now.Day())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Properties
func (tp TimePoint) Year() int    { return tp.Time.Year() }
func (tp TimePoint) IsZero() bool { return tp.Time.IsZero() }

func (tp TimePoint) String() string { return tp.Time.Format("2006-01-02") }

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// RemainingDays is the deadline arithmetic the statute uses everywhere:
// whole days left until the deadline, floored at zero once it has passed.
func RemainingDays(now, deadline TimePoint) int {
	d := DaysBetween(now, deadline)
	if d < 0 {
		return 0
	}
	return d
}

func EndOfYear(year int) TimePoint { return NewTimePoint(year, time.December, 31) }
