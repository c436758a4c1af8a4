package domain

import "time"

// Period names an evaluation look-back window
type Period string

const (
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
	Period90Days Period = "90d"
	PeriodAll    Period = "all"
)

// Periods lists every period metric snapshots are maintained for
var Periods = []Period{Period7Days, Period30Days, Period90Days, PeriodAll}

// ParsePeriod converts a name into a Period.
// Unknown names fall back to PeriodAll rather than failing.
func ParsePeriod(name string) Period {
	switch Period(name) {
	case Period7Days, Period30Days, Period90Days:
		return Period(name)
	default:
		return PeriodAll
	}
}

// Days returns the length of the window, or 0 for an unbounded period
func (p Period) Days() int {
	switch p {
	case Period7Days:
		return 7
	case Period30Days:
		return 30
	case Period90Days:
		return 90
	default:
		return 0
	}
}

// Cutoff returns the exclusive lower bound of the window ending at now.
// The second return value is false for unbounded periods.
func (p Period) Cutoff(now time.Time) (time.Time, bool) {
	days := p.Days()
	if days == 0 {
		return time.Time{}, false
	}
	return now.Add(-time.Duration(days) * 24 * time.Hour), true
}

// Filter keeps the forecasts issued in (cutoff, now].
// Unbounded periods return the input unchanged.
func (p Period) Filter(forecasts []*Forecast, now time.Time) []*Forecast {
	cutoff, bounded := p.Cutoff(now)
	if !bounded {
		return forecasts
	}

	filtered := make([]*Forecast, 0, len(forecasts))
	for _, f := range forecasts {
		if f.IssuedAt.After(cutoff) && !f.IssuedAt.After(now) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
