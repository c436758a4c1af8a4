package matcher

import (
	"time"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

const day = 24 * time.Hour

// DefaultTolerance is the window searched around a forecast's issuance
const DefaultTolerance = 7 * day

// TolerancePolicy decides how far from a forecast's issuance an observation
// may lie and still be matched to it
type TolerancePolicy interface {
	ToleranceWindow(f *domain.Forecast) time.Duration
}

// FixedTolerance applies the same window to every forecast
type FixedTolerance time.Duration

// ToleranceWindow returns the fixed window regardless of the forecast
func (t FixedTolerance) ToleranceWindow(*domain.Forecast) time.Duration {
	return time.Duration(t)
}

// HorizonTolerance widens the window as the forecast horizon grows:
//   - horizon <= 30 days: ±2 days
//   - horizon <= 90 days: ±7 days
//   - horizon <= 180 days: ±14 days
//   - beyond: ±21 days
type HorizonTolerance struct{}

// ToleranceWindow returns the window for the forecast's issuance-to-target distance
func (HorizonTolerance) ToleranceWindow(f *domain.Forecast) time.Duration {
	days := f.Horizon().Hours() / 24

	switch {
	case days <= 30:
		return 2 * day
	case days <= 90:
		return 7 * day
	case days <= 180:
		return 14 * day
	default:
		return 21 * day
	}
}

// PolicyByName resolves a configured policy name.
// "horizon" selects HorizonTolerance, anything else the fixed ±7 day window.
func PolicyByName(name string) TolerancePolicy {
	if name == "horizon" {
		return HorizonTolerance{}
	}
	return FixedTolerance(DefaultTolerance)
}
