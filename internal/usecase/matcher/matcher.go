package matcher

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// Matcher pairs forecasts with realized observations
type Matcher struct {
	Policy TolerancePolicy
}

// NewMatcher creates a Matcher using the given tolerance policy.
// A nil policy falls back to the fixed ±7 day window.
func NewMatcher(policy TolerancePolicy) *Matcher {
	if policy == nil {
		policy = FixedTolerance(DefaultTolerance)
	}
	return &Matcher{Policy: policy}
}

// Match pairs every forecast with the observation closest to its issuance
// timestamp (not its target timestamp), so a forecast can be evaluated before
// its target date arrives.
//
// Logic, per forecast:
//  1. Candidates are observations within the tolerance window of the issuance
//  2. No candidate: the forecast is dropped
//  3. Several candidates: the smallest absolute distance wins, ties go to the
//     first one in input order
//  4. Error = actual - predicted
//
// The result holds at most one pair per forecast. Values that cannot be
// represented as finite floats yield domain.ErrDegenerateInput.
func (m *Matcher) Match(forecasts []*domain.Forecast, observations []*domain.Observation) ([]domain.MatchedPair, error) {
	if len(forecasts) == 0 || len(observations) == 0 {
		return []domain.MatchedPair{}, nil
	}

	pairs := make([]domain.MatchedPair, 0, len(forecasts))
	for _, f := range forecasts {
		tolerance := m.Policy.ToleranceWindow(f)

		closest := -1
		var closestDiff time.Duration
		for i, o := range observations {
			diff := absDuration(o.ObservedAt.Sub(f.IssuedAt))
			if diff > tolerance {
				continue
			}
			if closest == -1 || diff < closestDiff {
				closest = i
				closestDiff = diff
			}
		}

		if closest == -1 {
			continue
		}

		predicted, err := toFinite(f.PredictedValue)
		if err != nil {
			return nil, fmt.Errorf("forecast %s predicted value: %w", f.ID, err)
		}
		actual, err := toFinite(observations[closest].Value)
		if err != nil {
			return nil, fmt.Errorf("observation of %s at %s: %w",
				observations[closest].SubjectID, observations[closest].ObservedAt.Format(time.DateOnly), err)
		}

		pairs = append(pairs, domain.MatchedPair{
			Predicted:  predicted,
			Actual:     actual,
			IssuedAt:   f.IssuedAt,
			ObservedAt: observations[closest].ObservedAt,
			Error:      actual - predicted,
		})
	}

	return pairs, nil
}

func toFinite(d decimal.Decimal) (float64, error) {
	v := d.InexactFloat64()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %s is not finite: %w", d.String(), domain.ErrDegenerateInput)
	}
	return v, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
