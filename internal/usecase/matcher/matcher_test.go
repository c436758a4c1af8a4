package matcher

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func forecast(issued, target string, predicted int64) *domain.Forecast {
	return &domain.Forecast{
		ID:             uuid.New(),
		SubjectID:      "c1",
		AgentID:        "A",
		IssuedAt:       date(issued),
		TargetAt:       date(target),
		PredictedValue: decimal.NewFromInt(predicted),
	}
}

func observation(observed string, value int64) *domain.Observation {
	return &domain.Observation{
		SubjectID:  "c1",
		ObservedAt: date(observed),
		Value:      decimal.NewFromInt(value),
	}
}

func TestMatch_SingleForecastScenario(t *testing.T) {
	m := NewMatcher(nil)

	forecasts := []*domain.Forecast{forecast("2025-01-01", "2025-04-01", 100)}
	observations := []*domain.Observation{observation("2025-01-02", 102)}

	pairs, err := m.Match(forecasts, observations)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 100.0, pairs[0].Predicted)
	assert.Equal(t, 102.0, pairs[0].Actual)
	assert.Equal(t, 2.0, pairs[0].Error) // actual - predicted
	assert.Equal(t, date("2025-01-01"), pairs[0].IssuedAt)
	assert.Equal(t, date("2025-01-02"), pairs[0].ObservedAt)
}

func TestMatch_EmptyInputs(t *testing.T) {
	m := NewMatcher(nil)

	pairs, err := m.Match(nil, []*domain.Observation{observation("2025-01-02", 102)})
	require.NoError(t, err)
	assert.Empty(t, pairs)

	pairs, err = m.Match([]*domain.Forecast{forecast("2025-01-01", "2025-04-01", 100)}, nil)
	require.NoError(t, err)
	assert.NotNil(t, pairs)
	assert.Empty(t, pairs)
}

func TestMatch_DropsForecastsOutsideWindow(t *testing.T) {
	m := NewMatcher(nil)

	forecasts := []*domain.Forecast{
		forecast("2025-01-01", "2025-04-01", 100), // 8 days away from the only observation
		forecast("2025-01-02", "2025-04-01", 100), // exactly 7 days away, inside the window
	}
	observations := []*domain.Observation{observation("2025-01-09", 110)}

	pairs, err := m.Match(forecasts, observations)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, date("2025-01-02"), pairs[0].IssuedAt)
}

func TestMatch_PicksClosestObservation(t *testing.T) {
	m := NewMatcher(nil)

	forecasts := []*domain.Forecast{forecast("2025-01-10", "2025-04-01", 100)}
	observations := []*domain.Observation{
		observation("2025-01-05", 90),
		observation("2025-01-11", 101),
		observation("2025-01-15", 120),
	}

	pairs, err := m.Match(forecasts, observations)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 101.0, pairs[0].Actual)
}

func TestMatch_TiesGoToFirstEncountered(t *testing.T) {
	m := NewMatcher(nil)

	forecasts := []*domain.Forecast{forecast("2025-01-10", "2025-04-01", 100)}
	observations := []*domain.Observation{
		observation("2025-01-12", 104), // 2 days after
		observation("2025-01-08", 96),  // 2 days before
	}

	pairs, err := m.Match(forecasts, observations)

	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 104.0, pairs[0].Actual)
}

func TestMatch_AtMostOnePairPerForecast(t *testing.T) {
	m := NewMatcher(nil)

	forecasts := []*domain.Forecast{
		forecast("2025-01-01", "2025-02-01", 100),
		forecast("2025-01-03", "2025-02-01", 101),
		forecast("2025-03-01", "2025-04-01", 102),
	}
	observations := []*domain.Observation{
		observation("2025-01-01", 99),
		observation("2025-01-02", 100),
		observation("2025-01-03", 101),
		observation("2025-01-04", 102),
	}

	pairs, err := m.Match(forecasts, observations)

	require.NoError(t, err)
	assert.LessOrEqual(t, len(pairs), len(forecasts))
	assert.Len(t, pairs, 2) // The March forecast has no observation nearby
}

func TestMatch_DoesNotMutateInputs(t *testing.T) {
	m := NewMatcher(nil)

	f := forecast("2025-01-01", "2025-04-01", 100)
	o := observation("2025-01-02", 102)
	before := *f

	_, err := m.Match([]*domain.Forecast{f}, []*domain.Observation{o})

	require.NoError(t, err)
	assert.Equal(t, before, *f)
}

func TestMatch_HorizonPolicy(t *testing.T) {
	m := NewMatcher(HorizonTolerance{})

	// Short horizon forecast only tolerates ±2 days
	shortTerm := forecast("2025-01-01", "2025-01-15", 100)
	// Long horizon forecast tolerates ±21 days
	longTerm := forecast("2025-01-01", "2025-12-01", 100)

	observations := []*domain.Observation{observation("2025-01-06", 105)}

	pairs, err := m.Match([]*domain.Forecast{shortTerm}, observations)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	pairs, err = m.Match([]*domain.Forecast{longTerm}, observations)
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}

func TestHorizonTolerance_ToleranceWindow(t *testing.T) {
	tests := []struct {
		name        string
		horizonDays int
		want        time.Duration
	}{
		{"two weeks", 14, 2 * day},
		{"exactly 30 days", 30, 2 * day},
		{"three months", 90, 7 * day},
		{"six months", 180, 14 * day},
		{"one year", 365, 21 * day},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issued := date("2025-01-01")
			f := &domain.Forecast{IssuedAt: issued, TargetAt: issued.AddDate(0, 0, tt.horizonDays)}
			assert.Equal(t, tt.want, HorizonTolerance{}.ToleranceWindow(f))
		})
	}
}

func TestPolicyByName(t *testing.T) {
	assert.IsType(t, HorizonTolerance{}, PolicyByName("horizon"))
	assert.Equal(t, FixedTolerance(DefaultTolerance), PolicyByName("fixed"))
	assert.Equal(t, FixedTolerance(DefaultTolerance), PolicyByName(""))
}
