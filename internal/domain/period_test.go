package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input string
		want  Period
		days  int
	}{
		{"7d", Period7Days, 7},
		{"30d", Period30Days, 30},
		{"90d", Period90Days, 90},
		{"all", PeriodAll, 0},
		{"365d", PeriodAll, 0}, // Unknown names fall back to all
		{"", PeriodAll, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParsePeriod(tt.input)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.days, p.Days())
		})
	}
}

func TestPeriod_Filter(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	exactlySevenDaysAgo := &Forecast{SubjectID: "c1", AgentID: "A", IssuedAt: now.AddDate(0, 0, -7)}
	sixDaysAgo := &Forecast{SubjectID: "c1", AgentID: "A", IssuedAt: now.AddDate(0, 0, -6)}
	atNow := &Forecast{SubjectID: "c1", AgentID: "A", IssuedAt: now}
	future := &Forecast{SubjectID: "c1", AgentID: "A", IssuedAt: now.Add(time.Hour)}
	old := &Forecast{SubjectID: "c1", AgentID: "A", IssuedAt: now.AddDate(0, -2, 0)}

	forecasts := []*Forecast{exactlySevenDaysAgo, sixDaysAgo, atNow, future, old}

	t.Run("7d keeps (cutoff, now]", func(t *testing.T) {
		filtered := Period7Days.Filter(forecasts, now)
		require.Len(t, filtered, 2)
		assert.Same(t, sixDaysAgo, filtered[0])
		assert.Same(t, atNow, filtered[1])
	})

	t.Run("90d includes older forecasts", func(t *testing.T) {
		filtered := Period90Days.Filter(forecasts, now)
		assert.Len(t, filtered, 4)
		assert.NotContains(t, filtered, future)
	})

	t.Run("all passes everything through", func(t *testing.T) {
		filtered := PeriodAll.Filter(forecasts, now)
		assert.Equal(t, forecasts, filtered)
	})

	t.Run("unknown period passes everything through", func(t *testing.T) {
		filtered := ParsePeriod("ytd").Filter(forecasts, now)
		assert.Equal(t, forecasts, filtered)
	})
}

func TestPeriod_Cutoff(t *testing.T) {
	now := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	cutoff, bounded := Period30Days.Cutoff(now)
	assert.True(t, bounded)
	assert.Equal(t, time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), cutoff)

	_, bounded = PeriodAll.Cutoff(now)
	assert.False(t, bounded)
}
