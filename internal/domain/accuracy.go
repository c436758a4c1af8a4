package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccuracyResult holds the aggregate statistics over the matched pairs of one
// (subject, agent) combination.
// Percentage-like fields are in the 0-100 range. TotalPredictions always equals
// SampleSize, the number of matched pairs.
type AccuracyResult struct {
	AgentID            string
	SubjectID          string
	TotalPredictions   int
	CorrectPredictions int // Pairs within the threshold percentage error

	// Core error metrics
	AvgAbsoluteError   float64
	AvgPercentageError float64

	MAPE     float64
	RMSE     float64
	MAE      float64
	RSquared float64
	TheilsU  float64
	SMAPE    float64

	DirectionalAccuracy float64

	ConfidenceInterval95Lower float64
	ConfidenceInterval95Upper float64
	SampleSize                int

	MeanError    float64
	ErrorStdDev  float64
	MedianError  float64
	OutlierCount int

	DataQualityScore  float64
	ThresholdAccuracy float64

	// Accuracy is the weighted composite score used for ranking
	Accuracy    float64
	LastUpdated time.Time
}

// SubjectPerformance is one entry of an agent's per-subject breakdown
type SubjectPerformance struct {
	Subject     Subject
	Accuracy    float64
	Predictions int
}

// Trend values relative to the previous ranking snapshot
const (
	TrendUp   = 1
	TrendSame = 0
	TrendDown = -1
)

// Ranking is the cross-subject standing of a single agent
type Ranking struct {
	Agent              Agent
	OverallAccuracy    float64
	TotalPredictions   int
	AvgAbsoluteError   float64
	AvgPercentageError float64
	SubjectPerformance []SubjectPerformance // Sorted by accuracy, best first
	Rank               int                  // 1 = best
	Trend              int                  // TrendUp, TrendSame or TrendDown
}

// RankSnapshot records the rank an agent held in a previous ranking run
type RankSnapshot struct {
	AgentID string
	Rank    int
}

// MetricSnapshot is the persisted summary of an AccuracyResult for one period
type MetricSnapshot struct {
	ID                 uuid.UUID
	AgentID            string
	SubjectID          string
	Period             Period
	Accuracy           float64
	TotalPredictions   int
	CorrectPredictions int
	AvgError           float64
	UpdatedAt          time.Time
}

// NewMetricSnapshot builds the persisted summary of a result for the given period
func NewMetricSnapshot(result *AccuracyResult, period Period) *MetricSnapshot {
	return &MetricSnapshot{
		ID:                 uuid.New(),
		AgentID:            result.AgentID,
		SubjectID:          result.SubjectID,
		Period:             period,
		Accuracy:           result.Accuracy,
		TotalPredictions:   result.TotalPredictions,
		CorrectPredictions: result.CorrectPredictions,
		AvgError:           result.AvgAbsoluteError,
		UpdatedAt:          result.LastUpdated,
	}
}
