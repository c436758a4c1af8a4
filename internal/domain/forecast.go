package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Forecast represents a predicted value issued by an agent for a subject
// Forecasts are created externally and never mutated by the accuracy engine
type Forecast struct {
	ID             uuid.UUID
	SubjectID      string
	AgentID        string
	IssuedAt       time.Time // When the forecast was made
	TargetAt       time.Time // The future point in time the forecast is about
	PredictedValue decimal.Decimal
}

// Validate ensures the forecast adheres to domain rules
func (f *Forecast) Validate() error {
	if f.SubjectID == "" {
		return errors.New("forecast subject ID cannot be empty")
	}
	if f.AgentID == "" {
		return errors.New("forecast agent ID cannot be empty")
	}
	if f.IssuedAt.IsZero() {
		return errors.New("forecast issuance timestamp is required")
	}
	if f.TargetAt.Before(f.IssuedAt) {
		return errors.New("forecast target timestamp must not precede its issuance")
	}
	return nil
}

// Horizon returns the distance between issuance and target
func (f *Forecast) Horizon() time.Duration {
	return f.TargetAt.Sub(f.IssuedAt)
}

// Observation represents a realized value for a subject at a point in time
type Observation struct {
	SubjectID  string
	ObservedAt time.Time
	Value      decimal.Decimal
}

// Validate ensures the observation adheres to domain rules
func (o *Observation) Validate() error {
	if o.SubjectID == "" {
		return errors.New("observation subject ID cannot be empty")
	}
	if o.ObservedAt.IsZero() {
		return errors.New("observation timestamp is required")
	}
	return nil
}

// MatchedPair is a forecast paired with the observation closest to its issuance.
// Pairs only live for the duration of one metrics computation.
type MatchedPair struct {
	Predicted  float64
	Actual     float64
	IssuedAt   time.Time // Match timestamp, used for chronological ordering
	ObservedAt time.Time
	Error      float64 // Actual - Predicted
}
