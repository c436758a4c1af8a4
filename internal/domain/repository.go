package domain

import (
	"context"
)

// DefaultObservationLimit caps how many observations are fetched per subject
const DefaultObservationLimit = 1000

// AgentRepository defines the interface for forecasting agent registry operations
type AgentRepository interface {
	// List retrieves every registered agent
	List(ctx context.Context) ([]*Agent, error)

	// GetByID retrieves an agent by its ID
	// Returns an error wrapping ErrNotFound if the agent does not exist
	GetByID(ctx context.Context, id string) (*Agent, error)

	// Create registers a new agent
	Create(ctx context.Context, agent *Agent) error
}

// SubjectRepository defines the interface for subject registry operations
type SubjectRepository interface {
	// List retrieves every registered subject
	List(ctx context.Context) ([]*Subject, error)

	// GetByID retrieves a subject by its ID
	// Returns an error wrapping ErrNotFound if the subject does not exist
	GetByID(ctx context.Context, id string) (*Subject, error)

	// Create registers a new subject
	Create(ctx context.Context, subject *Subject) error
}

// ForecastRepository defines the interface for forecast retrieval
type ForecastRepository interface {
	// List retrieves the forecasts made for a subject
	// If agentID is empty, returns the forecasts of every agent
	List(ctx context.Context, subjectID, agentID string) ([]*Forecast, error)
}

// ObservationRepository defines the interface for realized value retrieval
type ObservationRepository interface {
	// List retrieves at most limit of the most recent observations of a subject
	List(ctx context.Context, subjectID string, limit int) ([]*Observation, error)
}

// AccuracyMetricRepository defines the interface for persisting per-period metrics
type AccuracyMetricRepository interface {
	// Upsert stores the snapshot, replacing any previous one for the same
	// agent, subject and period
	Upsert(ctx context.Context, snapshot *MetricSnapshot) error
}

// RankingSnapshotRepository stores the ranks of the last ranking run
// so the next run can compute trends
type RankingSnapshotRepository interface {
	// LoadPrevious retrieves the ranks stored by the last run
	// Returns an empty slice when no run has been stored yet
	LoadPrevious(ctx context.Context) ([]RankSnapshot, error)

	// Store replaces the stored ranks with the given rankings
	Store(ctx context.Context, rankings []Ranking) error
}
