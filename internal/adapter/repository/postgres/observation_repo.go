package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// observationRepository implements domain.ObservationRepository
type observationRepository struct {
	db *DB
}

// NewObservationRepository creates a new observation repository
func NewObservationRepository(db *DB) domain.ObservationRepository {
	return &observationRepository{db: db}
}

// List retrieves the most recent observations of a subject, newest first
func (r *observationRepository) List(ctx context.Context, subjectID string, limit int) ([]*domain.Observation, error) {
	if limit <= 0 {
		limit = domain.DefaultObservationLimit
	}

	query := `
		SELECT subject_id, observed_at, value
		FROM observations
		WHERE subject_id = $1
		  AND value <> 'NaN'::numeric
		ORDER BY observed_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}
	defer rows.Close()

	observations := make([]*domain.Observation, 0)
	for rows.Next() {
		var observation domain.Observation
		var valueStr string

		if err := rows.Scan(&observation.SubjectID, &observation.ObservedAt, &valueStr); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}

		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse observation value: %w", err)
		}
		observation.Value = value

		observations = append(observations, &observation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating observations: %w", err)
	}

	return observations, nil
}
