package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// forecastRepository implements domain.ForecastRepository
type forecastRepository struct {
	db *DB
}

// NewForecastRepository creates a new forecast repository
func NewForecastRepository(db *DB) domain.ForecastRepository {
	return &forecastRepository{db: db}
}

// List retrieves the forecasts made for a subject, oldest first.
// An empty agentID selects every agent.
func (r *forecastRepository) List(ctx context.Context, subjectID, agentID string) ([]*domain.Forecast, error) {
	query := `
		SELECT id, subject_id, agent_id, issued_at, target_at, predicted_value
		FROM forecasts
		WHERE subject_id = $1
		  AND ($2 = '' OR agent_id = $2)
		  AND predicted_value <> 'NaN'::numeric
		ORDER BY issued_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, subjectID, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}
	defer rows.Close()

	forecasts := make([]*domain.Forecast, 0)
	for rows.Next() {
		var forecast domain.Forecast
		var predictedStr string

		if err := rows.Scan(
			&forecast.ID,
			&forecast.SubjectID,
			&forecast.AgentID,
			&forecast.IssuedAt,
			&forecast.TargetAt,
			&predictedStr,
		); err != nil {
			return nil, fmt.Errorf("failed to scan forecast: %w", err)
		}

		predicted, err := decimal.NewFromString(predictedStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse predicted value: %w", err)
		}
		forecast.PredictedValue = predicted

		forecasts = append(forecasts, &forecast)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecasts: %w", err)
	}

	return forecasts, nil
}
