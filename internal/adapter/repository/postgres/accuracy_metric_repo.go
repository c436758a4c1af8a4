package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// accuracyMetricRepository implements domain.AccuracyMetricRepository
type accuracyMetricRepository struct {
	db *DB
}

// NewAccuracyMetricRepository creates a new accuracy metric repository
func NewAccuracyMetricRepository(db *DB) domain.AccuracyMetricRepository {
	return &accuracyMetricRepository{db: db}
}

// Upsert stores the snapshot, replacing the row for the same agent, subject and period
func (r *accuracyMetricRepository) Upsert(ctx context.Context, snapshot *domain.MetricSnapshot) error {
	query := `
		INSERT INTO accuracy_metrics (
			id, agent_id, subject_id, period, accuracy,
			total_predictions, correct_predictions, avg_error, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (agent_id, subject_id, period) DO UPDATE SET
			accuracy            = EXCLUDED.accuracy,
			total_predictions   = EXCLUDED.total_predictions,
			correct_predictions = EXCLUDED.correct_predictions,
			avg_error           = EXCLUDED.avg_error,
			updated_at          = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.AgentID,
		snapshot.SubjectID,
		string(snapshot.Period),
		decimal.NewFromFloat(snapshot.Accuracy).String(),
		snapshot.TotalPredictions,
		snapshot.CorrectPredictions,
		decimal.NewFromFloat(snapshot.AvgError).String(),
		snapshot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert accuracy metric: %w", err)
	}

	return nil
}
