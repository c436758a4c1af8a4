package postgres

import (
	"context"
	"fmt"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// rankingSnapshotRepository implements domain.RankingSnapshotRepository
type rankingSnapshotRepository struct {
	db *DB
}

// NewRankingSnapshotRepository creates a new ranking snapshot repository
func NewRankingSnapshotRepository(db *DB) domain.RankingSnapshotRepository {
	return &rankingSnapshotRepository{db: db}
}

// LoadPrevious retrieves the ranks stored by the last run
func (r *rankingSnapshotRepository) LoadPrevious(ctx context.Context) ([]domain.RankSnapshot, error) {
	query := `
		SELECT agent_id, rank
		FROM ranking_snapshots
		ORDER BY rank
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranking snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]domain.RankSnapshot, 0)
	for rows.Next() {
		var snapshot domain.RankSnapshot
		if err := rows.Scan(&snapshot.AgentID, &snapshot.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan ranking snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking snapshots: %w", err)
	}

	return snapshots, nil
}

// Store replaces the stored ranks in a single transaction
func (r *rankingSnapshotRepository) Store(ctx context.Context, rankings []domain.Ranking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ranking_snapshots`); err != nil {
		return fmt.Errorf("failed to clear ranking snapshots: %w", err)
	}

	query := `
		INSERT INTO ranking_snapshots (agent_id, rank, recorded_at)
		VALUES ($1, $2, NOW())
	`
	for _, ranking := range rankings {
		if _, err := tx.ExecContext(ctx, query, ranking.Agent.ID, ranking.Rank); err != nil {
			return fmt.Errorf("failed to store ranking snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ranking snapshots: %w", err)
	}

	return nil
}
