package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// agentRepository implements domain.AgentRepository
type agentRepository struct {
	db *DB
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *DB) domain.AgentRepository {
	return &agentRepository{db: db}
}

// List retrieves every registered agent ordered by ID
func (r *agentRepository) List(ctx context.Context) ([]*domain.Agent, error) {
	query := `
		SELECT id, name, provider
		FROM agents
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	agents := make([]*domain.Agent, 0)
	for rows.Next() {
		var agent domain.Agent
		if err := rows.Scan(&agent.ID, &agent.Name, &agent.Provider); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, &agent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agents: %w", err)
	}

	return agents, nil
}

// GetByID retrieves an agent by its ID
func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	query := `
		SELECT id, name, provider
		FROM agents
		WHERE id = $1
	`

	var agent domain.Agent
	err := r.db.QueryRowContext(ctx, query, id).Scan(&agent.ID, &agent.Name, &agent.Provider)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agent %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get agent by ID: %w", err)
	}

	return &agent, nil
}

// Create registers a new agent
func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	query := `
		INSERT INTO agents (id, name, provider)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.ExecContext(ctx, query, agent.ID, agent.Name, agent.Provider); err != nil {
		return fmt.Errorf("failed to create agent: %w", err)
	}

	return nil
}
