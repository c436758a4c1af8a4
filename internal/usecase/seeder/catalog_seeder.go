package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// DefaultAgents is the agent catalog every deployment starts with
var DefaultAgents = []domain.Agent{
	{ID: "claude", Name: "Claude", Provider: "Anthropic"},
	{ID: "chatgpt", Name: "ChatGPT", Provider: "OpenAI"},
	{ID: "deepseek", Name: "Deepseek", Provider: "DeepSeek"},
}

// DefaultSubjects is the commodity catalog every deployment starts with
var DefaultSubjects = []domain.Subject{
	{ID: "c1", Name: "Crude Oil", Category: "energy", Unit: "USD/bbl"},
	{ID: "c2", Name: "Gold", Category: "metals", Unit: "USD/oz"},
	{ID: "c3", Name: "Natural Gas", Category: "energy", Unit: "USD/MMBtu"},
	{ID: "c4", Name: "Copper", Category: "metals", Unit: "USD/lb"},
	{ID: "c5", Name: "Silver", Category: "metals", Unit: "USD/oz"},
	{ID: "c6", Name: "Coffee", Category: "agricultural", Unit: "USD/lb"},
	{ID: "c7", Name: "Sugar", Category: "agricultural", Unit: "USD/lb"},
	{ID: "c8", Name: "Corn", Category: "agricultural", Unit: "USD/bu"},
	{ID: "c9", Name: "Soybeans", Category: "agricultural", Unit: "USD/bu"},
	{ID: "c10", Name: "Cotton", Category: "agricultural", Unit: "USD/lb"},
}

// CatalogSeeder ensures the default agents and subjects are registered
type CatalogSeeder struct {
	agentRepo   domain.AgentRepository
	subjectRepo domain.SubjectRepository
	logger      zerolog.Logger

	Agents   []domain.Agent
	Subjects []domain.Subject
}

// NewCatalogSeeder creates a new CatalogSeeder seeding the default catalogs
func NewCatalogSeeder(agentRepo domain.AgentRepository, subjectRepo domain.SubjectRepository, logger zerolog.Logger) *CatalogSeeder {
	return &CatalogSeeder{
		agentRepo:   agentRepo,
		subjectRepo: subjectRepo,
		logger:      logger,
		Agents:      DefaultAgents,
		Subjects:    DefaultSubjects,
	}
}

// Seed creates every catalog entry that does not exist yet.
// Existing entries are left untouched, so Seed is safe to run on every start.
func (s *CatalogSeeder) Seed(ctx context.Context) error {
	for i := range s.Agents {
		agent := s.Agents[i]

		_, err := s.agentRepo.GetByID(ctx, agent.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to look up agent %s: %w", agent.ID, err)
		}

		if err := agent.Validate(); err != nil {
			return err
		}
		if err := s.agentRepo.Create(ctx, &agent); err != nil {
			return err
		}
		s.logger.Info().Str("agent_id", agent.ID).Msg("seeded agent")
	}

	for i := range s.Subjects {
		subject := s.Subjects[i]

		_, err := s.subjectRepo.GetByID(ctx, subject.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to look up subject %s: %w", subject.ID, err)
		}

		if err := subject.Validate(); err != nil {
			return err
		}
		if err := s.subjectRepo.Create(ctx, &subject); err != nil {
			return err
		}
		s.logger.Info().Str("subject_id", subject.ID).Msg("seeded subject")
	}

	return nil
}
