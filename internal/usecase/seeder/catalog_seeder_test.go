package seeder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/commodityai/accuracy-backend/internal/domain"
	"github.com/commodityai/accuracy-backend/internal/domain/mocks"
)

func notFound(id string) error {
	return fmt.Errorf("%s: %w", id, domain.ErrNotFound)
}

func TestCatalogSeeder_Seed_AllMissing(t *testing.T) {
	ctx := context.Background()
	agentRepo := new(mocks.AgentRepository)
	subjectRepo := new(mocks.SubjectRepository)
	seeder := NewCatalogSeeder(agentRepo, subjectRepo, zerolog.Nop())

	for _, a := range DefaultAgents {
		agentRepo.On("GetByID", ctx, a.ID).Return(nil, notFound(a.ID))
	}
	for _, s := range DefaultSubjects {
		subjectRepo.On("GetByID", ctx, s.ID).Return(nil, notFound(s.ID))
	}

	agentRepo.On("Create", ctx, mock.MatchedBy(func(a *domain.Agent) bool {
		return a.ID == "claude" && a.Name == "Claude" && a.Provider == "Anthropic"
	})).Return(nil).Once()
	agentRepo.On("Create", ctx, mock.AnythingOfType("*domain.Agent")).Return(nil)
	subjectRepo.On("Create", ctx, mock.AnythingOfType("*domain.Subject")).Return(nil)

	err := seeder.Seed(ctx)

	assert.NoError(t, err)
	agentRepo.AssertNumberOfCalls(t, "Create", 3)
	subjectRepo.AssertNumberOfCalls(t, "Create", 10)
	agentRepo.AssertExpectations(t)
}

func TestCatalogSeeder_Seed_AlreadyPresent(t *testing.T) {
	ctx := context.Background()
	agentRepo := new(mocks.AgentRepository)
	subjectRepo := new(mocks.SubjectRepository)
	seeder := NewCatalogSeeder(agentRepo, subjectRepo, zerolog.Nop())

	for i := range DefaultAgents {
		agentRepo.On("GetByID", ctx, DefaultAgents[i].ID).Return(&DefaultAgents[i], nil)
	}
	for i := range DefaultSubjects {
		subjectRepo.On("GetByID", ctx, DefaultSubjects[i].ID).Return(&DefaultSubjects[i], nil)
	}

	err := seeder.Seed(ctx)

	assert.NoError(t, err)
	agentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	subjectRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogSeeder_Seed_LookupFailure(t *testing.T) {
	ctx := context.Background()
	agentRepo := new(mocks.AgentRepository)
	subjectRepo := new(mocks.SubjectRepository)
	seeder := NewCatalogSeeder(agentRepo, subjectRepo, zerolog.Nop())
	seeder.Agents = DefaultAgents[:1]

	agentRepo.On("GetByID", ctx, "claude").Return(nil, errors.New("connection refused"))

	err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	agentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	subjectRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCatalogSeeder_Seed_CreateFailure(t *testing.T) {
	ctx := context.Background()
	agentRepo := new(mocks.AgentRepository)
	subjectRepo := new(mocks.SubjectRepository)
	seeder := NewCatalogSeeder(agentRepo, subjectRepo, zerolog.Nop())
	seeder.Agents = nil
	seeder.Subjects = DefaultSubjects[:2]

	subjectRepo.On("GetByID", ctx, "c1").Return(nil, notFound("c1"))
	subjectRepo.On("Create", ctx, mock.AnythingOfType("*domain.Subject")).Return(errors.New("duplicate key"))

	err := seeder.Seed(ctx)

	assert.EqualError(t, err, "duplicate key")
	subjectRepo.AssertNotCalled(t, "GetByID", ctx, "c2")
}

func TestCatalogSeeder_Seed_InvalidEntry(t *testing.T) {
	ctx := context.Background()
	agentRepo := new(mocks.AgentRepository)
	subjectRepo := new(mocks.SubjectRepository)
	seeder := NewCatalogSeeder(agentRepo, subjectRepo, zerolog.Nop())
	seeder.Agents = []domain.Agent{{ID: "nameless"}}
	seeder.Subjects = nil

	agentRepo.On("GetByID", ctx, "nameless").Return(nil, notFound("nameless"))

	err := seeder.Seed(ctx)

	assert.Error(t, err)
	agentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
