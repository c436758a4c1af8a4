// Package mocks provides testify mocks of the domain repositories
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// AgentRepository is a mock implementation of domain.AgentRepository
type AgentRepository struct {
	mock.Mock
}

func (m *AgentRepository) List(ctx context.Context) ([]*domain.Agent, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Agent), args.Error(1)
}

func (m *AgentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *AgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

// SubjectRepository is a mock implementation of domain.SubjectRepository
type SubjectRepository struct {
	mock.Mock
}

func (m *SubjectRepository) List(ctx context.Context) ([]*domain.Subject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Subject), args.Error(1)
}

func (m *SubjectRepository) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subject), args.Error(1)
}

func (m *SubjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

// ForecastRepository is a mock implementation of domain.ForecastRepository
type ForecastRepository struct {
	mock.Mock
}

func (m *ForecastRepository) List(ctx context.Context, subjectID, agentID string) ([]*domain.Forecast, error) {
	args := m.Called(ctx, subjectID, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Forecast), args.Error(1)
}

// ObservationRepository is a mock implementation of domain.ObservationRepository
type ObservationRepository struct {
	mock.Mock
}

func (m *ObservationRepository) List(ctx context.Context, subjectID string, limit int) ([]*domain.Observation, error) {
	args := m.Called(ctx, subjectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Observation), args.Error(1)
}

// AccuracyMetricRepository is a mock implementation of domain.AccuracyMetricRepository
type AccuracyMetricRepository struct {
	mock.Mock
}

func (m *AccuracyMetricRepository) Upsert(ctx context.Context, snapshot *domain.MetricSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// RankingSnapshotRepository is a mock implementation of domain.RankingSnapshotRepository
type RankingSnapshotRepository struct {
	mock.Mock
}

func (m *RankingSnapshotRepository) LoadPrevious(ctx context.Context) ([]domain.RankSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RankSnapshot), args.Error(1)
}

func (m *RankingSnapshotRepository) Store(ctx context.Context, rankings []domain.Ranking) error {
	args := m.Called(ctx, rankings)
	return args.Error(0)
}
