package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/commodityai/accuracy-backend/internal/domain"
	"github.com/commodityai/accuracy-backend/internal/metrics"
	"github.com/commodityai/accuracy-backend/internal/usecase/matcher"
	"github.com/commodityai/accuracy-backend/internal/usecase/scoring"
)

// AccuracyService evaluates forecasts against observations and keeps the
// per-period accuracy metrics up to date
type AccuracyService struct {
	AgentRepo       domain.AgentRepository
	SubjectRepo     domain.SubjectRepository
	ForecastRepo    domain.ForecastRepository
	ObservationRepo domain.ObservationRepository
	MetricRepo      domain.AccuracyMetricRepository

	Matcher          *matcher.Matcher
	Engine           *scoring.Engine
	Metrics          *metrics.Collector
	ObservationLimit int

	logger zerolog.Logger
	now    func() time.Time
}

// NewAccuracyService creates a new AccuracyService instance
func NewAccuracyService(
	agentRepo domain.AgentRepository,
	subjectRepo domain.SubjectRepository,
	forecastRepo domain.ForecastRepository,
	observationRepo domain.ObservationRepository,
	metricRepo domain.AccuracyMetricRepository,
	m *matcher.Matcher,
	engine *scoring.Engine,
	logger zerolog.Logger,
) *AccuracyService {
	return &AccuracyService{
		AgentRepo:        agentRepo,
		SubjectRepo:      subjectRepo,
		ForecastRepo:     forecastRepo,
		ObservationRepo:  observationRepo,
		MetricRepo:       metricRepo,
		Matcher:          m,
		Engine:           engine,
		ObservationLimit: domain.DefaultObservationLimit,
		logger:           logger.With().Str("component", "accuracy_service").Logger(),
		now:              time.Now,
	}
}

// Evaluate matches forecasts with observations and computes their accuracy.
// totalForecastCount drives the coverage score; values below 1 default to
// len(forecasts). The result is attributed to the agent and subject of the
// first forecast.
//
// Returns domain.ErrInsufficientData when nothing (or too little) matches.
func (s *AccuracyService) Evaluate(forecasts []*domain.Forecast, observations []*domain.Observation, totalForecastCount int) (*domain.AccuracyResult, error) {
	if len(forecasts) == 0 || len(observations) == 0 {
		s.logger.Debug().
			Int("forecasts", len(forecasts)).
			Int("observations", len(observations)).
			Msg("nothing to compare")
		s.Metrics.ObserveEvaluation(metrics.OutcomeInsufficient)
		return nil, domain.ErrInsufficientData
	}

	if totalForecastCount < 1 {
		totalForecastCount = len(forecasts)
	}

	pairs, err := s.Matcher.Match(forecasts, observations)
	if err != nil {
		s.Metrics.ObserveEvaluation(metrics.OutcomeDegenerate)
		return nil, err
	}

	s.logger.Debug().
		Str("agent_id", forecasts[0].AgentID).
		Str("subject_id", forecasts[0].SubjectID).
		Int("forecasts", len(forecasts)).
		Int("observations", len(observations)).
		Int("matches", len(pairs)).
		Msg("matched forecasts with observations")

	result, err := s.Engine.Compute(pairs, totalForecastCount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientData):
			s.Metrics.ObserveEvaluation(metrics.OutcomeInsufficient)
		case errors.Is(err, domain.ErrDegenerateInput):
			s.Metrics.ObserveEvaluation(metrics.OutcomeDegenerate)
		}
		return nil, err
	}

	result.AgentID = forecasts[0].AgentID
	result.SubjectID = forecasts[0].SubjectID
	s.Metrics.ObserveEvaluation(metrics.OutcomeComputed)

	return result, nil
}

// RefreshMetrics recomputes and persists the accuracy metrics of every
// (agent, subject) combination for each period in domain.Periods.
// Combinations whose full history cannot be evaluated are skipped.
// Returns the number of snapshots written.
func (s *AccuracyService) RefreshMetrics(ctx context.Context) (int, error) {
	agents, err := s.AgentRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list agents: %w", err)
	}

	subjects, err := s.SubjectRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list subjects: %w", err)
	}

	written := 0
	now := s.now()
	for _, agent := range agents {
		for _, subject := range subjects {
			forecasts, err := s.ForecastRepo.List(ctx, subject.ID, agent.ID)
			if err != nil {
				return written, fmt.Errorf("failed to list forecasts for %s/%s: %w", agent.ID, subject.ID, err)
			}

			observations, err := s.ObservationRepo.List(ctx, subject.ID, s.ObservationLimit)
			if err != nil {
				return written, fmt.Errorf("failed to list observations for %s: %w", subject.ID, err)
			}

			if _, err := s.Evaluate(forecasts, observations, len(forecasts)); err != nil {
				if isSkippable(err) {
					continue
				}
				return written, err
			}

			for _, period := range domain.Periods {
				filtered := period.Filter(forecasts, now)
				result, err := s.Evaluate(filtered, observations, len(filtered))
				if err != nil {
					if isSkippable(err) {
						continue
					}
					return written, err
				}

				if err := s.MetricRepo.Upsert(ctx, domain.NewMetricSnapshot(result, period)); err != nil {
					return written, fmt.Errorf("failed to store %s metrics for %s/%s: %w", period, agent.ID, subject.ID, err)
				}
				written++
			}
		}
	}

	s.logger.Info().Int("snapshots", written).Msg("accuracy metrics refreshed")
	return written, nil
}

// isSkippable reports whether an evaluation error only means this
// combination has nothing reportable yet
func isSkippable(err error) bool {
	return errors.Is(err, domain.ErrInsufficientData) || errors.Is(err, domain.ErrDegenerateInput)
}
