package ranking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/commodityai/accuracy-backend/internal/domain"
	"github.com/commodityai/accuracy-backend/internal/metrics"
)

// DefaultConcurrency bounds how many (agent, subject) cells are evaluated at once
const DefaultConcurrency = 4

// Evaluator computes the accuracy of one agent's forecasts for one subject
type Evaluator interface {
	Evaluate(forecasts []*domain.Forecast, observations []*domain.Observation, totalForecastCount int) (*domain.AccuracyResult, error)
}

// Aggregator ranks agents by their accuracy across all subjects
type Aggregator struct {
	AgentRepo       domain.AgentRepository
	SubjectRepo     domain.SubjectRepository
	ForecastRepo    domain.ForecastRepository
	ObservationRepo domain.ObservationRepository
	SnapshotRepo    domain.RankingSnapshotRepository
	Evaluator       Evaluator
	Metrics         *metrics.Collector

	ObservationLimit int
	Concurrency      int

	logger zerolog.Logger
	now    func() time.Time
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(
	agentRepo domain.AgentRepository,
	subjectRepo domain.SubjectRepository,
	forecastRepo domain.ForecastRepository,
	observationRepo domain.ObservationRepository,
	snapshotRepo domain.RankingSnapshotRepository,
	evaluator Evaluator,
	logger zerolog.Logger,
) *Aggregator {
	return &Aggregator{
		AgentRepo:        agentRepo,
		SubjectRepo:      subjectRepo,
		ForecastRepo:     forecastRepo,
		ObservationRepo:  observationRepo,
		SnapshotRepo:     snapshotRepo,
		Evaluator:        evaluator,
		ObservationLimit: domain.DefaultObservationLimit,
		Concurrency:      DefaultConcurrency,
		logger:           logger.With().Str("component", "ranking_aggregator").Logger(),
		now:              time.Now,
	}
}

// Rank evaluates every (agent, subject) combination over the given period and
// returns the agents sorted by overall accuracy, best first.
//
// Logic:
//  1. Each cell filters the agent's forecasts by period, then matches and scores them
//  2. Overall accuracy, MAE and MAPE are averages weighted by matched pair count
//  3. Rank is the 1-based position; trend compares it with the stored snapshot
//  4. The new ranks are stored for the next run; a failed store is only logged
//
// Repository failures abort the run and are returned.
func (a *Aggregator) Rank(ctx context.Context, period domain.Period) (rankings []domain.Ranking, err error) {
	started := time.Now()
	defer func() {
		a.Metrics.ObserveRanking(string(period), time.Since(started), err)
	}()

	agents, err := a.AgentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	subjects, err := a.SubjectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	cells, err := a.evaluateCells(ctx, agents, subjects, period)
	if err != nil {
		return nil, err
	}

	rankings = make([]domain.Ranking, 0, len(agents))
	for i, agent := range agents {
		rankings = append(rankings, fold(*agent, subjects, cells[i]))
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].OverallAccuracy > rankings[j].OverallAccuracy
	})

	previous, err := a.SnapshotRepo.LoadPrevious(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous rankings: %w", err)
	}
	previousRanks := make(map[string]int, len(previous))
	for _, p := range previous {
		previousRanks[p.AgentID] = p.Rank
	}

	for i := range rankings {
		rankings[i].Rank = i + 1
		rankings[i].Trend = trend(rankings[i].Rank, previousRanks[rankings[i].Agent.ID])
		a.Metrics.SetOverallAccuracy(string(period), rankings[i].Agent.ID, rankings[i].OverallAccuracy)
	}

	if err := a.SnapshotRepo.Store(ctx, rankings); err != nil {
		a.logger.Warn().Err(err).Str("period", string(period)).Msg("failed to store ranking snapshot")
		a.Metrics.IncSnapshotFailure()
	}

	a.logger.Info().
		Str("period", string(period)).
		Int("agents", len(agents)).
		Int("subjects", len(subjects)).
		Dur("elapsed", time.Since(started)).
		Msg("rankings computed")

	return rankings, nil
}

// evaluateCells scores every (agent, subject) cell concurrently.
// cells[i][j] is nil when agent i has nothing reportable for subject j.
func (a *Aggregator) evaluateCells(ctx context.Context, agents []*domain.Agent, subjects []*domain.Subject, period domain.Period) ([][]*domain.AccuracyResult, error) {
	now := a.now()
	cells := make([][]*domain.AccuracyResult, len(agents))
	for i := range cells {
		cells[i] = make([]*domain.AccuracyResult, len(subjects))
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.Concurrency > 0 {
		g.SetLimit(a.Concurrency)
	}

	for i, agent := range agents {
		for j, subject := range subjects {
			g.Go(func() error {
				result, err := a.evaluateCell(gctx, agent, subject, period, now)
				if err != nil {
					return err
				}
				cells[i][j] = result
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cells, nil
}

func (a *Aggregator) evaluateCell(ctx context.Context, agent *domain.Agent, subject *domain.Subject, period domain.Period, now time.Time) (*domain.AccuracyResult, error) {
	forecasts, err := a.ForecastRepo.List(ctx, subject.ID, agent.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forecasts for %s/%s: %w", agent.ID, subject.ID, err)
	}

	filtered := period.Filter(forecasts, now)
	if len(filtered) == 0 {
		return nil, nil
	}

	observations, err := a.ObservationRepo.List(ctx, subject.ID, a.ObservationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list observations for %s: %w", subject.ID, err)
	}

	result, err := a.Evaluator.Evaluate(filtered, observations, len(filtered))
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, domain.ErrInsufficientData):
		return nil, nil
	case errors.Is(err, domain.ErrDegenerateInput):
		a.logger.Warn().Err(err).Str("agent_id", agent.ID).Str("subject_id", subject.ID).Msg("skipping degenerate input")
		return nil, nil
	default:
		return nil, err
	}
}

// fold aggregates one agent's cell results into its ranking entry
func fold(agent domain.Agent, subjects []*domain.Subject, results []*domain.AccuracyResult) domain.Ranking {
	var weightedAccuracy, weightedAbsError, weightedPctError float64
	total := 0
	performance := make([]domain.SubjectPerformance, 0, len(subjects))

	for j, result := range results {
		if result == nil || result.TotalPredictions == 0 {
			continue
		}
		n := float64(result.TotalPredictions)
		weightedAccuracy += result.Accuracy * n
		weightedAbsError += result.AvgAbsoluteError * n
		weightedPctError += result.AvgPercentageError * n
		total += result.TotalPredictions

		performance = append(performance, domain.SubjectPerformance{
			Subject:     *subjects[j],
			Accuracy:    result.Accuracy,
			Predictions: result.TotalPredictions,
		})
	}

	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].Accuracy > performance[j].Accuracy
	})

	r := domain.Ranking{
		Agent:              agent,
		TotalPredictions:   total,
		SubjectPerformance: performance,
	}
	if total > 0 {
		r.OverallAccuracy = weightedAccuracy / float64(total)
		r.AvgAbsoluteError = weightedAbsError / float64(total)
		r.AvgPercentageError = weightedPctError / float64(total)
	}
	return r
}

// trend compares a rank with the previous one; 0 means no previous rank
func trend(rank, previous int) int {
	switch {
	case previous == 0 || rank == previous:
		return domain.TrendSame
	case rank < previous:
		return domain.TrendUp
	default:
		return domain.TrendDown
	}
}
