package app

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/commodityai/accuracy-backend/internal/adapter/repository/postgres"
	redisstore "github.com/commodityai/accuracy-backend/internal/adapter/repository/redis"
	"github.com/commodityai/accuracy-backend/internal/config"
	"github.com/commodityai/accuracy-backend/internal/domain"
	"github.com/commodityai/accuracy-backend/internal/metrics"
	"github.com/commodityai/accuracy-backend/internal/usecase/evaluation"
	"github.com/commodityai/accuracy-backend/internal/usecase/matcher"
	"github.com/commodityai/accuracy-backend/internal/usecase/ranking"
	"github.com/commodityai/accuracy-backend/internal/usecase/scoring"
	"github.com/commodityai/accuracy-backend/internal/usecase/seeder"
)

// App holds the wired services shared by the server and the CLI
type App struct {
	DB         *postgres.DB
	Metrics    *metrics.Collector
	Accuracy   *evaluation.AccuracyService
	Aggregator *ranking.Aggregator

	closers []func() error
}

// New connects to the backing stores, applies the schema, seeds the default
// catalogs and wires the services
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	// 1. Setup Database
	db, err := postgres.NewDB(ctx, cfg.DBConnStr, cfg.DBMaxWait)
	if err != nil {
		return nil, err
	}
	a := &App{DB: db, closers: []func() error{db.Close}}

	if err := db.Migrate(ctx); err != nil {
		a.Close()
		return nil, err
	}

	// 2. Initialize Repositories
	agentRepo := postgres.NewAgentRepository(db)
	subjectRepo := postgres.NewSubjectRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	observationRepo := postgres.NewObservationRepository(db)
	metricRepo := postgres.NewAccuracyMetricRepository(db)

	snapshotRepo, err := a.snapshotRepository(ctx, cfg, db, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := seeder.NewCatalogSeeder(agentRepo, subjectRepo, logger).Seed(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to seed catalogs: %w", err)
	}

	// 3. Initialize Services
	a.Metrics, err = metrics.NewCollector()
	if err != nil {
		a.Close()
		return nil, err
	}

	engine := scoring.NewEngine(logger,
		scoring.WithWeights(cfg.Weights),
		scoring.WithQualityWeights(cfg.QualityWeights),
	)
	m := matcher.NewMatcher(matcher.PolicyByName(cfg.MatchTolerance))

	a.Accuracy = evaluation.NewAccuracyService(agentRepo, subjectRepo, forecastRepo, observationRepo, metricRepo, m, engine, logger)
	a.Accuracy.Metrics = a.Metrics
	a.Accuracy.ObservationLimit = cfg.ObservationLimit

	a.Aggregator = ranking.NewAggregator(agentRepo, subjectRepo, forecastRepo, observationRepo, snapshotRepo, a.Accuracy, logger)
	a.Aggregator.Metrics = a.Metrics
	a.Aggregator.ObservationLimit = cfg.ObservationLimit
	a.Aggregator.Concurrency = cfg.RankingConcurrency

	return a, nil
}

// snapshotRepository keeps ranking snapshots in Redis when configured,
// otherwise in PostgreSQL
func (a *App) snapshotRepository(ctx context.Context, cfg *config.Config, db *postgres.DB, logger zerolog.Logger) (domain.RankingSnapshotRepository, error) {
	if cfg.RedisAddr == "" {
		return postgres.NewRankingSnapshotRepository(db), nil
	}

	var store *redisstore.RankingSnapshotStore
	connect := func() error {
		var err error
		store, err = redisstore.NewRankingSnapshotStore(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPassword)
		return err
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = cfg.DBMaxWait
	if err := backoff.Retry(connect, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return nil, err
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("ranking snapshots stored in redis")
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// Close releases every connection in reverse order of opening
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
