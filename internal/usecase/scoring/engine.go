package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// Engine reduces matched pairs to accuracy metrics
type Engine struct {
	Weights        Weights
	QualityWeights QualityWeights

	logger zerolog.Logger
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithWeights overrides the composite weights
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.Weights = w }
}

// WithQualityWeights overrides the data quality weights
func WithQualityWeights(w QualityWeights) Option {
	return func(e *Engine) { e.QualityWeights = w }
}

// WithClock overrides the clock used to stamp results
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an Engine with the default weights
func NewEngine(logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		Weights:        DefaultWeights,
		QualityWeights: DefaultQualityWeights,
		logger:         logger.With().Str("component", "metrics_engine").Logger(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute calculates the accuracy metrics of a set of matched pairs.
// totalForecastCount is the number of forecasts the pairs were matched from and
// drives the coverage part of the data quality score.
//
// Returns domain.ErrInsufficientData for fewer than MinSampleSize pairs and
// domain.ErrDegenerateInput when an actual value is zero or a value is not finite.
// The result is unattributed: AgentID and SubjectID are left for the caller.
func (e *Engine) Compute(pairs []domain.MatchedPair, totalForecastCount int) (*domain.AccuracyResult, error) {
	n := len(pairs)
	if n < MinSampleSize {
		e.logger.Debug().Int("matches", n).Int("required", MinSampleSize).Msg("insufficient matches")
		return nil, domain.ErrInsufficientData
	}

	for i, p := range pairs {
		if !isFinite(p.Predicted) || !isFinite(p.Actual) {
			return nil, fmt.Errorf("pair %d has a non-finite value: %w", i, domain.ErrDegenerateInput)
		}
		if p.Actual == 0 {
			return nil, fmt.Errorf("pair %d has a zero actual value: %w", i, domain.ErrDegenerateInput)
		}
	}

	if totalForecastCount < n {
		totalForecastCount = n
	}

	// Chronological order, stable so equal timestamps keep input order
	sorted := make([]domain.MatchedPair, n)
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IssuedAt.Before(sorted[j].IssuedAt)
	})

	fn := float64(n)
	errs := make([]float64, n)
	absErrors := make([]float64, n)
	pctErrors := make([]float64, n)
	actuals := make([]float64, n)
	for i, p := range sorted {
		errs[i] = p.Error
		absErrors[i] = math.Abs(p.Error)
		pctErrors[i] = math.Abs(p.Error/p.Actual) * 100
		actuals[i] = p.Actual
	}

	// 1. Core errors
	mae := mean(absErrors)
	mape := mean(pctErrors)

	// 2. RMSE
	sse := 0.0
	for _, err := range errs {
		sse += err * err
	}
	mse := sse / fn
	rmse := math.Sqrt(mse)

	// 3. R² against the mean actual value
	meanActual := mean(actuals)
	ssTotal := 0.0
	for _, a := range actuals {
		ssTotal += (a - meanActual) * (a - meanActual)
	}
	rSquared := 0.0
	if ssTotal > 0 {
		rSquared = math.Max(0, 1-sse/ssTotal)
	}

	// 4. Theil's U against a naive "previous actual" forecast
	naiveSSE := 0.0
	for i := 1; i < n; i++ {
		d := sorted[i].Actual - sorted[i-1].Actual
		naiveSSE += d * d
	}
	naiveMSE := naiveSSE / float64(n-1)
	theilsU := 1.0
	if naiveMSE > 0 {
		theilsU = math.Sqrt(mse / naiveMSE)
	}

	// 5. sMAPE, skipping zero denominators
	smapeSum := 0.0
	for _, p := range sorted {
		denominator := (math.Abs(p.Actual) + math.Abs(p.Predicted)) / 2
		if denominator > 0 {
			smapeSum += math.Abs(p.Error) / denominator * 100
		}
	}
	smape := smapeSum / fn

	// 6. Directional accuracy
	directionalAccuracy := directional(sorted)

	// 7. Dispersion
	meanError := mean(errs)
	errorStdDev := stdDev(errs, meanError)
	medianError := median(sortedCopy(absErrors))

	// 8. 95% confidence interval for MAPE
	ciLower, ciUpper := clamp(mape, 0, 100), clamp(mape, 0, 100)
	if meanActual > 0 {
		standardError := errorStdDev / math.Sqrt(fn)
		margin := ZScore95 * standardError / meanActual * 100
		ciLower = clamp(mape-margin, 0, 100)
		ciUpper = clamp(mape+margin, 0, 100)
	}

	// 9. Outliers
	outlierCount := countOutliers(absErrors, OutlierIQRFactor)

	// 10. Data quality
	sampleSizeScore := math.Min(100, fn/FullSampleSize*100)
	coverageScore := fn / float64(totalForecastCount) * 100
	outlierPenalty := float64(outlierCount) / fn * 100
	dataQualityScore := math.Max(0,
		sampleSizeScore*e.QualityWeights.SampleSize+
			coverageScore*e.QualityWeights.Coverage+
			(100-outlierPenalty)*e.QualityWeights.Outliers)

	// 11. Threshold accuracy
	correct := 0
	for _, pe := range pctErrors {
		if pe <= ThresholdPercent {
			correct++
		}
	}
	thresholdAccuracy := float64(correct) / fn * 100

	// 12. Composite
	mapeComponent := math.Max(0, 100-mape)
	rmseComponent := 0.0
	if meanActual > 0 {
		rmseComponent = math.Max(0, 100-rmse/meanActual*100)
	}
	accuracy := mapeComponent*e.Weights.MAPE +
		directionalAccuracy*e.Weights.Directional +
		rSquared*100*e.Weights.RSquared +
		rmseComponent*e.Weights.RMSE +
		thresholdAccuracy*e.Weights.Threshold

	e.logger.Debug().
		Int("matches", n).
		Float64("mape", mape).
		Float64("rmse", rmse).
		Float64("directional", directionalAccuracy).
		Float64("accuracy", accuracy).
		Msg("computed accuracy metrics")

	return &domain.AccuracyResult{
		TotalPredictions:          n,
		CorrectPredictions:        correct,
		AvgAbsoluteError:          round4(mae),
		AvgPercentageError:        round2(mape),
		MAPE:                      round2(mape),
		RMSE:                      round4(rmse),
		MAE:                       round4(mae),
		RSquared:                  round4(rSquared),
		TheilsU:                   round4(theilsU),
		SMAPE:                     round2(smape),
		DirectionalAccuracy:       round2(directionalAccuracy),
		ConfidenceInterval95Lower: round2(ciLower),
		ConfidenceInterval95Upper: round2(ciUpper),
		SampleSize:                n,
		MeanError:                 round4(meanError),
		ErrorStdDev:               round4(errorStdDev),
		MedianError:               round4(medianError),
		OutlierCount:              outlierCount,
		DataQualityScore:          round2(dataQualityScore),
		ThresholdAccuracy:         round2(thresholdAccuracy),
		Accuracy:                  round2(accuracy),
		LastUpdated:               e.now(),
	}, nil
}

// directional compares the sign of consecutive actual and predicted moves.
// Both moves inside FlatBand count as agreement.
func directional(sorted []domain.MatchedPair) float64 {
	if len(sorted) <= 1 {
		return 0
	}

	correct := 0
	for i := 1; i < len(sorted); i++ {
		actualMove := sorted[i].Actual - sorted[i-1].Actual
		predictedMove := sorted[i].Predicted - sorted[i-1].Predicted

		switch {
		case actualMove > 0 && predictedMove > 0,
			actualMove < 0 && predictedMove < 0,
			math.Abs(actualMove) < FlatBand && math.Abs(predictedMove) < FlatBand:
			correct++
		}
	}
	return float64(correct) / float64(len(sorted)-1) * 100
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
