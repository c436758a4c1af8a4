package scoring

import (
	"errors"
	"math"
)

// Weights blends the component scores into the composite accuracy score.
// Forecast magnitude accuracy weighs most, then trend following, fit quality,
// scale-normalized error and finally the threshold hit rate.
type Weights struct {
	MAPE        float64
	Directional float64
	RSquared    float64
	RMSE        float64
	Threshold   float64
}

// DefaultWeights are the composite weights used unless configured otherwise
var DefaultWeights = Weights{
	MAPE:        0.30,
	Directional: 0.25,
	RSquared:    0.20,
	RMSE:        0.15,
	Threshold:   0.10,
}

// Validate ensures the weights are non-negative and sum to 1
func (w Weights) Validate() error {
	for _, v := range []float64{w.MAPE, w.Directional, w.RSquared, w.RMSE, w.Threshold} {
		if v < 0 || math.IsNaN(v) {
			return errors.New("composite weights must be non-negative")
		}
	}
	if math.Abs(w.MAPE+w.Directional+w.RSquared+w.RMSE+w.Threshold-1) > 1e-9 {
		return errors.New("composite weights must sum to 1")
	}
	return nil
}

// QualityWeights blends the data quality sub-scores
type QualityWeights struct {
	SampleSize float64
	Coverage   float64
	Outliers   float64
}

// DefaultQualityWeights are the data quality weights used unless configured otherwise
var DefaultQualityWeights = QualityWeights{
	SampleSize: 0.4,
	Coverage:   0.4,
	Outliers:   0.2,
}

// Validate ensures the weights are non-negative and sum to 1
func (w QualityWeights) Validate() error {
	for _, v := range []float64{w.SampleSize, w.Coverage, w.Outliers} {
		if v < 0 || math.IsNaN(v) {
			return errors.New("quality weights must be non-negative")
		}
	}
	if math.Abs(w.SampleSize+w.Coverage+w.Outliers-1) > 1e-9 {
		return errors.New("quality weights must sum to 1")
	}
	return nil
}

// Policy constants of the engine
const (
	// MinSampleSize is the fewest matched pairs metrics are reported for
	MinSampleSize = 3
	// FullSampleSize is the pair count at which sample adequacy saturates
	FullSampleSize = 30
	// ThresholdPercent is the percentage error counted as a correct prediction
	ThresholdPercent = 5.0
	// FlatBand is the absolute change below which a move counts as flat
	FlatBand = 0.01
	// ZScore95 is the two-sided 95% normal quantile
	ZScore95 = 1.96
	// OutlierIQRFactor scales the IQR above Q3 for outlier detection
	OutlierIQRFactor = 1.5
)
