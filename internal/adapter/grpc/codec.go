package grpc

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// Struct documents use snake_case keys, RFC 3339 timestamps and either
// numbers or decimal strings for values.

func decodeForecasts(values []*structpb.Value) ([]*domain.Forecast, error) {
	forecasts := make([]*domain.Forecast, 0, len(values))
	for i, v := range values {
		fields := v.GetStructValue().GetFields()
		if fields == nil {
			return nil, fmt.Errorf("invalid forecasts[%d]: expected an object", i)
		}

		forecast := &domain.Forecast{
			ID:        uuid.New(),
			SubjectID: fields["subject_id"].GetStringValue(),
			AgentID:   fields["agent_id"].GetStringValue(),
		}

		if id := fields["id"].GetStringValue(); id != "" {
			parsed, err := uuid.Parse(id)
			if err != nil {
				return nil, fmt.Errorf("invalid forecasts[%d].id: %w", i, err)
			}
			forecast.ID = parsed
		}

		var err error
		if forecast.IssuedAt, err = timeField(fields, "issued_at"); err != nil {
			return nil, fmt.Errorf("invalid forecasts[%d]: %w", i, err)
		}
		if forecast.TargetAt, err = timeField(fields, "target_at"); err != nil {
			return nil, fmt.Errorf("invalid forecasts[%d]: %w", i, err)
		}
		if forecast.PredictedValue, err = decimalField(fields, "predicted_value"); err != nil {
			return nil, fmt.Errorf("invalid forecasts[%d]: %w", i, err)
		}

		if err := forecast.Validate(); err != nil {
			return nil, fmt.Errorf("invalid forecasts[%d]: %w", i, err)
		}
		forecasts = append(forecasts, forecast)
	}
	return forecasts, nil
}

func decodeObservations(values []*structpb.Value) ([]*domain.Observation, error) {
	observations := make([]*domain.Observation, 0, len(values))
	for i, v := range values {
		fields := v.GetStructValue().GetFields()
		if fields == nil {
			return nil, fmt.Errorf("invalid observations[%d]: expected an object", i)
		}

		observation := &domain.Observation{
			SubjectID: fields["subject_id"].GetStringValue(),
		}

		var err error
		if observation.ObservedAt, err = timeField(fields, "observed_at"); err != nil {
			return nil, fmt.Errorf("invalid observations[%d]: %w", i, err)
		}
		if observation.Value, err = decimalField(fields, "value"); err != nil {
			return nil, fmt.Errorf("invalid observations[%d]: %w", i, err)
		}

		if err := observation.Validate(); err != nil {
			return nil, fmt.Errorf("invalid observations[%d]: %w", i, err)
		}
		observations = append(observations, observation)
	}
	return observations, nil
}

// timeField parses an RFC 3339 timestamp; a missing field yields the zero time
func timeField(fields map[string]*structpb.Value, key string) (time.Time, error) {
	raw := fields[key].GetStringValue()
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}

func decimalField(fields map[string]*structpb.Value, key string) (decimal.Decimal, error) {
	switch kind := fields[key].GetKind().(type) {
	case *structpb.Value_NumberValue:
		if math.IsNaN(kind.NumberValue) || math.IsInf(kind.NumberValue, 0) {
			return decimal.Zero, fmt.Errorf("invalid %s: value must be finite", key)
		}
		return decimal.NewFromFloat(kind.NumberValue), nil
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("invalid %s: expected a number or decimal string", key)
	}
}

func encodeResult(r *domain.AccuracyResult) map[string]interface{} {
	return map[string]interface{}{
		"agent_id":                     r.AgentID,
		"subject_id":                   r.SubjectID,
		"total_predictions":            r.TotalPredictions,
		"correct_predictions":          r.CorrectPredictions,
		"avg_absolute_error":           r.AvgAbsoluteError,
		"avg_percentage_error":         r.AvgPercentageError,
		"mape":                         r.MAPE,
		"rmse":                         r.RMSE,
		"mae":                          r.MAE,
		"r_squared":                    r.RSquared,
		"theils_u":                     r.TheilsU,
		"smape":                        r.SMAPE,
		"directional_accuracy":         r.DirectionalAccuracy,
		"confidence_interval_95_lower": r.ConfidenceInterval95Lower,
		"confidence_interval_95_upper": r.ConfidenceInterval95Upper,
		"sample_size":                  r.SampleSize,
		"mean_error":                   r.MeanError,
		"error_std_dev":                r.ErrorStdDev,
		"median_error":                 r.MedianError,
		"outlier_count":                r.OutlierCount,
		"data_quality_score":           r.DataQualityScore,
		"threshold_accuracy":           r.ThresholdAccuracy,
		"accuracy":                     r.Accuracy,
		"last_updated":                 r.LastUpdated.UTC().Format(time.RFC3339),
	}
}

func encodeRanking(r domain.Ranking) map[string]interface{} {
	breakdown := make([]interface{}, 0, len(r.SubjectPerformance))
	for _, sp := range r.SubjectPerformance {
		breakdown = append(breakdown, map[string]interface{}{
			"subject_id":   sp.Subject.ID,
			"subject_name": sp.Subject.Name,
			"accuracy":     sp.Accuracy,
			"predictions":  sp.Predictions,
		})
	}

	return map[string]interface{}{
		"agent_id":             r.Agent.ID,
		"agent_name":           r.Agent.Name,
		"provider":             r.Agent.Provider,
		"overall_accuracy":     r.OverallAccuracy,
		"total_predictions":    r.TotalPredictions,
		"avg_absolute_error":   r.AvgAbsoluteError,
		"avg_percentage_error": r.AvgPercentageError,
		"subject_performance":  breakdown,
		"rank":                 r.Rank,
		"trend":                r.Trend,
	}
}
