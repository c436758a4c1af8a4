package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// Evaluator computes accuracy for ad-hoc inputs and refreshes stored metrics
type Evaluator interface {
	Evaluate(forecasts []*domain.Forecast, observations []*domain.Observation, totalForecastCount int) (*domain.AccuracyResult, error)
	RefreshMetrics(ctx context.Context) (int, error)
}

// Ranker produces the cross-subject agent rankings for a period
type Ranker interface {
	Rank(ctx context.Context, period domain.Period) ([]domain.Ranking, error)
}

// Server implements the AccuracyService gRPC server
type Server struct {
	Evaluator Evaluator
	Ranker    Ranker

	now func() time.Time
}

// NewServer creates a new gRPC server instance
func NewServer(evaluator Evaluator, ranker Ranker) *Server {
	return &Server{
		Evaluator: evaluator,
		Ranker:    ranker,
		now:       time.Now,
	}
}

// ComputeAccuracy handles the ComputeAccuracy RPC.
// All forecasts must belong to the same agent and subject, and every
// observation to that subject.
func (s *Server) ComputeAccuracy(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	forecasts, err := decodeForecasts(fields["forecasts"].GetListValue().GetValues())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	observations, err := decodeObservations(fields["observations"].GetListValue().GetValues())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	for _, f := range forecasts {
		if f.AgentID != forecasts[0].AgentID || f.SubjectID != forecasts[0].SubjectID {
			return nil, status.Error(codes.InvalidArgument, "forecasts must reference a single agent and subject")
		}
	}
	if len(forecasts) > 0 {
		for _, o := range observations {
			if o.SubjectID != forecasts[0].SubjectID {
				return nil, status.Errorf(codes.InvalidArgument,
					"observation subject %q does not match forecast subject %q", o.SubjectID, forecasts[0].SubjectID)
			}
		}
	}

	total := int(fields["total_forecast_count"].GetNumberValue())

	result, err := s.Evaluator.Evaluate(forecasts, observations, total)
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(encodeResult(result))
}

// GetRankings handles the GetRankings RPC.
// An absent or unknown period ranks over the full history.
func (s *Server) GetRankings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	period := domain.ParsePeriod(req.GetFields()["period"].GetStringValue())

	rankings, err := s.Ranker.Rank(ctx, period)
	if err != nil {
		return nil, mapError(err)
	}

	encoded := make([]interface{}, 0, len(rankings))
	for _, r := range rankings {
		encoded = append(encoded, encodeRanking(r))
	}

	return structpb.NewStruct(map[string]interface{}{
		"period":       string(period),
		"generated_at": s.now().UTC().Format(time.RFC3339),
		"rankings":     encoded,
	})
}

// RefreshMetrics handles the RefreshMetrics RPC
func (s *Server) RefreshMetrics(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	updated, err := s.Evaluator.RefreshMetrics(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(map[string]interface{}{
		"updated": updated,
	})
}

// mapError maps domain errors to gRPC status codes
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		return status.Errorf(codes.FailedPrecondition, "%s", err.Error())
	case errors.Is(err, domain.ErrDegenerateInput):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	errorMsg := err.Error()

	// Map common validation errors to InvalidArgument
	if strings.Contains(errorMsg, "invalid") ||
		strings.Contains(errorMsg, "must reference") ||
		strings.Contains(errorMsg, "cannot be empty") {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
