package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

const testToken = "test-token-123"

type mockEvaluator struct {
	mock.Mock
}

func (m *mockEvaluator) Evaluate(forecasts []*domain.Forecast, observations []*domain.Observation, totalForecastCount int) (*domain.AccuracyResult, error) {
	args := m.Called(forecasts, observations, totalForecastCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccuracyResult), args.Error(1)
}

func (m *mockEvaluator) RefreshMetrics(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockRanker struct {
	mock.Mock
}

func (m *mockRanker) Rank(ctx context.Context, period domain.Period) ([]domain.Ranking, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ranking), args.Error(1)
}

// startServer serves srv over an in-memory listener and returns a client for it
func startServer(t *testing.T, srv AccuracyServiceServer) *AccuracyServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(zerolog.Nop()),
		AuthInterceptor(testToken),
	))
	RegisterAccuracyServiceServer(s, srv)

	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewAccuracyServiceClient(conn)
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", testToken)
}

func computeRequest(t *testing.T, forecasts, observations []interface{}) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(map[string]interface{}{
		"forecasts":    forecasts,
		"observations": observations,
	})
	require.NoError(t, err)
	return req
}

func forecastDoc(agentID string, issued string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"agent_id":        agentID,
		"subject_id":      "c1",
		"issued_at":       issued,
		"target_at":       "2025-06-01T00:00:00Z",
		"predicted_value": value,
	}
}

func observationDoc(observed string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		"subject_id":  "c1",
		"observed_at": observed,
		"value":       value,
	}
}

func TestServer_ComputeAccuracy(t *testing.T) {
	evaluator := new(mockEvaluator)
	client := startServer(t, NewServer(evaluator, new(mockRanker)))

	lastUpdated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	evaluator.On("Evaluate",
		mock.MatchedBy(func(f []*domain.Forecast) bool {
			return len(f) == 2 && f[0].AgentID == "claude" && f[1].PredictedValue.String() == "72.5"
		}),
		mock.MatchedBy(func(o []*domain.Observation) bool { return len(o) == 1 }),
		0,
	).Return(&domain.AccuracyResult{
		AgentID:          "claude",
		SubjectID:        "c1",
		TotalPredictions: 2,
		SampleSize:       2,
		MAPE:             3.34,
		Accuracy:         50.05,
		LastUpdated:      lastUpdated,
	}, nil)

	req := computeRequest(t,
		[]interface{}{
			forecastDoc("claude", "2025-01-01T00:00:00Z", 70.0),
			forecastDoc("claude", "2025-01-02T00:00:00Z", "72.5"),
		},
		[]interface{}{observationDoc("2025-01-01T00:00:00Z", 71.0)},
	)

	resp, err := client.ComputeAccuracy(authed(), req)
	require.NoError(t, err)

	fields := resp.GetFields()
	assert.Equal(t, "claude", fields["agent_id"].GetStringValue())
	assert.Equal(t, 2.0, fields["total_predictions"].GetNumberValue())
	assert.Equal(t, 3.34, fields["mape"].GetNumberValue())
	assert.Equal(t, 50.05, fields["accuracy"].GetNumberValue())
	assert.Equal(t, "2025-03-01T12:00:00Z", fields["last_updated"].GetStringValue())
	evaluator.AssertExpectations(t)
}

func TestServer_ComputeAccuracy_Errors(t *testing.T) {
	tests := []struct {
		name         string
		forecasts    []interface{}
		observations []interface{}
		evalErr      error
		expectedCode codes.Code
	}{
		{
			name:         "Insufficient Data",
			forecasts:    []interface{}{forecastDoc("claude", "2025-01-01T00:00:00Z", 70.0)},
			observations: []interface{}{observationDoc("2025-01-01T00:00:00Z", 71.0)},
			evalErr:      fmt.Errorf("only 1 match: %w", domain.ErrInsufficientData),
			expectedCode: codes.FailedPrecondition,
		},
		{
			name:         "Degenerate Input",
			forecasts:    []interface{}{forecastDoc("claude", "2025-01-01T00:00:00Z", 70.0)},
			observations: []interface{}{observationDoc("2025-01-01T00:00:00Z", 0.0)},
			evalErr:      domain.ErrDegenerateInput,
			expectedCode: codes.InvalidArgument,
		},
		{
			name:         "Malformed Value",
			forecasts:    []interface{}{forecastDoc("claude", "2025-01-01T00:00:00Z", "seventy")},
			expectedCode: codes.InvalidArgument,
		},
		{
			name:         "Malformed Timestamp",
			observations: []interface{}{observationDoc("yesterday", 71.0)},
			expectedCode: codes.InvalidArgument,
		},
		{
			name:         "Missing Agent",
			forecasts:    []interface{}{forecastDoc("", "2025-01-01T00:00:00Z", 70.0)},
			expectedCode: codes.InvalidArgument,
		},
		{
			name: "Mixed Agents",
			forecasts: []interface{}{
				forecastDoc("claude", "2025-01-01T00:00:00Z", 70.0),
				forecastDoc("chatgpt", "2025-01-01T00:00:00Z", 70.0),
			},
			expectedCode: codes.InvalidArgument,
		},
		{
			name:      "Observation For Another Subject",
			forecasts: []interface{}{forecastDoc("claude", "2025-01-01T00:00:00Z", 70.0)},
			observations: []interface{}{
				observationDoc("2025-01-01T00:00:00Z", 71.0),
				map[string]interface{}{"subject_id": "c2", "observed_at": "2025-01-02T00:00:00Z", "value": 72.0},
			},
			expectedCode: codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := new(mockEvaluator)
			client := startServer(t, NewServer(evaluator, new(mockRanker)))

			if tt.evalErr != nil {
				evaluator.On("Evaluate", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.evalErr)
			}

			_, err := client.ComputeAccuracy(authed(), computeRequest(t, tt.forecasts, tt.observations))

			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, status.Code(err))
			if tt.evalErr == nil {
				evaluator.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestServer_GetRankings(t *testing.T) {
	ranker := new(mockRanker)
	server := NewServer(new(mockEvaluator), ranker)
	server.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	client := startServer(t, server)

	ranker.On("Rank", mock.Anything, domain.Period7Days).Return([]domain.Ranking{
		{
			Agent:           domain.Agent{ID: "deepseek", Name: "Deepseek", Provider: "DeepSeek"},
			OverallAccuracy: 81.2,
			Rank:            1,
			Trend:           domain.TrendUp,
			SubjectPerformance: []domain.SubjectPerformance{
				{Subject: domain.Subject{ID: "c2", Name: "Gold"}, Accuracy: 90, Predictions: 12},
			},
		},
		{Agent: domain.Agent{ID: "claude", Name: "Claude"}, OverallAccuracy: 75, Rank: 2, Trend: domain.TrendDown},
	}, nil)

	req, err := structpb.NewStruct(map[string]interface{}{"period": "7d"})
	require.NoError(t, err)

	resp, err := client.GetRankings(authed(), req)
	require.NoError(t, err)

	fields := resp.GetFields()
	assert.Equal(t, "7d", fields["period"].GetStringValue())
	assert.Equal(t, "2025-03-01T00:00:00Z", fields["generated_at"].GetStringValue())

	rankings := fields["rankings"].GetListValue().GetValues()
	require.Len(t, rankings, 2)

	first := rankings[0].GetStructValue().GetFields()
	assert.Equal(t, "deepseek", first["agent_id"].GetStringValue())
	assert.Equal(t, 1.0, first["rank"].GetNumberValue())
	assert.Equal(t, 1.0, first["trend"].GetNumberValue())

	breakdown := first["subject_performance"].GetListValue().GetValues()
	require.Len(t, breakdown, 1)
	assert.Equal(t, "Gold", breakdown[0].GetStructValue().GetFields()["subject_name"].GetStringValue())

	assert.Equal(t, -1.0, rankings[1].GetStructValue().GetFields()["trend"].GetNumberValue())
}

func TestServer_GetRankings_UnknownPeriodRanksAll(t *testing.T) {
	ranker := new(mockRanker)
	client := startServer(t, NewServer(new(mockEvaluator), ranker))

	ranker.On("Rank", mock.Anything, domain.PeriodAll).Return([]domain.Ranking{}, nil)

	req, err := structpb.NewStruct(map[string]interface{}{"period": "fortnight"})
	require.NoError(t, err)

	resp, err := client.GetRankings(authed(), req)
	require.NoError(t, err)
	assert.Equal(t, "all", resp.GetFields()["period"].GetStringValue())
	assert.Empty(t, resp.GetFields()["rankings"].GetListValue().GetValues())
	ranker.AssertExpectations(t)
}

func TestServer_GetRankings_Failure(t *testing.T) {
	ranker := new(mockRanker)
	client := startServer(t, NewServer(new(mockEvaluator), ranker))

	ranker.On("Rank", mock.Anything, domain.PeriodAll).Return(nil, errors.New("database unavailable"))

	_, err := client.GetRankings(authed(), nil)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestServer_RefreshMetrics(t *testing.T) {
	evaluator := new(mockEvaluator)
	client := startServer(t, NewServer(evaluator, new(mockRanker)))

	evaluator.On("RefreshMetrics", mock.Anything).Return(12, nil)

	resp, err := client.RefreshMetrics(authed(), nil)
	require.NoError(t, err)
	assert.Equal(t, 12.0, resp.GetFields()["updated"].GetNumberValue())
}

func TestServer_RequiresToken(t *testing.T) {
	evaluator := new(mockEvaluator)
	client := startServer(t, NewServer(evaluator, new(mockRanker)))

	_, err := client.RefreshMetrics(context.Background(), nil)

	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	evaluator.AssertNotCalled(t, "RefreshMetrics", mock.Anything)
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode codes.Code
	}{
		{"Insufficient Data", fmt.Errorf("wrapped: %w", domain.ErrInsufficientData), codes.FailedPrecondition},
		{"Degenerate Input", domain.ErrDegenerateInput, codes.InvalidArgument},
		{"Not Found", fmt.Errorf("agent x: %w", domain.ErrNotFound), codes.NotFound},
		{"Canceled", context.Canceled, codes.Canceled},
		{"Validation", errors.New("agent ID cannot be empty"), codes.InvalidArgument},
		{"Unknown", errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, status.Code(mapError(tt.err)))
		})
	}

	assert.NoError(t, mapError(nil))
}
