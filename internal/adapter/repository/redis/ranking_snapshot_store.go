package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/commodityai/accuracy-backend/internal/domain"
)

// DefaultSnapshotKey is the hash holding agentID -> rank of the last ranking run
const DefaultSnapshotKey = "accuracy:ranking:previous"

// RankingSnapshotStore implements domain.RankingSnapshotRepository on a Redis hash
type RankingSnapshotStore struct {
	client *redis.Client
	key    string
}

// NewRankingSnapshotStore connects to Redis and verifies the connection
func NewRankingSnapshotStore(addr string, db int, password string) (*RankingSnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RankingSnapshotStore{client: client, key: DefaultSnapshotKey}, nil
}

// LoadPrevious retrieves the ranks stored by the last run
func (s *RankingSnapshotStore) LoadPrevious(ctx context.Context) ([]domain.RankSnapshot, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load ranking snapshot: %w", err)
	}

	snapshots := make([]domain.RankSnapshot, 0, len(values))
	for agentID, raw := range values {
		rank, err := strconv.Atoi(raw)
		if err != nil {
			// A corrupt entry only loses the trend for that agent
			continue
		}
		snapshots = append(snapshots, domain.RankSnapshot{AgentID: agentID, Rank: rank})
	}

	return snapshots, nil
}

// Store atomically replaces the stored ranks
func (s *RankingSnapshotStore) Store(ctx context.Context, rankings []domain.Ranking) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(rankings) == 0 {
			return nil
		}

		fields := make(map[string]interface{}, len(rankings))
		for _, ranking := range rankings {
			fields[ranking.Agent.ID] = ranking.Rank
		}
		pipe.HSet(ctx, s.key, fields)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store ranking snapshot: %w", err)
	}

	return nil
}

// Close releases the underlying client
func (s *RankingSnapshotStore) Close() error {
	return s.client.Close()
}
