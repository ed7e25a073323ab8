package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	resultsRecentKey = "results:recent"
	resultsTotalsKey = "results:totals"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.MatchResult) error
	GetRecent(ctx context.Context) ([]*entity.MatchResult, error)
	GetTotals(ctx context.Context) (map[string]int64, error)
}

type dbResult struct {
	client *redis.Client
	limit  int64
}

// NewResultRepository keeps the latest `limit` results and running totals per winner.
func NewResultRepository(client *redis.Client, limit int64) ResultRepository {
	if limit <= 0 {
		limit = 1
	}

	return &dbResult{
		client: client,
		limit:  limit,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.MatchResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, resultsRecentKey, resultJSON)
		pipe.LTrim(ctx, resultsRecentKey, 0, that.limit-1)
		pipe.HIncrBy(ctx, resultsTotalsKey, result.Winner, 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

// GetRecent returns results newest first.
func (that *dbResult) GetRecent(ctx context.Context) ([]*entity.MatchResult, error) {
	response, err := that.client.LRange(ctx, resultsRecentKey, 0, that.limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}

	results := make([]*entity.MatchResult, 0, len(response))
	for _, raw := range response {
		var result entity.MatchResult
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}

		results = append(results, &result)
	}

	return results, nil
}

func (that *dbResult) GetTotals(ctx context.Context) (map[string]int64, error) {
	response, err := that.client.HGetAll(ctx, resultsTotalsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get result totals: %w", err)
	}

	totals := map[string]int64{
		string(entity.PlayerX): 0,
		string(entity.PlayerO): 0,
		entity.Draw:            0,
	}

	for winner, raw := range response {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse total for %s: %w", winner, err)
		}

		totals[winner] = count
	}

	return totals, nil
}
