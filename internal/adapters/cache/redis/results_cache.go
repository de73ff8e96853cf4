package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyPrefix = "cached:results:"

type resultsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClient connects to the server addressed by uri, such as
// redis://localhost:6379/0.
func NewClient(ctx context.Context, uri string) (*redis.Client, error) {
	options, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid redis uri: %w", err)
	}

	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return client, nil
}

// NewResultsCache stores poll results for ttl. A zero ttl keeps them until
// they are invalidated.
func NewResultsCache(client *redis.Client, ttl time.Duration) ports.ResultsCache {
	return &resultsCache{client: client, ttl: ttl}
}

func key(pollID uuid.UUID) string {
	return keyPrefix + pollID.String()
}

func (c *resultsCache) Get(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	val, err := c.client.Get(ctx, key(pollID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: redis get: %w", domain.ErrUnavailable, err)
	}

	var results domain.PollResults
	if err := json.Unmarshal(val, &results); err != nil {
		return nil, fmt.Errorf("failed to decode cached results: %w", err)
	}
	return &results, nil
}

func (c *resultsCache) Set(ctx context.Context, results *domain.PollResults) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := c.client.Set(ctx, key(results.PollID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", domain.ErrUnavailable, err)
	}
	return nil
}

func (c *resultsCache) Invalidate(ctx context.Context, pollID uuid.UUID) error {
	if err := c.client.Del(ctx, key(pollID)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %w", domain.ErrUnavailable, err)
	}
	return nil
}
