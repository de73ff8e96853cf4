package redis

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

func setupRedisContainer(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		return nil, "", err
	}
	return container, "redis://" + endpoint + "/0", nil
}

func TestResultsCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis test in short mode")
	}

	ctx := context.Background()
	container, uri, err := setupRedisContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	client, err := NewClient(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	cache := NewResultsCache(client, time.Minute)
	avg := 4.5
	results := &domain.PollResults{
		PollID:         uuid.New(),
		PollTitle:      "Team offsite",
		TotalResponses: 2,
		QuestionResults: []domain.QuestionResult{{
			QuestionID:    uuid.New(),
			QuestionTitle: "Venue",
			Type:          domain.QuestionRating,
			AnswerCount:   2,
			AverageRating: &avg,
		}},
	}

	t.Run("miss", func(t *testing.T) {
		got, err := cache.Get(ctx, results.PollID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, results))

		got, err := cache.Get(ctx, results.PollID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, results, got)

		ttl, err := client.TTL(ctx, key(results.PollID)).Result()
		require.NoError(t, err)
		assert.True(t, ttl > 0 && ttl <= time.Minute)
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, cache.Invalidate(ctx, results.PollID))
		got, err := cache.Get(ctx, results.PollID)
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, cache.Invalidate(ctx, uuid.New()))
	})
}

func TestResultsCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	cache := NewResultsCache(client, time.Minute)
	ctx := context.Background()

	_, err := cache.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.ErrorIs(t, cache.Set(ctx, &domain.PollResults{PollID: uuid.New()}), domain.ErrUnavailable)
	assert.ErrorIs(t, cache.Invalidate(ctx, uuid.New()), domain.ErrUnavailable)
}

func TestNewClientRejectsBadURI(t *testing.T) {
	_, err := NewClient(context.Background(), "localhost:6379")
	assert.Error(t, err)
}
