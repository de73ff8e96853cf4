package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

// ResultsCache keeps computed poll results. Get returns nil without error
// on a miss.
type ResultsCache interface {
	Get(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error)
	Set(ctx context.Context, results *domain.PollResults) error
	Invalidate(ctx context.Context, pollID uuid.UUID) error
}

type ResultsService interface {
	GetResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error)
	// Refresh recomputes the results from storage and replaces the cached copy.
	Refresh(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error)
}

type SnapshotService interface {
	RefreshAll(ctx context.Context) error
}
