package ports

import (
	"context"

	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type DashboardService interface {
	// Build summarizes every poll for administrators and the active polls
	// for everyone else.
	Build(ctx context.Context, admin bool) (*domain.Dashboard, error)
}
