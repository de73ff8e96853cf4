package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

// invalidateResults drops the cached results of a poll. A cache failure
// only costs freshness, so it is logged and not returned.
func invalidateResults(ctx context.Context, cache ports.ResultsCache, log *logrus.Entry, pollID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, pollID); err != nil {
		log.WithError(err).WithField("poll_id", pollID).Warn("failed to invalidate cached results")
	}
}
