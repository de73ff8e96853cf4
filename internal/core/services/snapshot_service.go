package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type snapshotService struct {
	pollRepo ports.PollRepository
	results  ports.ResultsService
	log      *logrus.Entry
}

func NewSnapshotService(pollRepo ports.PollRepository, results ports.ResultsService, log *logrus.Entry) ports.SnapshotService {
	return &snapshotService{
		pollRepo: pollRepo,
		results:  results,
		log:      log.WithField("component", "snapshot"),
	}
}

// RefreshAll recomputes the results of every poll concurrently and
// returns the first failure.
func (s *snapshotService) RefreshAll(ctx context.Context) error {
	polls, err := s.pollRepo.Search(ctx, ports.PollFilter{Active: ports.ActiveFilterAll})
	if err != nil {
		return fmt.Errorf("failed to fetch all polls: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(polls))

	for _, poll := range polls {
		wg.Add(1)
		go func(pID uuid.UUID) {
			defer wg.Done()
			if _, err := s.results.Refresh(ctx, pID); err != nil {
				errChan <- fmt.Errorf("failed to refresh results of poll %s: %w", pID, err)
			}
		}(poll.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	s.log.WithField("polls", len(polls)).Info("results refreshed")
	return nil
}
