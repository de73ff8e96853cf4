package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type resultsService struct {
	pollRepo     ports.PollRepository
	responseRepo ports.ResponseRepository
	userRepo     ports.UserRepository
	cache        ports.ResultsCache
	log          *logrus.Entry
}

func NewResultsService(pollRepo ports.PollRepository, responseRepo ports.ResponseRepository, userRepo ports.UserRepository, cache ports.ResultsCache, log *logrus.Entry) ports.ResultsService {
	return &resultsService{
		pollRepo:     pollRepo,
		responseRepo: responseRepo,
		userRepo:     userRepo,
		cache:        cache,
		log:          log.WithField("component", "results"),
	}
}

// GetResults serves cached results while they still account for every
// stored response. A snapshot written by a refresh that raced a new vote is
// recomputed.
func (s *resultsService) GetResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, pollID)
		if err != nil {
			s.log.WithError(err).WithField("poll_id", pollID).Warn("results cache read failed")
		} else if cached != nil && s.current(ctx, cached) {
			return cached, nil
		}
	}
	return s.Refresh(ctx, pollID)
}

func (s *resultsService) current(ctx context.Context, cached *domain.PollResults) bool {
	count, err := s.responseRepo.CountByPoll(ctx, cached.PollID)
	if err != nil {
		s.log.WithError(err).WithField("poll_id", cached.PollID).Warn("failed to count responses, recomputing results")
		return false
	}
	if count != cached.TotalResponses {
		s.log.WithFields(logrus.Fields{
			"poll_id": cached.PollID,
			"cached":  cached.TotalResponses,
			"stored":  count,
		}).Debug("cached results are stale")
		return false
	}
	return true
}

func (s *resultsService) Refresh(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	responses, err := s.responseRepo.ListByPoll(ctx, poll.ID)
	if err != nil {
		return nil, err
	}

	var users map[uuid.UUID]domain.User
	if poll.IdentifyVoters {
		users, err = s.userRepo.GetByIDs(ctx, voterUserIDs(responses))
		if err != nil {
			return nil, err
		}
	}

	results, discarded := domain.Aggregate(poll, responses, users)
	for _, d := range discarded {
		s.log.WithFields(logrus.Fields{
			"poll_id":     poll.ID,
			"response_id": d.ResponseID,
			"question_id": d.QuestionID,
		}).Warn("skipped stored answer: " + d.Reason)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, &results); err != nil {
			s.log.WithError(err).WithField("poll_id", poll.ID).Warn("results cache write failed")
		}
	}
	return &results, nil
}

func voterUserIDs(responses []domain.Response) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, r := range responses {
		if r.Voter.UserID == nil {
			continue
		}
		if _, ok := seen[*r.Voter.UserID]; ok {
			continue
		}
		seen[*r.Voter.UserID] = struct{}{}
		ids = append(ids, *r.Voter.UserID)
	}
	return ids
}
