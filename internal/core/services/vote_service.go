package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type voteService struct {
	pollRepo     ports.PollRepository
	responseRepo ports.ResponseRepository
	cache        ports.ResultsCache
	log          *logrus.Entry
	now          func() time.Time
}

// NewVoteService builds the submission coordinator. cache may be nil when
// results are not cached.
func NewVoteService(pollRepo ports.PollRepository, responseRepo ports.ResponseRepository, cache ports.ResultsCache, log *logrus.Entry) ports.VoteService {
	return &voteService{
		pollRepo:     pollRepo,
		responseRepo: responseRepo,
		cache:        cache,
		log:          log.WithField("component", "vote"),
		now:          time.Now,
	}
}

func (s *voteService) Submit(ctx context.Context, input ports.SubmitResponseInput) (*domain.Response, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := poll.EnsureVotable(now); err != nil {
		return nil, err
	}
	if err := poll.AdmitVoter(input.Voter); err != nil {
		return nil, err
	}

	hasVoted, err := s.responseRepo.HasResponded(ctx, poll.ID, input.Voter)
	if err != nil {
		return nil, err
	}
	if hasVoted {
		return nil, domain.ErrAlreadyVoted
	}

	response, err := domain.BuildResponse(poll, input.Voter, input.Answers, now)
	if err != nil {
		return nil, err
	}

	if err := s.responseRepo.Save(ctx, response); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			s.log.WithFields(logrus.Fields{
				"poll_id": poll.ID,
				"voter":   input.Voter.String(),
			}).Warn("concurrent duplicate response rejected by storage")
		}
		return nil, err
	}

	invalidateResults(ctx, s.cache, s.log, poll.ID)
	s.log.WithFields(logrus.Fields{
		"poll_id":     poll.ID,
		"response_id": response.ID,
		"anonymous":   input.Voter.IsAnonymous(),
		"answers":     len(response.Answers),
	}).Info("response recorded")

	return response, nil
}
