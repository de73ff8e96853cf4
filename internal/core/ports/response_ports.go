package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type ResponseRepository interface {
	// Save stores the response and its answers. It returns
	// domain.ErrAlreadyVoted when the voter already has a response for
	// the poll.
	Save(ctx context.Context, response *domain.Response) error
	HasResponded(ctx context.Context, pollID uuid.UUID, voter domain.VoterIdentity) (bool, error)
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Response, error)
	CountByPoll(ctx context.Context, pollID uuid.UUID) (int64, error)
}

type SubmitResponseInput struct {
	PollID  uuid.UUID
	Voter   domain.VoterIdentity
	Answers []domain.AnswerInput
}

type VoteService interface {
	Submit(ctx context.Context, input SubmitResponseInput) (*domain.Response, error)
}
