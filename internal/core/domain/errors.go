package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds. Every error returned by the core wraps exactly one of them.
var (
	ErrNotFound               = errors.New("not found")
	ErrValidationRejected     = errors.New("validation rejected")
	ErrAlreadyVoted           = errors.New("already voted on this poll")
	ErrPollNotVotable         = errors.New("poll is not open for voting")
	ErrUnavailable            = errors.New("storage unavailable")
	ErrAuthenticationRequired = errors.New("this poll requires authentication to vote")
	ErrForbidden              = errors.New("forbidden")
)

var (
	ErrPollNotFound     = fmt.Errorf("poll %w", ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidPollID    = fmt.Errorf("%w: invalid poll id", ErrValidationRejected)
	ErrInvalidVoter     = fmt.Errorf("%w: a vote needs exactly one of user id or anonymous id", ErrValidationRejected)
	ErrTitleRequired    = fmt.Errorf("%w: title is required", ErrValidationRejected)

	ErrPollNotStarted = fmt.Errorf("%w: poll has not started yet", ErrPollNotVotable)
	ErrPollEnded      = fmt.Errorf("%w: poll has ended", ErrPollNotVotable)
)

// ValidationError rejects the answer given to one question.
type ValidationError struct {
	QuestionID    uuid.UUID
	QuestionTitle string
	Reason        string
}

func (e *ValidationError) Error() string {
	if e.QuestionTitle != "" {
		return fmt.Sprintf("question %q: %s", e.QuestionTitle, e.Reason)
	}
	return fmt.Sprintf("question %s: %s", e.QuestionID, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationRejected
}
