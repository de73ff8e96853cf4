package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AdmitVoter checks that voter is a well formed identity the poll accepts.
func (p *Poll) AdmitVoter(voter VoterIdentity) error {
	if err := voter.Validate(); err != nil {
		return err
	}
	if voter.IsAnonymous() && !p.AllowAnonymous {
		return ErrAuthenticationRequired
	}
	return nil
}

// BuildResponse validates a full submission against the poll and returns
// the response to persist. It does not know about earlier responses; the
// one-vote rule is enforced by the caller and by storage.
//
// Questions are checked in display order and the first rejection is
// returned. Optional questions without an answer are left out.
func BuildResponse(poll *Poll, voter VoterIdentity, inputs []AnswerInput, now time.Time) (*Response, error) {
	if err := poll.EnsureVotable(now); err != nil {
		return nil, err
	}
	if err := poll.AdmitVoter(voter); err != nil {
		return nil, err
	}

	byQuestion := make(map[uuid.UUID]AnswerInput, len(inputs))
	for _, in := range inputs {
		if _, ok := poll.Question(in.QuestionID); !ok {
			return nil, fmt.Errorf("%w: %s", ErrQuestionNotFound, in.QuestionID)
		}
		if _, dup := byQuestion[in.QuestionID]; dup {
			q, _ := poll.Question(in.QuestionID)
			return nil, q.reject("answered more than once")
		}
		byQuestion[in.QuestionID] = in
	}

	var answers []Answer
	for _, q := range poll.SortedQuestions() {
		var payload AnswerPayload
		if in, ok := byQuestion[q.ID]; ok {
			p, err := in.Payload()
			if err != nil {
				return nil, q.reject("answer carries more than one value")
			}
			payload = p
		}
		if err := q.Validate(payload); err != nil {
			return nil, err
		}
		if payload == nil {
			continue
		}
		answers = append(answers, Answer{QuestionID: q.ID, Payload: payload})
	}

	return &Response{
		ID:        uuid.New(),
		PollID:    poll.ID,
		Voter:     voter,
		Answers:   answers,
		CreatedAt: now,
	}, nil
}
