package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// VoterIdentity scopes the one-response-per-poll rule. Exactly one of
// UserID and AnonymousID is set.
type VoterIdentity struct {
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	AnonymousID string     `json:"anonymous_id,omitempty"`
}

func UserVoter(id uuid.UUID) VoterIdentity {
	return VoterIdentity{UserID: &id}
}

func AnonymousVoter(id string) VoterIdentity {
	return VoterIdentity{AnonymousID: id}
}

func (v VoterIdentity) IsAnonymous() bool {
	return v.UserID == nil
}

func (v VoterIdentity) Validate() error {
	hasUser := v.UserID != nil && *v.UserID != uuid.Nil
	hasAnon := strings.TrimSpace(v.AnonymousID) != ""
	if hasUser == hasAnon {
		return ErrInvalidVoter
	}
	return nil
}

func (v VoterIdentity) String() string {
	if v.UserID != nil {
		return "user:" + v.UserID.String()
	}
	return "anonymous:" + v.AnonymousID
}

type PayloadKind string

const (
	PayloadOption  PayloadKind = "option"
	PayloadOptions PayloadKind = "options"
	PayloadText    PayloadKind = "text"
	PayloadRating  PayloadKind = "rating"
	PayloadRanking PayloadKind = "ranking"
)

// AnswerPayload is the closed set of values an answer can carry.
type AnswerPayload interface {
	Kind() PayloadKind
	isAnswerPayload()
}

type OptionChoice struct {
	OptionID uuid.UUID
}

type OptionSet struct {
	OptionIDs []uuid.UUID
}

type TextValue struct {
	Text string
}

type RatingValue struct {
	Value float64
}

// RankingOrder lists option ids from first to last place.
type RankingOrder struct {
	OptionIDs []uuid.UUID
}

func (OptionChoice) Kind() PayloadKind { return PayloadOption }
func (OptionSet) Kind() PayloadKind    { return PayloadOptions }
func (TextValue) Kind() PayloadKind    { return PayloadText }
func (RatingValue) Kind() PayloadKind  { return PayloadRating }
func (RankingOrder) Kind() PayloadKind { return PayloadRanking }

func (OptionChoice) isAnswerPayload() {}
func (OptionSet) isAnswerPayload()    {}
func (TextValue) isAnswerPayload()    {}
func (RatingValue) isAnswerPayload()  {}
func (RankingOrder) isAnswerPayload() {}

type Answer struct {
	QuestionID uuid.UUID
	Payload    AnswerPayload
}

type Response struct {
	ID        uuid.UUID     `json:"id"`
	PollID    uuid.UUID     `json:"poll_id"`
	Voter     VoterIdentity `json:"voter"`
	Answers   []Answer      `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

// Answer returns the answer given to a question, if any.
func (r *Response) Answer(questionID uuid.UUID) (Answer, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return Answer{}, false
}

type RankingEntry struct {
	OptionID uuid.UUID `json:"option_id"`
	Position int       `json:"position"`
}

// AnswerInput is an answer as submitted by a client. At most one of the
// value fields may be set.
type AnswerInput struct {
	QuestionID   uuid.UUID      `json:"question_id"`
	OptionID     *uuid.UUID     `json:"option_id,omitempty"`
	OptionIDs    []uuid.UUID    `json:"option_ids,omitempty"`
	TextValue    *string        `json:"text_value,omitempty"`
	NumericValue *float64       `json:"numeric_value,omitempty"`
	Ranking      []RankingEntry `json:"ranking,omitempty"`
}

// Payload converts the input into its variant. A nil payload means the
// question was left unanswered.
func (in AnswerInput) Payload() (AnswerPayload, error) {
	var payloads []AnswerPayload
	if in.OptionID != nil {
		payloads = append(payloads, OptionChoice{OptionID: *in.OptionID})
	}
	if in.OptionIDs != nil {
		payloads = append(payloads, OptionSet{OptionIDs: slices.Clone(in.OptionIDs)})
	}
	if in.TextValue != nil {
		payloads = append(payloads, TextValue{Text: *in.TextValue})
	}
	if in.NumericValue != nil {
		payloads = append(payloads, RatingValue{Value: *in.NumericValue})
	}
	if in.Ranking != nil {
		entries := slices.Clone(in.Ranking)
		slices.SortStableFunc(entries, func(a, b RankingEntry) int {
			return cmp.Compare(a.Position, b.Position)
		})
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			ids[i] = e.OptionID
		}
		payloads = append(payloads, RankingOrder{OptionIDs: ids})
	}

	switch len(payloads) {
	case 0:
		return nil, nil
	case 1:
		return payloads[0], nil
	default:
		return nil, &ValidationError{QuestionID: in.QuestionID, Reason: "answer carries more than one value"}
	}
}
