package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Validate decides whether payload is an acceptable answer to q. A nil
// payload is accepted for optional questions; the caller then leaves the
// question out of the response.
func (q Question) Validate(payload AnswerPayload) error {
	if payload == nil {
		if q.IsRequired {
			return q.reject("an answer is required")
		}
		return nil
	}

	switch q.Type {
	case QuestionSingleChoice, QuestionYesNo, QuestionImageChoice:
		return q.validateChoice(payload)
	case QuestionMultipleChoice:
		return q.validateMultiple(payload)
	case QuestionRating:
		return q.validateRating(payload)
	case QuestionText:
		return q.validateText(payload)
	case QuestionRanking:
		return q.validateRanking(payload)
	default:
		return q.reject(fmt.Sprintf("unsupported question type %q", q.Type))
	}
}

func (q Question) reject(reason string) error {
	return &ValidationError{QuestionID: q.ID, QuestionTitle: q.Title, Reason: reason}
}

func (q Question) mismatch(payload AnswerPayload) error {
	return q.reject(fmt.Sprintf("a %s answer does not fit a %s question", payload.Kind(), q.Type))
}

func (q Question) validateChoice(payload AnswerPayload) error {
	choice, ok := payload.(OptionChoice)
	if !ok {
		return q.mismatch(payload)
	}
	if !q.HasOption(choice.OptionID) {
		return q.reject(fmt.Sprintf("option %s does not belong to this question", choice.OptionID))
	}
	return nil
}

func (q Question) validateMultiple(payload AnswerPayload) error {
	set, ok := payload.(OptionSet)
	if !ok {
		return q.mismatch(payload)
	}
	if len(set.OptionIDs) == 0 {
		return q.reject("select at least one option")
	}
	seen := make(map[uuid.UUID]struct{}, len(set.OptionIDs))
	for _, id := range set.OptionIDs {
		if _, dup := seen[id]; dup {
			return q.reject(fmt.Sprintf("option %s selected more than once", id))
		}
		seen[id] = struct{}{}
		if !q.HasOption(id) {
			return q.reject(fmt.Sprintf("option %s does not belong to this question", id))
		}
	}
	if !q.AllowMultiple && len(set.OptionIDs) != 1 {
		return q.reject("only one option may be selected")
	}
	return nil
}

func (q Question) validateRating(payload AnswerPayload) error {
	rating, ok := payload.(RatingValue)
	if !ok {
		return q.mismatch(payload)
	}
	v := rating.Value
	if math.IsNaN(v) || v != math.Trunc(v) || v < MinRating || v > MaxRating {
		return q.reject(fmt.Sprintf("rating must be a whole number from %d to %d", MinRating, MaxRating))
	}
	return nil
}

func (q Question) validateText(payload AnswerPayload) error {
	text, ok := payload.(TextValue)
	if !ok {
		return q.mismatch(payload)
	}
	if strings.TrimSpace(text.Text) == "" {
		return q.reject("text must not be empty")
	}
	return nil
}

func (q Question) validateRanking(payload AnswerPayload) error {
	ranking, ok := payload.(RankingOrder)
	if !ok {
		return q.mismatch(payload)
	}
	if len(ranking.OptionIDs) != len(q.Options) {
		return q.reject(fmt.Sprintf("ranking must order all %d options", len(q.Options)))
	}
	seen := make(map[uuid.UUID]struct{}, len(ranking.OptionIDs))
	for _, id := range ranking.OptionIDs {
		if _, dup := seen[id]; dup {
			return q.reject(fmt.Sprintf("option %s ranked more than once", id))
		}
		seen[id] = struct{}{}
		if !q.HasOption(id) {
			return q.reject(fmt.Sprintf("option %s does not belong to this question", id))
		}
	}
	return nil
}
