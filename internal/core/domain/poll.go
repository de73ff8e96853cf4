package domain

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionImageChoice    QuestionType = "image_choice"
	QuestionRating         QuestionType = "rating"
	QuestionText           QuestionType = "text"
	QuestionYesNo          QuestionType = "yes_no"
	QuestionRanking        QuestionType = "ranking"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultipleChoice, QuestionImageChoice,
		QuestionRating, QuestionText, QuestionYesNo, QuestionRanking:
		return true
	}
	return false
}

// IsChoice reports whether answers to the question select options that are tallied.
func (t QuestionType) IsChoice() bool {
	switch t {
	case QuestionSingleChoice, QuestionMultipleChoice, QuestionImageChoice, QuestionYesNo:
		return true
	}
	return false
}

type OptionType string

const (
	OptionText    OptionType = "TEXT"
	OptionImage   OptionType = "IMAGE"
	OptionNumeric OptionType = "NUMERIC"
)

func (t OptionType) Valid() bool {
	return t == OptionText || t == OptionImage || t == OptionNumeric
}

type Poll struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	IsActive       bool       `json:"is_active"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	AllowAnonymous bool       `json:"allow_anonymous"`
	IdentifyVoters bool       `json:"identify_voters"`
	CreatedByID    *uuid.UUID `json:"created_by_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Questions      []Question `json:"questions,omitempty"`
}

type Question struct {
	ID            uuid.UUID    `json:"id"`
	PollID        uuid.UUID    `json:"poll_id"`
	Type          QuestionType `json:"type"`
	Title         string       `json:"title"`
	IsRequired    bool         `json:"is_required"`
	AllowMultiple bool         `json:"allow_multiple"`
	SortOrder     int          `json:"sort_order"`
	Options       []Option     `json:"options"`
}

type Option struct {
	ID           uuid.UUID  `json:"id"`
	QuestionID   uuid.UUID  `json:"question_id"`
	Type         OptionType `json:"type"`
	TextContent  string     `json:"text_content,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	NumericValue *float64   `json:"numeric_value,omitempty"`
	SortOrder    int        `json:"sort_order"`
	Weight       *float64   `json:"weight,omitempty"`
}

// Label is the text shown for the option in result listings.
func (o Option) Label() string {
	if o.TextContent != "" {
		return o.TextContent
	}
	return o.ID.String()
}

// SortedQuestions returns the questions ordered by SortOrder. Ties keep
// their original order. The poll itself is not modified.
func (p *Poll) SortedQuestions() []Question {
	out := slices.Clone(p.Questions)
	slices.SortStableFunc(out, func(a, b Question) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return out
}

func (p *Poll) Question(id uuid.UUID) (Question, bool) {
	for _, q := range p.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// SortedOptions returns the options ordered by SortOrder, stable on ties.
func (q Question) SortedOptions() []Option {
	out := slices.Clone(q.Options)
	slices.SortStableFunc(out, func(a, b Option) int {
		return cmp.Compare(a.SortOrder, b.SortOrder)
	})
	return out
}

func (q Question) HasOption(id uuid.UUID) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// CheckOptions enforces the authoring invariants of a question: choice
// questions carry at least two options, rating and text questions carry
// none, and option sort orders are unique.
func (q Question) CheckOptions() error {
	if !q.Type.Valid() {
		return &ValidationError{QuestionID: q.ID, QuestionTitle: q.Title, Reason: fmt.Sprintf("unknown question type %q", q.Type)}
	}
	switch {
	case q.Type.IsChoice():
		if len(q.Options) < 2 {
			return &ValidationError{QuestionID: q.ID, QuestionTitle: q.Title, Reason: "at least two options are required"}
		}
	case q.Type == QuestionRanking:
		if len(q.Options) == 0 {
			return &ValidationError{QuestionID: q.ID, QuestionTitle: q.Title, Reason: "ranking questions need options to rank"}
		}
	case q.Type == QuestionRating || q.Type == QuestionText:
		if len(q.Options) > 0 {
			return &ValidationError{QuestionID: q.ID, QuestionTitle: q.Title, Reason: fmt.Sprintf("%s questions take no options", q.Type)}
		}
	}

	seen := make(map[int]struct{}, len(q.Options))
	for _, o := range q.Options {
		if !o.Type.Valid() {
			return &ValidationError{QuestionID: q.ID, QuestionTitle: q.Title, Reason: fmt.Sprintf("unknown option type %q", o.Type)}
		}
		if _, dup := seen[o.SortOrder]; dup {
			return &ValidationError{QuestionID: q.ID, QuestionTitle: q.Title, Reason: fmt.Sprintf("duplicate option sort order %d", o.SortOrder)}
		}
		seen[o.SortOrder] = struct{}{}
	}
	return nil
}
