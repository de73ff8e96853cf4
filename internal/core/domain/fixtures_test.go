package domain

import (
	"time"

	"github.com/google/uuid"
)

func textOptions(questionID uuid.UUID, labels ...string) []Option {
	opts := make([]Option, len(labels))
	for i, l := range labels {
		opts[i] = Option{
			ID:          uuid.New(),
			QuestionID:  questionID,
			Type:        OptionText,
			TextContent: l,
			SortOrder:   i,
		}
	}
	return opts
}

func newQuestion(t QuestionType, title string, sortOrder int, labels ...string) Question {
	q := Question{
		ID:         uuid.New(),
		Type:       t,
		Title:      title,
		IsRequired: true,
		SortOrder:  sortOrder,
	}
	q.Options = textOptions(q.ID, labels...)
	return q
}

func newPoll(questions ...Question) *Poll {
	p := &Poll{
		ID:             uuid.New(),
		Title:          "Team offsite",
		IsActive:       true,
		AllowAnonymous: true,
		IdentifyVoters: true,
		CreatedAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	for i := range questions {
		questions[i].PollID = p.ID
	}
	p.Questions = questions
	return p
}

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func idPtr(id uuid.UUID) *uuid.UUID { return &id }
