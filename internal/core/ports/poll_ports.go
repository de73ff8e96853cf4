package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	// Update stores the poll fields; the question set is rewritten only
	// when replaceQuestions is true.
	Update(ctx context.Context, poll *domain.Poll, replaceQuestions bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListActive(ctx context.Context) ([]domain.Poll, error)
	Search(ctx context.Context, filter PollFilter) ([]domain.Poll, error)
}

type ActiveFilter string

const (
	ActiveFilterAll      ActiveFilter = "all"
	ActiveFilterActive   ActiveFilter = "active"
	ActiveFilterInactive ActiveFilter = "inactive"
)

type PollFilter struct {
	Search    string
	Active    ActiveFilter
	StartDate *time.Time
	EndDate   *time.Time
}

type CreateOptionInput struct {
	Type         domain.OptionType `json:"type"`
	TextContent  string            `json:"text_content"`
	ImageURL     string            `json:"image_url"`
	NumericValue *float64          `json:"numeric_value"`
	SortOrder    *int              `json:"sort_order"`
	Weight       *float64          `json:"weight"`
}

type CreateQuestionInput struct {
	Type          domain.QuestionType `json:"type"`
	Title         string              `json:"title"`
	IsRequired    *bool               `json:"is_required"`
	AllowMultiple *bool               `json:"allow_multiple"`
	SortOrder     *int                `json:"sort_order"`
	Options       []CreateOptionInput `json:"options"`
}

type CreatePollInput struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	IsActive       *bool                 `json:"is_active"`
	StartsAt       *time.Time            `json:"starts_at"`
	EndsAt         *time.Time            `json:"ends_at"`
	AllowAnonymous *bool                 `json:"allow_anonymous"`
	IdentifyVoters *bool                 `json:"identify_voters"`
	Questions      []CreateQuestionInput `json:"questions"`
}

// UpdatePollInput changes only the fields that are set. Questions replace
// the whole question set and are ignored once the poll has responses.
type UpdatePollInput struct {
	Title          *string               `json:"title"`
	Description    *string               `json:"description"`
	IsActive       *bool                 `json:"is_active"`
	StartsAt       *time.Time            `json:"starts_at"`
	EndsAt         *time.Time            `json:"ends_at"`
	AllowAnonymous *bool                 `json:"allow_anonymous"`
	IdentifyVoters *bool                 `json:"identify_voters"`
	Questions      []CreateQuestionInput `json:"questions"`
}

type PollDetail struct {
	domain.Poll
	Status   domain.Status `json:"status"`
	HasVoted bool          `json:"has_voted"`
}

type PollService interface {
	Create(ctx context.Context, createdBy *uuid.UUID, input CreatePollInput) (*domain.Poll, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePollInput) (*domain.Poll, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetPoll(ctx context.Context, id string, voter *domain.VoterIdentity) (*PollDetail, error)
	GetForAdmin(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListActive(ctx context.Context) ([]domain.Poll, error)
	ListForAdmin(ctx context.Context, filter PollFilter) ([]domain.Poll, error)
}
