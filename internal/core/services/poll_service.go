package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type pollService struct {
	repo         ports.PollRepository
	responseRepo ports.ResponseRepository
	cache        ports.ResultsCache
	log          *logrus.Entry
	now          func() time.Time
}

func NewPollService(repo ports.PollRepository, responseRepo ports.ResponseRepository, cache ports.ResultsCache, log *logrus.Entry) ports.PollService {
	return &pollService{
		repo:         repo,
		responseRepo: responseRepo,
		cache:        cache,
		log:          log.WithField("component", "poll"),
		now:          time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, createdBy *uuid.UUID, input ports.CreatePollInput) (*domain.Poll, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	pollID := uuid.New()
	now := s.now()

	questions, err := buildQuestions(pollID, input.Questions)
	if err != nil {
		return nil, err
	}

	poll := &domain.Poll{
		ID:             pollID,
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		IsActive:       boolOr(input.IsActive, true),
		StartsAt:       input.StartsAt,
		EndsAt:         input.EndsAt,
		AllowAnonymous: boolOr(input.AllowAnonymous, true),
		IdentifyVoters: boolOr(input.IdentifyVoters, true),
		CreatedByID:    createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
		Questions:      questions,
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"poll_id":   poll.ID,
		"questions": len(poll.Questions),
	}).Info("poll created")
	return poll, nil
}

func (s *pollService) Update(ctx context.Context, id uuid.UUID, input ports.UpdatePollInput) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.ErrTitleRequired
		}
		poll.Title = title
	}
	if input.Description != nil {
		poll.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsActive != nil {
		poll.IsActive = *input.IsActive
	}
	if input.StartsAt != nil {
		poll.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		poll.EndsAt = input.EndsAt
	}
	if input.AllowAnonymous != nil {
		poll.AllowAnonymous = *input.AllowAnonymous
	}
	if input.IdentifyVoters != nil {
		poll.IdentifyVoters = *input.IdentifyVoters
	}

	replace := false
	if input.Questions != nil {
		responses, err := s.responseRepo.CountByPoll(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		if responses == 0 {
			questions, err := buildQuestions(poll.ID, input.Questions)
			if err != nil {
				return nil, err
			}
			poll.Questions = questions
			replace = true
		} else {
			s.log.WithFields(logrus.Fields{
				"poll_id":   poll.ID,
				"responses": responses,
			}).Info("poll already has responses, questions left unchanged")
		}
	}

	poll.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, poll, replace); err != nil {
		return nil, err
	}

	invalidateResults(ctx, s.cache, s.log, poll.ID)
	return poll, nil
}

func (s *pollService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidateResults(ctx, s.cache, s.log, id)
	s.log.WithField("poll_id", id).Info("poll deleted")
	return nil
}

func (s *pollService) GetPoll(ctx context.Context, id string, voter *domain.VoterIdentity) (*ports.PollDetail, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	detail := &ports.PollDetail{
		Poll:   *poll,
		Status: poll.StatusAt(s.now()),
	}
	detail.Questions = poll.SortedQuestions()
	for i := range detail.Questions {
		detail.Questions[i].Options = detail.Questions[i].SortedOptions()
	}

	if voter != nil && voter.Validate() == nil {
		detail.HasVoted, err = s.responseRepo.HasResponded(ctx, poll.ID, *voter)
		if err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *pollService) GetForAdmin(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return s.repo.GetByID(ctx, id)
}

// ListActive returns the polls open for voting now. The repository narrows
// by flag and window; the clock here has the final say.
func (s *pollService) ListActive(ctx context.Context) ([]domain.Poll, error) {
	polls, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return domain.OpenPolls(polls, s.now()), nil
}

func (s *pollService) ListForAdmin(ctx context.Context, filter ports.PollFilter) ([]domain.Poll, error) {
	switch filter.Active {
	case "":
		filter.Active = ports.ActiveFilterAll
	case ports.ActiveFilterAll, ports.ActiveFilterActive, ports.ActiveFilterInactive:
	default:
		return nil, fmt.Errorf("%w: unknown status filter %q", domain.ErrValidationRejected, filter.Active)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.Search(ctx, filter)
}

func buildQuestions(pollID uuid.UUID, inputs []ports.CreateQuestionInput) ([]domain.Question, error) {
	questions := make([]domain.Question, 0, len(inputs))
	for i, in := range inputs {
		q := domain.Question{
			ID:            uuid.New(),
			PollID:        pollID,
			Type:          in.Type,
			Title:         strings.TrimSpace(in.Title),
			IsRequired:    boolOr(in.IsRequired, true),
			AllowMultiple: boolOr(in.AllowMultiple, in.Type == domain.QuestionMultipleChoice),
			SortOrder:     intOr(in.SortOrder, i),
		}
		if q.Title == "" {
			return nil, &domain.ValidationError{QuestionID: q.ID, Reason: fmt.Sprintf("question %d needs a title", i+1)}
		}
		for j, o := range in.Options {
			q.Options = append(q.Options, domain.Option{
				ID:           uuid.New(),
				QuestionID:   q.ID,
				Type:         optionType(o),
				TextContent:  strings.TrimSpace(o.TextContent),
				ImageURL:     strings.TrimSpace(o.ImageURL),
				NumericValue: o.NumericValue,
				SortOrder:    intOr(o.SortOrder, j),
				Weight:       o.Weight,
			})
		}
		if err := q.CheckOptions(); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// optionType falls back to the kind implied by the populated content.
func optionType(in ports.CreateOptionInput) domain.OptionType {
	switch {
	case in.Type != "":
		return in.Type
	case strings.TrimSpace(in.ImageURL) != "":
		return domain.OptionImage
	case in.NumericValue != nil:
		return domain.OptionNumeric
	default:
		return domain.OptionText
	}
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
