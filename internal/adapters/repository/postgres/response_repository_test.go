package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

func TestResponseRepository(t *testing.T) {
	db := setupDB(t)
	polls := NewPollRepository(db)
	repo := NewResponseRepository(db)
	ctx := context.Background()

	poll := surveyPoll("Team offsite", baseTime)
	require.NoError(t, polls.Save(ctx, poll))
	userID := insertUser(t, db, "Bruno", domain.RoleUser, baseTime)

	city := questionByTitle(t, poll, "City")
	activities := questionByTitle(t, poll, "Activities")
	venue := questionByTitle(t, poll, "Venue")
	notes := questionByTitle(t, poll, "Anything else?")
	dates := questionByTitle(t, poll, "Dates")

	full := &domain.Response{
		ID:     uuid.New(),
		PollID: poll.ID,
		Voter:  domain.UserVoter(userID),
		Answers: []domain.Answer{
			{QuestionID: city.ID, Payload: domain.OptionChoice{OptionID: city.Options[1].ID}},
			{QuestionID: activities.ID, Payload: domain.OptionSet{OptionIDs: []uuid.UUID{activities.Options[2].ID, activities.Options[0].ID}}},
			{QuestionID: venue.ID, Payload: domain.RatingValue{Value: 4}},
			{QuestionID: notes.ID, Payload: domain.TextValue{Text: "Bring sunscreen"}},
			{QuestionID: dates.ID, Payload: domain.RankingOrder{OptionIDs: []uuid.UUID{dates.Options[2].ID, dates.Options[0].ID, dates.Options[1].ID}}},
		},
		CreatedAt: baseTime,
	}
	anonymous := &domain.Response{
		ID:     uuid.New(),
		PollID: poll.ID,
		Voter:  domain.AnonymousVoter("browser-1"),
		Answers: []domain.Answer{
			{QuestionID: city.ID, Payload: domain.OptionChoice{OptionID: city.Options[0].ID}},
		},
		CreatedAt: baseTime.Add(time.Second),
	}

	t.Run("save", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, full))
		require.NoError(t, repo.Save(ctx, anonymous))

		count, err := repo.CountByPoll(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("has responded", func(t *testing.T) {
		tests := []struct {
			name  string
			voter domain.VoterIdentity
			want  bool
		}{
			{"user", domain.UserVoter(userID), true},
			{"anonymous", domain.AnonymousVoter("browser-1"), true},
			{"other user", domain.UserVoter(uuid.New()), false},
			{"other browser", domain.AnonymousVoter("browser-2"), false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.HasResponded(ctx, poll.ID, tt.voter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("second response of a voter is rejected", func(t *testing.T) {
		again := *anonymous
		again.ID = uuid.New()
		assert.ErrorIs(t, repo.Save(ctx, &again), domain.ErrAlreadyVoted)

		againUser := *full
		againUser.ID = uuid.New()
		assert.ErrorIs(t, repo.Save(ctx, &againUser), domain.ErrAlreadyVoted)

		count, err := repo.CountByPoll(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("list decodes every payload", func(t *testing.T) {
		responses, err := repo.ListByPoll(ctx, poll.ID)
		require.NoError(t, err)
		require.Len(t, responses, 2)

		got := responses[0]
		assert.Equal(t, full.ID, got.ID)
		require.NotNil(t, got.Voter.UserID)
		assert.Equal(t, userID, *got.Voter.UserID)
		assert.Empty(t, got.Voter.AnonymousID)
		require.Len(t, got.Answers, len(full.Answers))
		for _, want := range full.Answers {
			ans, ok := got.Answer(want.QuestionID)
			require.True(t, ok)
			assert.Equal(t, want.Payload, ans.Payload)
		}

		assert.Equal(t, domain.AnonymousVoter("browser-1"), responses[1].Voter)
		require.Len(t, responses[1].Answers, 1)
	})

	t.Run("answers come back in display order", func(t *testing.T) {
		responses, err := repo.ListByPoll(ctx, poll.ID)
		require.NoError(t, err)

		var got []uuid.UUID
		for _, a := range responses[0].Answers {
			got = append(got, a.QuestionID)
		}
		assert.Equal(t, []uuid.UUID{city.ID, activities.ID, venue.ID, notes.ID, dates.ID}, got)
	})

	t.Run("voter without a local account", func(t *testing.T) {
		stranger := domain.UserVoter(uuid.New())
		response := &domain.Response{
			ID:     uuid.New(),
			PollID: poll.ID,
			Voter:  stranger,
			Answers: []domain.Answer{
				{QuestionID: city.ID, Payload: domain.OptionChoice{OptionID: city.Options[0].ID}},
			},
			CreatedAt: baseTime.Add(2 * time.Second),
		}
		require.NoError(t, repo.Save(ctx, response))

		voted, err := repo.HasResponded(ctx, poll.ID, stranger)
		require.NoError(t, err)
		assert.True(t, voted)
	})

	t.Run("poll deleted before saving", func(t *testing.T) {
		response := &domain.Response{
			ID:        uuid.New(),
			PollID:    uuid.New(),
			Voter:     domain.AnonymousVoter("browser-3"),
			CreatedAt: baseTime,
		}
		assert.ErrorIs(t, repo.Save(ctx, response), domain.ErrPollNotFound)
	})

	t.Run("list of a poll without responses", func(t *testing.T) {
		responses, err := repo.ListByPoll(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, responses)
	})
}
