package postgres

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

func TestAnswerEncoding(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	payloads := []domain.AnswerPayload{
		domain.OptionChoice{OptionID: a},
		domain.OptionSet{OptionIDs: []uuid.UUID{b, a}},
		domain.RankingOrder{OptionIDs: []uuid.UUID{c, a, b}},
		domain.TextValue{Text: "see you there"},
		domain.RatingValue{Value: 3},
	}
	for _, p := range payloads {
		t.Run(string(p.Kind()), func(t *testing.T) {
			rows := encodeAnswer(p)
			require.NotEmpty(t, rows)
			for i, row := range rows {
				assert.Equal(t, p.Kind(), row.kind)
				assert.Equal(t, i, row.position)
			}

			got, err := decodeAnswer(rows)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}
}

func TestDecodeAnswerRejectsIncompleteRows(t *testing.T) {
	_, err := decodeAnswer([]answerRow{{kind: domain.PayloadOption}})
	assert.Error(t, err)

	_, err = decodeAnswer([]answerRow{{kind: domain.PayloadRating}})
	assert.Error(t, err)

	_, err = decodeAnswer([]answerRow{{kind: "vote"}})
	assert.Error(t, err)
}

func TestStorageError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{"bad connection", driver.ErrBadConn, true},
		{"connection failure", &pq.Error{Code: "08006"}, true},
		{"too many connections", &pq.Error{Code: "53300"}, true},
		{"syntax error", &pq.Error{Code: "42601"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storageError("failed to get poll", tt.err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.unavailable, errors.Is(err, domain.ErrUnavailable))
		})
	}
}

func TestIsDuplicateResponse(t *testing.T) {
	assert.True(t, isDuplicateResponse(fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "responses_poll_user_key"})))
	assert.False(t, isDuplicateResponse(&pq.Error{Code: "23505", Constraint: "responses_pkey"}))
	assert.False(t, isDuplicateResponse(&pq.Error{Code: "23503", Constraint: "responses_poll_user_key"}))
	assert.False(t, isDuplicateResponse(errors.New("boom")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23503", Constraint: "responses_poll_id_fkey"})
	assert.True(t, isForeignKeyViolation(err, "responses_poll_id_fkey"))
	assert.False(t, isForeignKeyViolation(err, "answers_question_id_fkey"))
	assert.False(t, isForeignKeyViolation(&pq.Error{Code: "23505", Constraint: "responses_poll_id_fkey"}, "responses_poll_id_fkey"))
}
