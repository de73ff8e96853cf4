package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

type responseRepository struct {
	db *sql.DB
}

func NewResponseRepository(db *sql.DB) ports.ResponseRepository {
	return &responseRepository{
		db: db,
	}
}

type answerRow struct {
	kind         domain.PayloadKind
	position     int
	optionID     *uuid.UUID
	textValue    *string
	numericValue *float64
}

func (r *responseRepository) Save(ctx context.Context, response *domain.Response) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var anonymousID *string
	if response.Voter.IsAnonymous() {
		anonymousID = &response.Voter.AnonymousID
	}

	queryResponse := `
		INSERT INTO responses (id, poll_id, user_id, anonymous_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = tx.ExecContext(ctx, queryResponse, response.ID, response.PollID, response.Voter.UserID, anonymousID, response.CreatedAt)
	if err != nil {
		if isDuplicateResponse(err) {
			return domain.ErrAlreadyVoted
		}
		if isForeignKeyViolation(err, "responses_poll_id_fkey") {
			return domain.ErrPollNotFound
		}
		return storageError("failed to insert response", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO answers (response_id, question_id, kind, position, option_id, text_value, numeric_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return storageError("failed to prepare answer statement", err)
	}
	defer stmt.Close()

	for _, answer := range response.Answers {
		for _, row := range encodeAnswer(answer.Payload) {
			_, err := stmt.ExecContext(ctx, response.ID, answer.QuestionID, row.kind, row.position, row.optionID, row.textValue, row.numericValue)
			if err != nil {
				return storageError("failed to insert answer", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		if isDuplicateResponse(err) {
			return domain.ErrAlreadyVoted
		}
		return storageError("failed to commit transaction", err)
	}
	return nil
}

func (r *responseRepository) HasResponded(ctx context.Context, pollID uuid.UUID, voter domain.VoterIdentity) (bool, error) {
	query := `SELECT 1 FROM responses WHERE poll_id = $1 AND user_id = $2 LIMIT 1`
	var arg any = voter.UserID
	if voter.IsAnonymous() {
		query = `SELECT 1 FROM responses WHERE poll_id = $1 AND anonymous_id = $2 LIMIT 1`
		arg = voter.AnonymousID
	}

	var exists int
	err := r.db.QueryRowContext(ctx, query, pollID, arg).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, storageError("failed to check existing response", err)
	}
	return true, nil
}

func (r *responseRepository) CountByPoll(ctx context.Context, pollID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses WHERE poll_id = $1`, pollID).Scan(&count)
	if err != nil {
		return 0, storageError("failed to count responses", err)
	}
	return count, nil
}

// ListByPoll returns every response of the poll in submission order.
func (r *responseRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, poll_id, user_id, anonymous_id, created_at
		FROM responses
		WHERE poll_id = $1
		ORDER BY created_at, id
	`, pollID)
	if err != nil {
		return nil, storageError("failed to list responses", err)
	}
	defer rows.Close()

	responses := []domain.Response{}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			resp        domain.Response
			anonymousID sql.NullString
		)
		if err := rows.Scan(&resp.ID, &resp.PollID, &resp.Voter.UserID, &anonymousID, &resp.CreatedAt); err != nil {
			return nil, storageError("failed to scan response", err)
		}
		resp.Voter.AnonymousID = anonymousID.String
		index[resp.ID] = len(responses)
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating responses", err)
	}
	if len(responses) == 0 {
		return responses, nil
	}

	answerRows, err := r.db.QueryContext(ctx, `
		SELECT a.response_id, a.question_id, a.kind, a.position, a.option_id, a.text_value, a.numeric_value
		FROM answers a
		JOIN responses r ON r.id = a.response_id
		JOIN questions q ON q.id = a.question_id
		WHERE r.poll_id = $1
		ORDER BY a.response_id, q.sort_order, q.position, a.position
	`, pollID)
	if err != nil {
		return nil, storageError("failed to list answers", err)
	}
	defer answerRows.Close()

	type key struct{ response, question uuid.UUID }
	grouped := make(map[key][]answerRow)
	var order []key
	for answerRows.Next() {
		var (
			k   key
			row answerRow
		)
		if err := answerRows.Scan(&k.response, &k.question, &row.kind, &row.position, &row.optionID, &row.textValue, &row.numericValue); err != nil {
			return nil, storageError("failed to scan answer", err)
		}
		if _, ok := grouped[k]; !ok {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], row)
	}
	if err := answerRows.Err(); err != nil {
		return nil, storageError("error iterating answers", err)
	}

	for _, k := range order {
		i, ok := index[k.response]
		if !ok {
			continue
		}
		payload, err := decodeAnswer(grouped[k])
		if err != nil {
			return nil, fmt.Errorf("response %s question %s: %w", k.response, k.question, err)
		}
		responses[i].Answers = append(responses[i].Answers, domain.Answer{QuestionID: k.question, Payload: payload})
	}
	return responses, nil
}

func encodeAnswer(payload domain.AnswerPayload) []answerRow {
	switch p := payload.(type) {
	case domain.OptionChoice:
		return []answerRow{{kind: p.Kind(), optionID: &p.OptionID}}
	case domain.OptionSet:
		return optionRows(p.Kind(), p.OptionIDs)
	case domain.RankingOrder:
		return optionRows(p.Kind(), p.OptionIDs)
	case domain.TextValue:
		return []answerRow{{kind: p.Kind(), textValue: &p.Text}}
	case domain.RatingValue:
		return []answerRow{{kind: p.Kind(), numericValue: &p.Value}}
	default:
		return nil
	}
}

func optionRows(kind domain.PayloadKind, ids []uuid.UUID) []answerRow {
	rows := make([]answerRow, len(ids))
	for i := range ids {
		rows[i] = answerRow{kind: kind, position: i, optionID: &ids[i]}
	}
	return rows
}

func decodeAnswer(rows []answerRow) (domain.AnswerPayload, error) {
	first := rows[0]
	switch first.kind {
	case domain.PayloadOption:
		if first.optionID == nil {
			return nil, errors.New("option answer without option")
		}
		return domain.OptionChoice{OptionID: *first.optionID}, nil
	case domain.PayloadOptions, domain.PayloadRanking:
		ids := make([]uuid.UUID, 0, len(rows))
		for _, row := range rows {
			if row.optionID != nil {
				ids = append(ids, *row.optionID)
			}
		}
		if first.kind == domain.PayloadRanking {
			return domain.RankingOrder{OptionIDs: ids}, nil
		}
		return domain.OptionSet{OptionIDs: ids}, nil
	case domain.PayloadText:
		if first.textValue == nil {
			return domain.TextValue{}, nil
		}
		return domain.TextValue{Text: *first.textValue}, nil
	case domain.PayloadRating:
		if first.numericValue == nil {
			return nil, errors.New("rating answer without value")
		}
		return domain.RatingValue{Value: *first.numericValue}, nil
	default:
		return nil, fmt.Errorf("unknown answer kind %q", first.kind)
	}
}

func isDuplicateResponse(err error) bool {
	if !isUniqueViolation(err) {
		return false
	}
	var pqErr *pq.Error
	errors.As(err, &pqErr)
	return strings.HasPrefix(pqErr.Constraint, "responses_poll_")
}
