package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/survey/internal/core/domain"
	"github.com/vncsmyrnk/survey/internal/core/ports"
)

const pollColumns = `id, title, description, is_active, starts_at, ends_at,
	allow_anonymous, identify_voters, created_by, created_at, updated_at`

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{
		db: db,
	}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO polls (` + pollColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.Title, poll.Description, poll.IsActive, poll.StartsAt, poll.EndsAt,
		poll.AllowAnonymous, poll.IdentifyVoters, poll.CreatedByID, poll.CreatedAt, poll.UpdatedAt,
	)
	if err != nil {
		return storageError("failed to insert poll", err)
	}

	if err := insertQuestions(ctx, tx, poll.Questions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageError("failed to commit transaction", err)
	}
	return nil
}

func (r *pollRepository) Update(ctx context.Context, poll *domain.Poll, replaceQuestions bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE polls
		SET title = $2, description = $3, is_active = $4, starts_at = $5, ends_at = $6,
			allow_anonymous = $7, identify_voters = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, query,
		poll.ID, poll.Title, poll.Description, poll.IsActive, poll.StartsAt, poll.EndsAt,
		poll.AllowAnonymous, poll.IdentifyVoters, poll.UpdatedAt,
	)
	if err != nil {
		return storageError("failed to update poll", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrPollNotFound
	}

	if replaceQuestions {
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE poll_id = $1`, poll.ID); err != nil {
			return storageError("failed to delete questions", err)
		}
		if err := insertQuestions(ctx, tx, poll.Questions); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("failed to commit transaction", err)
	}
	return nil
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return storageError("failed to delete poll", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1`

	poll, err := scanPoll(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, storageError("failed to get poll", err)
	}

	questions, err := r.fetchQuestions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Questions = questions

	return poll, nil
}

// ListActive returns the polls flagged active whose window contains the
// current time, newest first, without their questions.
func (r *pollRepository) ListActive(ctx context.Context) ([]domain.Poll, error) {
	query := `SELECT ` + pollColumns + ` FROM polls
		WHERE is_active
			AND (starts_at IS NULL OR starts_at <= NOW())
			AND (ends_at IS NULL OR ends_at >= NOW())
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageError("failed to list active polls", err)
	}
	defer rows.Close()

	return scanPolls(rows)
}

// Search returns the polls matching filter, newest first, without their
// questions.
func (r *pollRepository) Search(ctx context.Context, filter ports.PollFilter) ([]domain.Poll, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		conds = append(conds, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", p, p))
	}
	switch filter.Active {
	case ports.ActiveFilterActive:
		conds = append(conds, "is_active")
	case ports.ActiveFilterInactive:
		conds = append(conds, "NOT is_active")
	}
	if filter.StartDate != nil {
		conds = append(conds, fmt.Sprintf("(starts_at IS NULL OR starts_at >= %s)", arg(*filter.StartDate)))
	}
	if filter.EndDate != nil {
		conds = append(conds, fmt.Sprintf("(ends_at IS NULL OR ends_at <= %s)", arg(*filter.EndDate)))
	}

	query := `SELECT ` + pollColumns + ` FROM polls`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to search polls", err)
	}
	defer rows.Close()

	return scanPolls(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*domain.Poll, error) {
	var poll domain.Poll
	err := row.Scan(
		&poll.ID, &poll.Title, &poll.Description, &poll.IsActive, &poll.StartsAt, &poll.EndsAt,
		&poll.AllowAnonymous, &poll.IdentifyVoters, &poll.CreatedByID, &poll.CreatedAt, &poll.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func scanPolls(rows *sql.Rows) ([]domain.Poll, error) {
	polls := []domain.Poll{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, storageError("failed to scan poll", err)
		}
		polls = append(polls, *poll)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating polls", err)
	}
	return polls, nil
}

func (r *pollRepository) fetchQuestions(ctx context.Context, pollID uuid.UUID) ([]domain.Question, error) {
	queryQuestions := `
		SELECT id, poll_id, type, title, is_required, allow_multiple, sort_order
		FROM questions
		WHERE poll_id = $1
		ORDER BY sort_order, position
	`
	rows, err := r.db.QueryContext(ctx, queryQuestions, pollID)
	if err != nil {
		return nil, storageError("failed to get questions", err)
	}
	defer rows.Close()

	var questions []domain.Question
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.PollID, &q.Type, &q.Title, &q.IsRequired, &q.AllowMultiple, &q.SortOrder); err != nil {
			return nil, storageError("failed to scan question", err)
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating questions", err)
	}
	if len(questions) == 0 {
		return questions, nil
	}

	queryOptions := `
		SELECT o.id, o.question_id, o.type, o.text_content, o.image_url, o.numeric_value, o.sort_order, o.weight
		FROM options o
		JOIN questions q ON q.id = o.question_id
		WHERE q.poll_id = $1
		ORDER BY o.sort_order
	`
	optRows, err := r.db.QueryContext(ctx, queryOptions, pollID)
	if err != nil {
		return nil, storageError("failed to get options", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var o domain.Option
		if err := optRows.Scan(&o.ID, &o.QuestionID, &o.Type, &o.TextContent, &o.ImageURL, &o.NumericValue, &o.SortOrder, &o.Weight); err != nil {
			return nil, storageError("failed to scan option", err)
		}
		if i, ok := index[o.QuestionID]; ok {
			questions[i].Options = append(questions[i].Options, o)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, storageError("error iterating options", err)
	}
	return questions, nil
}

func insertQuestions(ctx context.Context, tx *sql.Tx, questions []domain.Question) error {
	if len(questions) == 0 {
		return nil
	}

	questionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (id, poll_id, type, title, is_required, allow_multiple, sort_order, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return storageError("failed to prepare question statement", err)
	}
	defer questionStmt.Close()

	optionStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO options (id, question_id, type, text_content, image_url, numeric_value, sort_order, weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return storageError("failed to prepare option statement", err)
	}
	defer optionStmt.Close()

	// position keeps the authoring order, which breaks sort_order ties.
	for i, q := range questions {
		_, err := questionStmt.ExecContext(ctx, q.ID, q.PollID, q.Type, q.Title, q.IsRequired, q.AllowMultiple, q.SortOrder, i)
		if err != nil {
			return storageError("failed to insert question", err)
		}
		for _, o := range q.Options {
			_, err := optionStmt.ExecContext(ctx, o.ID, o.QuestionID, o.Type, o.TextContent, o.ImageURL, o.NumericValue, o.SortOrder, o.Weight)
			if err != nil {
				return storageError("failed to insert option", err)
			}
		}
	}
	return nil
}
