package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vncsmyrnk/survey/internal/core/domain"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}
	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// setupDB starts a migrated database that lives for the duration of t.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	container, dsn, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, applyMigrations(db))
	return db
}

var baseTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func insertUser(t *testing.T, db *sql.DB, name string, role domain.Role, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(
		`INSERT INTO users (id, email, name, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, strings.ToLower(name)+"@example.com", name, role, createdAt,
	)
	require.NoError(t, err)
	return id
}

func option(questionID uuid.UUID, label string, sortOrder int) domain.Option {
	return domain.Option{
		ID:          uuid.New(),
		QuestionID:  questionID,
		Type:        domain.OptionText,
		TextContent: label,
		SortOrder:   sortOrder,
	}
}

// surveyPoll has a single choice, a multiple choice, a rating, a text and
// a ranking question, stored out of display order.
func surveyPoll(title string, createdAt time.Time) *domain.Poll {
	pollID := uuid.New()
	q := func(typ domain.QuestionType, title string, sortOrder int, labels ...string) domain.Question {
		question := domain.Question{
			ID:         uuid.New(),
			PollID:     pollID,
			Type:       typ,
			Title:      title,
			IsRequired: true,
			SortOrder:  sortOrder,
		}
		for i, l := range labels {
			question.Options = append(question.Options, option(question.ID, l, i))
		}
		return question
	}

	return &domain.Poll{
		ID:             pollID,
		Title:          title,
		Description:    "Quarterly planning",
		IsActive:       true,
		AllowAnonymous: true,
		IdentifyVoters: true,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
		Questions: []domain.Question{
			q(domain.QuestionText, "Anything else?", 3),
			q(domain.QuestionSingleChoice, "City", 0, "Lisbon", "Porto"),
			q(domain.QuestionMultipleChoice, "Activities", 1, "Hiking", "Surf", "Museums"),
			q(domain.QuestionRating, "Venue", 2),
			q(domain.QuestionRanking, "Dates", 4, "May", "June", "July"),
		},
	}
}

func questionByTitle(t *testing.T, p *domain.Poll, title string) domain.Question {
	t.Helper()
	for _, q := range p.Questions {
		if q.Title == title {
			return q
		}
	}
	t.Fatalf("question %q not found", title)
	return domain.Question{}
}
