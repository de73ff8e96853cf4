package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
)

// Open connects to the database at dsn and checks that it answers.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, storageError("failed to reach database", err)
	}
	return db, nil
}
