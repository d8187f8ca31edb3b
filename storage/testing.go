package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/loganlanou/podstore/storage/db"
)

// NewTestDB creates a migrated in-memory SQLite database for testing
func NewTestDB() (*Storage, func(), error) {
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open test database: %w", err)
	}

	// every pooled connection would otherwise get its own empty database
	database.SetMaxOpenConns(1)

	if err := migrate(context.Background(), database); err != nil {
		database.Close()
		return nil, nil, err
	}

	s := &Storage{
		db:      database,
		Queries: db.New(database),
	}
	return s, func() { database.Close() }, nil
}
