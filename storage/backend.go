package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/storage/db"
)

// EntryBackend persists shopper store values in the store_entries table.
type EntryBackend struct {
	queries *db.Queries
}

func (s *Storage) EntryBackend() *EntryBackend {
	return &EntryBackend{queries: s.Queries}
}

func (b *EntryBackend) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	entry, err := b.queries.GetStoreEntry(ctx, db.GetStoreEntryParams{
		SessionID: sessionID,
		Key:       key,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNoValue
	}
	if err != nil {
		return nil, fmt.Errorf("get store entry: %w", err)
	}
	return []byte(entry.Value), nil
}

func (b *EntryBackend) Set(ctx context.Context, sessionID, key string, value []byte) error {
	err := b.queries.UpsertStoreEntry(ctx, db.UpsertStoreEntryParams{
		SessionID: sessionID,
		Key:       key,
		Value:     string(value),
	})
	if err != nil {
		return fmt.Errorf("upsert store entry: %w", err)
	}
	return nil
}

func (b *EntryBackend) Delete(ctx context.Context, sessionID, key string) error {
	err := b.queries.DeleteStoreEntry(ctx, db.DeleteStoreEntryParams{
		SessionID: sessionID,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("delete store entry: %w", err)
	}
	return nil
}

// PruneBefore deletes entries not written since cutoff. updated_at holds
// CURRENT_TIMESTAMP text, so the cutoff is compared in the same UTC format.
func (b *EntryBackend) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := b.queries.DeleteStoreEntriesBefore(ctx, cutoff.UTC().Format(time.DateTime))
	if err != nil {
		return 0, fmt.Errorf("prune store entries: %w", err)
	}
	return n, nil
}

func (b *EntryBackend) SessionCount(ctx context.Context) (int64, error) {
	return b.queries.CountStoreSessions(ctx)
}
