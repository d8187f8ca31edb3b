package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/service"
	"github.com/loganlanou/podstore/storage"
)

// openedStore is a store backend plus whatever must be released with it.
type openedStore struct {
	store.Backend
	close func() error
}

func (o *openedStore) Close() error {
	if o.close == nil {
		return nil
	}
	return o.close()
}

func openStore(ctx context.Context, config *service.Config) (*openedStore, error) {
	switch config.Store.Backend {
	case service.BackendSQLite:
		db, err := storage.New(config.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return &openedStore{Backend: db.EntryBackend(), close: db.Close}, nil

	case service.BackendRedis:
		backend := store.NewRedisBackend(store.RedisOptions{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
			TTL:      config.Redis.TTL,
		})
		if err := backend.Ping(ctx); err != nil {
			backend.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Redis.Addr, err)
		}
		return &openedStore{Backend: backend, close: backend.Close}, nil

	default:
		slog.Warn("using in-memory store; carts are lost on restart")
		return &openedStore{Backend: store.NewMemoryBackend()}, nil
	}
}
