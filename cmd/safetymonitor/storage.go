package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/elum-utils/safetymonitor/adapters/storage"
	"github.com/elum-utils/safetymonitor/config"
	"github.com/elum-utils/safetymonitor/interfaces"
)

type watcher interface {
	Watch(ctx context.Context, onChange func(), onError func(error)) error
}

// openStorage builds the lexicon backend selected in cfg. The returned close
// function is always non-nil.
func openStorage(ctx context.Context, cfg config.LexiconConfig) (interfaces.Storage, func(), error) {
	noop := func() {}

	switch cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemoryAdapter(cfg.Words...), noop, nil

	case config.BackendSQLite:
		db, err := sql.Open("sqlite", cfg.SQLite.Path)
		if err != nil {
			return nil, noop, err
		}
		db.SetMaxOpenConns(1)
		a, err := storage.NewSQLAdapter(db, cfg.SQLite.Table)
		if err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		if err := a.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return a, func() { _ = db.Close() }, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a, err := storage.NewRedisAdapter(client, cfg.Redis.Key)
		if err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		if err := a.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, noop, err
		}
		return a, func() { _ = client.Close() }, nil

	case config.BackendFile:
		a, err := storage.NewFileAdapter(cfg.File.Path)
		if err != nil {
			return nil, noop, err
		}
		return a, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown lexicon backend %q", cfg.Backend)
	}
}
