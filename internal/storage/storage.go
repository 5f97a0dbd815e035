// Package storage builds the configured notes.Persister.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"example.com/notes-registry/internal/config"
	"example.com/notes-registry/internal/db"
	"example.com/notes-registry/internal/notes"
	"example.com/notes-registry/internal/storage/file"
	"example.com/notes-registry/internal/storage/memory"
	"example.com/notes-registry/internal/storage/postgres"
	"example.com/notes-registry/internal/storage/s3store"
)

// Open returns the persister selected by cfg.Backend and a function that
// releases its resources.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (notes.Persister, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory storage; notes are lost on exit")
		return memory.New(), noop, nil

	case config.BackendPostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL, db.PoolOptions{
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		p, err := postgres.New(ctx, conn.SQL)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		log.Info("using postgres storage")
		return p, func() error {
			_ = p.Close()
			return conn.Close()
		}, nil

	case config.BackendS3:
		p, err := s3store.New(ctx, s3store.Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			Key:             cfg.S3.Key,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("using s3 storage", "bucket", cfg.S3.Bucket, "key", cfg.S3.Key)
		return p, noop, nil

	case config.BackendFile:
		log.Info("using file storage", "path", cfg.NotesFile)
		return file.New(cfg.NotesFile), noop, nil
	}

	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
