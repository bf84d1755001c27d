package storage

import (
	"context"
	"embed"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// NewPool builds a pgx pool and validates connectivity.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "storage.NewPool ParseConfig")
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, errors.Wrap(err, "storage.NewPool")
	}

	if err := ping(ctx, pool, 3*time.Second); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "storage.NewPool ping")
	}

	return pool, nil
}

// Migrate runs the embedded goose migrations against the pool's database.
func Migrate(pool *pgxpool.Pool) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "storage.Migrate SetDialect")
	}
	goose.SetBaseFS(embedMigrations)

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "storage.Migrate goose up")
	}
	return nil
}

func ping(parent context.Context, pool *pgxpool.Pool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	conn.Release()
	return nil
}
