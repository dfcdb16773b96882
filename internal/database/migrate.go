package database

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationLockID int64 = 20260217

// Executor is the subset of a single pgx connection used to run migrations.
// The advisory lock is session scoped, so every statement must share one session.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Executor = (*pgxpool.Conn)(nil)

// MigratePool runs Migrate on one connection held for the whole run.
func MigratePool(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "database: acquire migration connection")
	}
	defer conn.Release()

	return Migrate(ctx, conn)
}

// Migrate applies every embedded SQL migration that has not been recorded yet,
// in lexicographic file order.
func Migrate(ctx context.Context, db Executor) ([]string, error) {
	log := zap.L().With(zap.String("component", "database.migrate"))

	if _, err := db.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return nil, eris.Wrap(err, "database: acquire migration lock")
	}
	defer func() {
		if _, err := db.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			log.Warn("failed to release migration lock", zap.Error(err))
		}
	}()

	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename   TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return nil, eris.Wrap(err, "database: ensure migration table")
	}

	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, eris.Wrap(err, "database: read migration dir")
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, entry := range entries {
		name := entry.Name()
		if applied[name] {
			continue
		}

		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return ran, eris.Wrapf(err, "database: read migration %s", name)
		}
		if _, err := db.Exec(ctx, string(data)); err != nil {
			return ran, eris.Wrapf(err, "database: apply migration %s", name)
		}
		if _, err := db.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", name); err != nil {
			return ran, eris.Wrapf(err, "database: record migration %s", name)
		}

		log.Info("migration applied", zap.String("file", name))
		ran = append(ran, name)
	}

	return ran, nil
}

func appliedMigrations(ctx context.Context, db Executor) (map[string]bool, error) {
	rows, err := db.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, eris.Wrap(err, "database: query applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "database: scan migration row")
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "database: iterate migration rows")
	}
	return applied, nil
}
