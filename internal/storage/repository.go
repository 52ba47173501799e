package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"billpay/internal/core"

	_ "modernc.org/sqlite"
)

var ErrUnknownKind = errors.New("unknown option kind")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListOptions implements sheets.OptionsReader
func (r *SQLiteRepository) ListOptions(ctx context.Context) (core.Options, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, value, label, hint FROM options ORDER BY kind, position, id`)
	if err != nil {
		return core.Options{}, fmt.Errorf("query options: %w", err)
	}
	defer rows.Close()

	var all []core.Option
	for rows.Next() {
		var o core.Option
		var kind string
		if err := rows.Scan(&kind, &o.Value, &o.Label, &o.Hint); err != nil {
			return core.Options{}, fmt.Errorf("scan option: %w", err)
		}
		o.Kind = core.OptionKind(kind)
		all = append(all, o)
	}
	if err := rows.Err(); err != nil {
		return core.Options{}, fmt.Errorf("iterate options: %w", err)
	}

	return core.Group(all), nil
}

// UpsertOption inserts an option or updates its label and hint. New options
// are placed after the existing ones of the same kind.
func (r *SQLiteRepository) UpsertOption(ctx context.Context, o core.Option) error {
	if !o.Kind.IsValid() {
		return fmt.Errorf("upsert option %q: %w", o.Kind, ErrUnknownKind)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO options (kind, value, label, hint, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM options WHERE kind = ?))
		ON CONFLICT (kind, value) DO UPDATE SET label = excluded.label, hint = excluded.hint`,
		string(o.Kind), o.Value, o.Label, o.Hint, string(o.Kind))
	if err != nil {
		return fmt.Errorf("upsert option: %w", err)
	}

	slog.InfoContext(ctx, "Option saved to SQLite",
		"kind", o.Kind,
		"value", o.Value)
	return nil
}

// DeleteOption removes an option and reports whether it existed.
func (r *SQLiteRepository) DeleteOption(ctx context.Context, kind core.OptionKind, value string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM options WHERE kind = ? AND value = ?`, string(kind), value)
	if err != nil {
		return false, fmt.Errorf("delete option: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete option rows: %w", err)
	}
	return n > 0, nil
}
