// Package migrations embeds the goose SQL migrations and applies them to a
// database/sql handle.
package migrations

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"

	"socialgraph/internal/errors"
)

//go:embed *.sql
var Migrations embed.FS

const dialect = "postgres"

func setup() error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}

	return nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "apply migrations")
	}

	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "roll back migration")
	}

	return nil
}

// Status logs the applied state of every migration.
func Status(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, db, "."); err != nil {
		return errors.Wrap(err, "migration status")
	}

	return nil
}
