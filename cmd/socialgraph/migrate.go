package main

import (
	"context"
	"database/sql"

	"socialgraph/internal/errors"
	"socialgraph/internal/infra/persistence/migrations"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"github.com/spf13/cobra"
)

type migrateFunc func(ctx context.Context, db *sql.DB) error

// NewMigrateCmd creates the migrate subcommand and its up/down/status children.
func NewMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	cmd.AddCommand(
		newMigrateStepCmd(opts, "up", "Apply all pending migrations", migrations.Up),
		newMigrateStepCmd(opts, "down", "Roll back the most recent migration", migrations.Down),
		newMigrateStepCmd(opts, "status", "Show the state of every migration", migrations.Status),
	)

	return cmd
}

func newMigrateStepCmd(opts *rootOptions, use, short string, run migrateFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			cmd.Println("Connecting to database...")
			db, err := pgLib.New(cfg.Postgres)
			if err != nil {
				return errors.Wrap(err, "connect to database")
			}
			sqlDB, err := db.DB()
			if err != nil {
				return errors.Wrap(err, "get sql.DB")
			}
			defer sqlDB.Close()

			if err := run(cmd.Context(), sqlDB); err != nil {
				return err
			}

			cmd.Printf("migrate %s completed\n", use)

			return nil
		},
	}
}
