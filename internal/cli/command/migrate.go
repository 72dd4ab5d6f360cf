package command

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/liftlog/liftlog-go/internal/server/config"
	"github.com/liftlog/liftlog-go/internal/storage/postgres"
)

// ErrMemoryStore is returned by migrate commands run against memory://.
var ErrMemoryStore = errors.New("the in-memory store has no schema to migrate")

// MigrateCommand returns the migrate subcommand group.
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Database schema migrations",
		Subcommands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: migrateAction(postgres.Migrate),
			},
			{
				Name:   "down",
				Usage:  "Roll back the most recent migration",
				Action: migrateAction(postgres.MigrateDown),
			},
			{
				Name:   "status",
				Usage:  "Show the state of every migration",
				Action: migrateAction(postgres.MigrationStatus),
			},
		},
	}
}

func migrateAction(run func(context.Context, *sql.DB) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(newLoader(c))
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if config.IsMemoryURL(cfg.Database.URL) {
			return ErrMemoryStore
		}

		db, err := postgres.Open(c.Context, postgres.Config{
			URL:            cfg.Database.URL,
			MaxOpenConns:   1,
			MaxIdleConns:   1,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		})
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		return run(c.Context, db)
	}
}
