package main

import (
	"fmt"
	"os"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-analyzer/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-analyzer/pkg/config"
	pkglogger "github.com/johnquangdev/meeting-analyzer/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var dir string
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or roll back database migrations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", database.MigrationsDir, "Directory holding sql-migrate files")

	root.AddCommand(
		newApplyCommand("up", "Apply all pending migrations", migrate.Up, &dir),
		newApplyCommand("down", "Roll back all migrations", migrate.Down, &dir),
		newStatusCommand(&dir),
	)
	return root
}

func newApplyCommand(use, short string, direction migrate.MigrationDirection, dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.NewPostgresDB(cfg, logger)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			n, err := database.Migrate(db, *dir, direction, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s) %s\n", n, use)
			return nil
		},
	}
}

func newStatusCommand(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they have been applied",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.NewPostgresDB(cfg, logger)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			source := &migrate.FileMigrationSource{Dir: *dir}
			all, err := source.FindMigrations()
			if err != nil {
				return fmt.Errorf("read migrations: %w", err)
			}
			records, err := migrate.GetMigrationRecords(sqlDB, "postgres")
			if err != nil {
				return fmt.Errorf("read migration records: %w", err)
			}
			applied := make(map[string]bool, len(records))
			for _, r := range records {
				applied[r.Id] = true
			}

			out := cmd.OutOrStdout()
			for _, m := range all {
				state := "pending"
				if applied[m.Id] {
					state = "applied"
				}
				fmt.Fprintf(out, "%-8s %s\n", state, m.Id)
			}
			logger.Info("migration status listed", zap.Int("total", len(all)), zap.Int("applied", len(records)))
			return nil
		},
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logger, err := pkglogger.New(cfg.Log, cfg.Server.Environment)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}
