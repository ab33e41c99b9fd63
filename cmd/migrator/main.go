package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"inbox_service/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var migrationsPath string

var rootCmd = &cobra.Command{
	Use:          "migrator",
	Short:        "Manage the inbox service database schema",
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate up failed: %w", err)
			}
			return nil
		})
	},
}

var downSteps int

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			var err error
			if downSteps > 0 {
				err = m.Steps(-downSteps)
			} else {
				err = m.Down()
			}
			if err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate down failed: %w", err)
			}
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				cmd.Println("no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			cmd.Printf("version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "migrations-path", "file://migrations", "migration source URL")
	downCmd.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back, 0 for all")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd)
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	cfg := config.MustLoad()

	migrator, err := migrate.New(migrationsPath, buildPostgresURL(cfg.Postgres))
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	return fn(migrator)
}

func buildPostgresURL(pg config.Postgres) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", pg.Host, pg.Port),
		User:   url.UserPassword(pg.User, pg.Password),
		Path:   pg.DBName,
	}
	q := u.Query()
	q.Set("sslmode", pg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
