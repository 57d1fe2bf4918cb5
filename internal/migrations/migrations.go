// Package migrations owns the outbox schema. The migration files are
// embedded so the binary can bring its own tables up without external
// tooling. The LMS tables are never touched from here; they belong to
// the LMS and are only ever read.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var MigrationFiles embed.FS

// Run applies pending outbox migrations. With autoMigrate disabled it
// reports the current version and returns without changing the schema.
func Run(db *sql.DB, autoMigrate bool) error {
	sourceDriver, err := iofs.New(MigrationFiles, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("get current migration version: %w", err)
	}

	if dirty {
		slog.Warn("outbox schema is in dirty state, attempting recovery",
			"version", version,
		)
		// The outbox schema is a single additive migration, so forcing
		// the recorded version back clean is safe.
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("recover dirty migration state at version %d: %w", version, err)
		}
		slog.Info("recovered dirty migration state", "version", version)
	}

	if !autoMigrate {
		slog.Info("auto-migration disabled, skipping outbox migrations",
			"current_version", version,
		)
		return nil
	}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			slog.Info("outbox schema is up to date", "version", version)
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("get updated migration version: %w", err)
	}

	slog.Info("outbox migrations applied",
		"from_version", version,
		"to_version", newVersion,
	)
	return nil
}
