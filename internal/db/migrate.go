package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"EventRegistration/internal/log"
)

//go:embed migrations
var migrations embed.FS

// Migrate brings the schema up to the latest embedded version.
func (d *DB) Migrate() error {
	dir := "migrations/sqlite"
	if d.Driver.IsPostgres() {
		dir = "migrations/postgres"
	}

	src, err := iofs.New(migrations, dir)
	if err != nil {
		return fmt.Errorf("migrate: source: %w", err)
	}

	var target database.Driver
	name := "sqlite"
	if d.Driver.IsPostgres() {
		name = "postgres"
		target, err = postgres.WithInstance(d.SQL, &postgres.Config{})
	} else {
		target, err = sqlite.WithInstance(d.SQL, &sqlite.Config{})
	}
	if err != nil {
		return fmt.Errorf("migrate: %s driver: %w", name, err)
	}

	// m.Close is not called: it would close the shared *sql.DB.
	m, err := migrate.NewWithInstance("iofs", src, name, target)
	if err != nil {
		return fmt.Errorf("migrate: init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: up: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info(log.CatDB, "schema ready", "version", version, "dirty", dirty)
	return nil
}
