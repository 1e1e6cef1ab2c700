package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// Migrate applies the embedded schema migrations for driver to db.
// The db handle stays open afterwards.
func Migrate(db *sql.DB, driver string) error {
	var (
		target database.Driver
		dir    string
		err    error
	)

	switch driver {
	case Postgres:
		dir = "migrations/postgres"
		target, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	case MySQL:
		dir = "migrations/mysql"
		target, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	src, err := iofs.New(migrations, dir)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
