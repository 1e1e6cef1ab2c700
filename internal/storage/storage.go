// Package storage opens the record store selected by STORE_DRIVER.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/pdv/internal/config"
	"github.com/MrJamesThe3rd/pdv/internal/database"
	"github.com/MrJamesThe3rd/pdv/internal/record"
	"github.com/MrJamesThe3rd/pdv/internal/record/memory"
	"github.com/MrJamesThe3rd/pdv/internal/record/sqlite"
	"github.com/MrJamesThe3rd/pdv/internal/record/sqlstore"
)

// Open returns the store for cfg.Store.Driver. The caller closes it.
func Open(cfg *config.Config) (record.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}

		return s, nil
	case config.DriverPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}

		return newSQLStore(db, database.Postgres)
	case config.DriverMySQL:
		db, err := database.NewMySQL(cfg.Store.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("connecting to mysql: %w", err)
		}

		return newSQLStore(db, database.MySQL)
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func newSQLStore(db *sql.DB, driver string) (record.Store, error) {
	s, err := sqlstore.New(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}
