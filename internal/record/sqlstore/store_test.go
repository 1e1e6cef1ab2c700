package sqlstore_test

import (
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/database"
	"github.com/MrJamesThe3rd/pdv/internal/record"
	"github.com/MrJamesThe3rd/pdv/internal/record/recordtest"
	"github.com/MrJamesThe3rd/pdv/internal/record/sqlstore"
)

// These run against real servers and are skipped unless a DSN is provided,
// e.g. PDV_TEST_POSTGRES_DSN=postgres://postgres@localhost:5432/pdv_test?sslmode=disable
func TestStore_Postgres(t *testing.T) {
	runAgainst(t, database.Postgres, os.Getenv("PDV_TEST_POSTGRES_DSN"), database.New)
}

func TestStore_MySQL(t *testing.T) {
	runAgainst(t, database.MySQL, os.Getenv("PDV_TEST_MYSQL_DSN"), database.NewMySQL)
}

func runAgainst(t *testing.T, driver, dsn string, open func(string) (*sql.DB, error)) {
	if dsn == "" {
		t.Skipf("no DSN configured for %s", driver)
	}

	recordtest.Run(t, func(t *testing.T) record.Store {
		db, err := open(dsn)
		require.NoError(t, err)
		require.NoError(t, database.Migrate(db, driver))

		_, err = db.Exec(`DELETE FROM records`)
		require.NoError(t, err)
		_, err = db.Exec(`DELETE FROM record_sequences`)
		require.NoError(t, err)

		s, err := sqlstore.New(db, driver)
		require.NoError(t, err)

		return s
	})
}
