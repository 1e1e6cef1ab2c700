package sqlite_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/record"
	"github.com/MrJamesThe3rd/pdv/internal/record/recordtest"
	"github.com/MrJamesThe3rd/pdv/internal/record/sqlite"
)

func memoryDSN(t *testing.T) string {
	return "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
}

func TestStore(t *testing.T) {
	recordtest.Run(t, func(t *testing.T) record.Store {
		s, err := sqlite.Open(memoryDSN(t))
		require.NoError(t, err)

		return s
	})
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdv.db")
	ctx := context.Background()

	s, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Init(ctx))

	key, err := s.Add(ctx, record.Products, json.RawMessage(`{"name":"Galaxy S24"}`))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, reopened.Init(ctx))

	defer reopened.Close()

	got, err := reopened.Get(ctx, record.Products, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"name":"Galaxy S24"}`, string(got.Data))

	next, err := reopened.Add(ctx, record.Products, json.RawMessage(`{"name":"iPhone 15 Pro"}`))
	require.NoError(t, err)
	assert.Equal(t, "2", next)
}
