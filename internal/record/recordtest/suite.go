// Package recordtest holds the behaviour every record.Store must share.
package recordtest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/record"
)

// Run exercises store against the record.Store contract. newStore must
// return an empty store; Init is called by the suite.
func Run(t *testing.T, newStore func(t *testing.T) record.Store) {
	t.Helper()

	setup := func(t *testing.T) (record.Store, context.Context) {
		t.Helper()

		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Init(ctx))
		t.Cleanup(func() { _ = s.Close() })

		return s, ctx
	}

	t.Run("InitIsIdempotent", func(t *testing.T) {
		s, ctx := setup(t)
		assert.NoError(t, s.Init(ctx))
	})

	t.Run("AddAssignsIncreasingKeys", func(t *testing.T) {
		s, ctx := setup(t)

		k1, err := s.Add(ctx, record.Products, json.RawMessage(`{"name":"A"}`))
		require.NoError(t, err)

		k2, err := s.Add(ctx, record.Products, json.RawMessage(`{"name":"B"}`))
		require.NoError(t, err)

		assert.Equal(t, "1", k1)
		assert.Equal(t, "2", k2)

		other, err := s.Add(ctx, record.Sales, json.RawMessage(`{}`))
		require.NoError(t, err)
		assert.Equal(t, "1", other, "keys are per collection")
	})

	t.Run("GetMissingReturnsNil", func(t *testing.T) {
		s, ctx := setup(t)

		got, err := s.Get(ctx, record.Clients, "42")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("PutReplacesWholeRecord", func(t *testing.T) {
		s, ctx := setup(t)

		key, err := s.Add(ctx, record.Products, json.RawMessage(`{"name":"A","stock":5}`))
		require.NoError(t, err)

		require.NoError(t, s.Put(ctx, record.Products, key, json.RawMessage(`{"name":"A2"}`)))

		got, err := s.Get(ctx, record.Products, key)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.JSONEq(t, `{"name":"A2"}`, string(got.Data))
	})

	t.Run("PutCreatesWithCallerKey", func(t *testing.T) {
		s, ctx := setup(t)

		require.NoError(t, s.Put(ctx, record.Settings, "companyName", json.RawMessage(`{"key":"companyName","value":"Loja"}`)))

		got, err := s.Get(ctx, record.Settings, "companyName")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "companyName", got.Key)
	})

	t.Run("AddAfterPutDoesNotReuseKey", func(t *testing.T) {
		s, ctx := setup(t)

		require.NoError(t, s.Put(ctx, record.Clients, "7", json.RawMessage(`{"name":"X"}`)))

		key, err := s.Add(ctx, record.Clients, json.RawMessage(`{"name":"Y"}`))
		require.NoError(t, err)
		assert.NotEqual(t, "7", key)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		s, ctx := setup(t)

		key, err := s.Add(ctx, record.Exchanges, json.RawMessage(`{}`))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, record.Exchanges, key))
		after1, err := s.GetAll(ctx, record.Exchanges)
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, record.Exchanges, key))
		after2, err := s.GetAll(ctx, record.Exchanges)
		require.NoError(t, err)

		assert.Empty(t, after1)
		assert.Equal(t, after1, after2)
		assert.NoError(t, s.Delete(ctx, record.Exchanges, "999"))
	})

	t.Run("ReadsDoNotMutate", func(t *testing.T) {
		s, ctx := setup(t)

		_, err := s.Add(ctx, record.Products, json.RawMessage(`{"name":"A"}`))
		require.NoError(t, err)

		before, err := s.GetAll(ctx, record.Products)
		require.NoError(t, err)

		_, err = s.Get(ctx, record.Products, "1")
		require.NoError(t, err)

		after, err := s.GetAll(ctx, record.Products)
		require.NoError(t, err)

		require.Len(t, after, 1)
		assert.Equal(t, before[0].Key, after[0].Key)
		assert.JSONEq(t, string(before[0].Data), string(after[0].Data))
	})

	t.Run("UnknownCollection", func(t *testing.T) {
		s, ctx := setup(t)

		_, err := s.GetAll(ctx, record.Collection("carts"))
		assert.ErrorIs(t, err, record.ErrUnknownCollection)
	})
}
