package memory_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pdv/internal/record"
	"github.com/MrJamesThe3rd/pdv/internal/record/memory"
	"github.com/MrJamesThe3rd/pdv/internal/record/recordtest"
)

func TestStore(t *testing.T) {
	recordtest.Run(t, func(t *testing.T) record.Store {
		return memory.New()
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	key, err := s.Add(ctx, record.Products, json.RawMessage(`{"name":"A"}`))
	require.NoError(t, err)

	got, err := s.Get(ctx, record.Products, key)
	require.NoError(t, err)

	got.Data[2] = 'X'

	again, err := s.Get(ctx, record.Products, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"A"}`, string(again.Data))
}
