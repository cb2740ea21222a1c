package history

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		return NewMemoryStore(0)
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store {
		store, err := NewSQLiteStore(":memory:")
		require.NoError(t, err)
		return store
	})
}

// runStoreTests exercises the Store contract against one implementation.
func runStoreTests(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	rec := func(i int, outcome string) Record {
		obj := float64(i)
		return Record{
			ID:             fmt.Sprintf("req-%03d", i),
			Timestamp:      base.Add(time.Duration(i) * time.Second),
			Outcome:        outcome,
			ObjectiveValue: &obj,
			ComputeSeconds: 0.1 * float64(i),
			Description:    json.RawMessage(`{"variables":[]}`),
		}
	}

	t.Run("empty", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		recs, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("append and read back", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		require.NoError(t, store.Append(ctx, rec(1, "optimal")))

		recs, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		got := recs[0]
		assert.Equal(t, "req-001", got.ID)
		assert.Equal(t, "optimal", got.Outcome)
		require.NotNil(t, got.ObjectiveValue)
		assert.Equal(t, 1.0, *got.ObjectiveValue)
		assert.InDelta(t, 0.1, got.ComputeSeconds, 1e-9)
		assert.JSONEq(t, `{"variables":[]}`, string(got.Description))
		assert.True(t, got.Timestamp.Equal(rec(1, "optimal").Timestamp))
	})

	t.Run("newest first", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		for i := 1; i <= 5; i++ {
			require.NoError(t, store.Append(ctx, rec(i, "optimal")))
		}

		recs, err := store.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recs, 5)
		for i, r := range recs {
			assert.Equal(t, fmt.Sprintf("req-%03d", 5-i), r.ID)
		}
	})

	t.Run("limit", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		for i := 1; i <= 5; i++ {
			require.NoError(t, store.Append(ctx, rec(i, "optimal")))
		}

		recs, err := store.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "req-005", recs[0].ID)
		assert.Equal(t, "req-004", recs[1].ID)
	})

	t.Run("nil objective", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		r := rec(1, "infeasible")
		r.ObjectiveValue = nil
		require.NoError(t, store.Append(ctx, r))

		recs, err := store.Recent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Nil(t, recs[0].ObjectiveValue)
	})
}

func TestMemoryStoreCap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(3)
	defer store.Close()

	for i := 1; i <= 5; i++ {
		obj := float64(i)
		require.NoError(t, store.Append(ctx, Record{
			ID:             fmt.Sprintf("req-%03d", i),
			Timestamp:      time.Now().UTC(),
			Outcome:        "optimal",
			ObjectiveValue: &obj,
		}))
	}

	recs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "req-005", recs[0].ID)
	assert.Equal(t, "req-003", recs[2].ID)
}
