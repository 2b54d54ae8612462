package session

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, budget int64) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.db")
	s := Open(path, budget)
	require.NotNil(t, s.db, "test store should open")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGetRoundtrip(t *testing.T) {
	s := openTestStore(t, 0)

	assert.True(t, s.Set(KeyCartID, []byte("42")))
	assert.Equal(t, []byte("42"), s.Get(KeyCartID))

	assert.Nil(t, s.Get("missing"))
}

func TestSetRejectsOversizeValue(t *testing.T) {
	s := openTestStore(t, 0)

	big := bytes.Repeat([]byte("x"), ItemSizeLimit+1)
	assert.False(t, s.Set("huge", big))

	// No write occurred.
	assert.Nil(t, s.Get("huge"))
}

func TestGetJSONRemovesMalformedValue(t *testing.T) {
	s := openTestStore(t, 0)

	require.True(t, s.Set("broken", []byte("{not json")))

	var out map[string]any
	assert.False(t, s.GetJSON("broken", &out))
	// The offending key was removed so the next read starts clean.
	assert.Nil(t, s.Get("broken"))
}

func TestSetJSONRoundtrip(t *testing.T) {
	s := openTestStore(t, 0)

	type pending struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	in := pending{ID: 42, Name: "Basic Service", Quantity: 1}
	require.True(t, s.SetJSON(KeyPendingItem, in))

	var out pending
	require.True(t, s.GetJSON(KeyPendingItem, &out))
	assert.Equal(t, in, out)
}

func TestBudgetEvictsOldestEntries(t *testing.T) {
	// A budget small enough that the tenth write overflows it.
	value := bytes.Repeat([]byte("v"), 100)
	s := openTestStore(t, 1000)

	// Deterministic timestamps so eviction order is stable.
	tick := time.Unix(0, 0)
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	keys := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, k := range keys {
		require.True(t, s.Set(k, value))
	}

	// This write exceeds the budget; the oldest 20% (2 of 8 entries) must be
	// evicted before it lands.
	assert.True(t, s.Set("i", value))

	assert.Nil(t, s.Get("a"), "oldest entry should be evicted")
	assert.Nil(t, s.Get("b"), "second oldest entry should be evicted")
	assert.NotNil(t, s.Get("c"))
	assert.NotNil(t, s.Get("i"))
}

func TestBudgetGivesUpAfterOneEviction(t *testing.T) {
	s := openTestStore(t, 500)

	require.True(t, s.Set("small", []byte("ok")))

	// A value that fits the item ceiling but can never fit the budget, even
	// after eviction.
	big := bytes.Repeat([]byte("x"), 600)
	assert.False(t, s.Set("big", big))
	assert.Nil(t, s.Get("big"))
}

func TestBudgetCountsTimestampCompanion(t *testing.T) {
	// The key and value alone fit this budget, but the write as stored also
	// carries a timestamp companion entry that pushes it over.
	s := openTestStore(t, 60)
	s.now = func() time.Time { return time.Unix(0, 1) }

	value := bytes.Repeat([]byte("v"), 50)
	assert.False(t, s.Set("k", value))
	assert.Nil(t, s.Get("k"))

	// A write whose full footprint fits is admitted.
	assert.True(t, s.Set("k", []byte("ok")))
	assert.LessOrEqual(t, s.usage(), int64(60))
}

func TestTouchRefreshesEvictionRank(t *testing.T) {
	value := bytes.Repeat([]byte("v"), 100)
	s := openTestStore(t, 1000)

	tick := time.Unix(0, 0)
	s.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		require.True(t, s.Set(k, value))
	}

	// Refreshing "a" makes "b" and "c" the oldest entries.
	s.Touch("a")
	require.True(t, s.Set("i", value))

	assert.NotNil(t, s.Get("a"), "touched entry should survive eviction")
	assert.Nil(t, s.Get("b"))
}

func TestClearRemovesOnlyNamespacedKeys(t *testing.T) {
	s := openTestStore(t, 0)

	require.True(t, s.Set(KeyCartID, []byte("7")))
	require.True(t, s.Set(KeyAuthToken, []byte("tok")))

	s.Clear()
	assert.Nil(t, s.Get(KeyCartID))
	assert.Nil(t, s.Get(KeyAuthToken))

	// The store stays usable after a clear.
	assert.True(t, s.Set(KeyCartID, []byte("8")))
	assert.Equal(t, []byte("8"), s.Get(KeyCartID))
}

func TestStatus(t *testing.T) {
	s := openTestStore(t, 0)

	require.True(t, s.Set(KeyCartID, []byte("7")))
	require.True(t, s.Set(KeyPendingItem, []byte(`{"id":42}`)))

	status := s.Status()
	assert.True(t, status.Available)
	assert.Equal(t, 2, status.TotalKeys)
	assert.Positive(t, status.TotalBytes)
	assert.False(t, status.OldestEntry.IsZero())
}

func TestDegradedStoreIsNoOp(t *testing.T) {
	// Point the store at a directory to force an open failure.
	s := Open(t.TempDir(), 0)

	assert.False(t, s.Set("k", []byte("v")))
	assert.Nil(t, s.Get("k"))
	assert.NotPanics(t, func() {
		s.Delete("k")
		s.Touch("k")
		s.Clear()
	})
	status := s.Status()
	assert.False(t, status.Available)
	assert.NoError(t, s.Close())
}
