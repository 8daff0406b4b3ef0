package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// TestRecordAndRecent verifies the round trip and ordering
func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	runID := uuid.New()

	first := Entry{
		RunID:      runID,
		Tag:        "programming",
		Scraped:    25,
		Added:      3,
		Updated:    12,
		RecordedAt: time.Date(2024, 9, 20, 10, 0, 0, 0, time.UTC),
	}
	second := Entry{
		RunID:      runID,
		Tag:        "golang",
		Scraped:    18,
		Added:      18,
		Updated:    0,
		RecordedAt: time.Date(2024, 9, 20, 10, 5, 0, 0, time.UTC),
	}

	require.NoError(t, store.Record(first))
	require.NoError(t, store.Record(second))

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "golang", entries[0].Tag, "newest first")
	assert.Equal(t, runID, entries[0].RunID)
	assert.Equal(t, 18, entries[0].Added)
	assert.Equal(t, "programming", entries[1].Tag)
	assert.Equal(t, 12, entries[1].Updated)
	assert.Equal(t, first.RecordedAt, entries[1].RecordedAt.UTC())
}

// TestRecent_Limit verifies the row cap
func TestRecent_Limit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(Entry{
			RunID:      uuid.New(),
			Tag:        "go",
			RecordedAt: time.Date(2024, 9, 20, 10, i, 0, 0, time.UTC),
		}))
	}

	entries, err := store.Recent(2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

// TestRecent_EmptyDatabase verifies the empty case
func TestRecent_EmptyDatabase(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
