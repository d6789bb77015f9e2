package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/iwvelando/finance-calculators/pkg/datetime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns a clock that advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

var epoch = datetime.MustParseTime(time.RFC3339, "2026-10-17T09:00:00Z")

func newTestStore(t *testing.T, backend Storage, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock(epoch, time.Second))}, opts...)
	return New("percentage", backend, opts...)
}

type failingStorage struct {
	getErr error
	setErr error
}

func (f failingStorage) Get(string) (string, bool, error) { return "", false, f.getErr }
func (f failingStorage) Set(string, string) error         { return f.setErr }
func (f failingStorage) Remove(string) error              { return f.setErr }

func TestAppendPersistsNewestFirst(t *testing.T) {
	backend := storage.NewMemory()
	store := newTestStore(t, backend)

	_, err := store.Append(NewEntry("percent-of", []string{"15", "200"}, "30.00"))
	require.NoError(t, err)
	_, err = store.Append(NewEntry("markup", []string{"50", "30"}, "65.00"))
	require.NoError(t, err)

	entries := store.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "markup", entries[0].Kind)
	assert.Equal(t, "percent-of", entries[1].Kind)
	assert.False(t, entries[0].Favorite)

	raw, ok, err := backend.Get("percentage-history")
	require.NoError(t, err)
	require.True(t, ok, "append should write through to storage")

	var persisted []Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, entries, persisted)
}

func TestAppendDeduplicatesOnKindAndFirstTwoOperands(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())

	_, err := store.Append(NewEntry("percent-of", []string{"15", "200"}, "30.00"))
	require.NoError(t, err)
	_, err = store.Append(NewEntry("what-percent-of", []string{"1", "2"}, "50.00"))
	require.NoError(t, err)
	_, err = store.Append(NewEntry("percent-of", []string{"15", "200"}, "30.0000"))
	require.NoError(t, err)

	entries := store.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "percent-of", entries[0].Kind)
	assert.Equal(t, "30.0000", entries[0].ResultDisplay, "newest result should win")
	assert.Equal(t, "what-percent-of", entries[1].Kind)
}

func TestAppendIgnoresThirdOperandForDeduplication(t *testing.T) {
	store := New("interest", storage.NewMemory(), WithClock(fixedClock(epoch, time.Second)))

	_, err := store.Append(NewEntry("compound-interest", []string{"10000", "7", "10"}, "19671.51"))
	require.NoError(t, err)
	_, err = store.Append(NewEntry("compound-interest", []string{"10000", "7", "20"}, "38696.84"))
	require.NoError(t, err)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "20", entries[0].Operand3)
}

func TestAppendEvictsOldestBeyondCapacity(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())
	capacity := store.Capacity()
	require.Equal(t, 20, capacity)

	for i := 0; i <= capacity; i++ {
		_, err := store.Append(NewEntry("percent-of", []string{fmt.Sprint(i), "100"}, fmt.Sprint(i)))
		require.NoError(t, err)
	}

	entries := store.Entries()
	require.Len(t, entries, capacity)
	assert.Equal(t, fmt.Sprint(capacity), entries[0].Operand1, "newest at the front")
	assert.Equal(t, "1", entries[capacity-1].Operand1, "oldest entry evicted")
}

func TestTimestampsAreUniqueWithinAStore(t *testing.T) {
	frozen := func() time.Time { return epoch }
	store := New("roi", storage.NewMemory(), WithClock(frozen))

	first, err := store.Append(NewEntry("roi", []string{"1", "2"}, "100"))
	require.NoError(t, err)
	second, err := store.Append(NewEntry("roi", []string{"3", "4"}, "33.33"))
	require.NoError(t, err)

	assert.Equal(t, epoch.UnixMilli(), first.Timestamp)
	assert.Equal(t, first.Timestamp+1, second.Timestamp)
}

func TestToggleFavorite(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())
	entry, err := store.Append(NewEntry("percent-of", []string{"15", "200"}, "30.00"))
	require.NoError(t, err)

	before := store.Entries()[0].Favorite

	found, err := store.ToggleFavorite(entry.Timestamp)
	require.NoError(t, err)
	require.True(t, found)
	afterFirst := store.Entries()[0].Favorite

	found, err = store.ToggleFavorite(entry.Timestamp)
	require.NoError(t, err)
	require.True(t, found)
	afterSecond := store.Entries()[0].Favorite

	assert.NotEqual(t, before, afterFirst, "first toggle should flip the flag")
	assert.Equal(t, before, afterSecond, "second toggle should undo the first")
}

func TestToggleFavoriteMissingIsNoop(t *testing.T) {
	backend := storage.NewMemory()
	store := newTestStore(t, backend)

	found, err := store.ToggleFavorite(12345)
	require.NoError(t, err)
	assert.False(t, found)

	_, ok, err := backend.Get("percentage-history")
	require.NoError(t, err)
	assert.False(t, ok, "a no-op toggle should not write")
}

func TestFavoritesSurviveRehydration(t *testing.T) {
	backend := storage.NewMemory()
	store := newTestStore(t, backend)
	entry, err := store.Append(NewEntry("percent-of", []string{"15", "200"}, "30.00"))
	require.NoError(t, err)
	_, err = store.ToggleFavorite(entry.Timestamp)
	require.NoError(t, err)

	reloaded := newTestStore(t, backend)
	favorites := reloaded.Favorites()
	require.Len(t, favorites, 1)
	assert.Equal(t, entry.Timestamp, favorites[0].Timestamp)
}

func TestClearRemovesPersistedKey(t *testing.T) {
	backend := storage.NewMemory()
	store := newTestStore(t, backend)
	_, err := store.Append(NewEntry("percent-of", []string{"15", "200"}, "30.00"))
	require.NoError(t, err)

	require.NoError(t, store.Clear())
	assert.Empty(t, store.Entries())
	assert.Equal(t, 0, store.Len())

	_, ok, err := backend.Get("percentage-history")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHydrationFailuresStartEmpty(t *testing.T) {
	tests := []struct {
		name    string
		backend Storage
	}{
		{name: "read error", backend: failingStorage{getErr: errors.New("disk on fire")}},
		{name: "corrupt JSON", backend: seeded("percentage-history", "{not json")},
		{name: "wrong shape", backend: seeded("percentage-history", `{"kind":"percent-of"}`)},
		{name: "absent key", backend: storage.NewMemory()},
		{name: "empty value", backend: seeded("percentage-history", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, tt.backend)
			assert.Empty(t, store.Entries())
		})
	}
}

func TestHydrationNormalizesPersistedEntries(t *testing.T) {
	raw := `[
		{"kind":"percent-of","operand1":"1","operand2":"2","resultDisplay":"0.02","timestamp":30},
		{"kind":"","operand1":"x","operand2":"y","resultDisplay":"?","timestamp":25},
		{"kind":"percent-of","operand1":"1","operand2":"2","resultDisplay":"old","timestamp":20},
		{"kind":"markup","operand1":"5","operand2":"10","resultDisplay":"5.50","timestamp":10,"favorite":true}
	]`
	store := newTestStore(t, seeded("percentage-history", raw))

	entries := store.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "0.02", entries[0].ResultDisplay)
	assert.Equal(t, "markup", entries[1].Kind)
	assert.True(t, entries[1].Favorite)

	// New entries are timestamped after everything hydrated.
	appended, err := store.Append(NewEntry("percent-of", []string{"3", "4"}, "0.12"))
	require.NoError(t, err)
	assert.Greater(t, appended.Timestamp, int64(30))
}

func TestHydrationTruncatesToCapacity(t *testing.T) {
	var persisted []Entry
	for i := 0; i < 5; i++ {
		persisted = append(persisted, Entry{Kind: "roi", Operand1: fmt.Sprint(i), Operand2: "1", Timestamp: int64(100 - i)})
	}
	data, err := json.Marshal(persisted)
	require.NoError(t, err)

	store := New("roi", seeded("roi-history", string(data)), WithCapacity(3))
	entries := store.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "0", entries[0].Operand1)
	assert.Equal(t, "2", entries[2].Operand1)
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	store := newTestStore(t, failingStorage{setErr: errors.New("quota exceeded")})

	_, err := store.Append(NewEntry("percent-of", []string{"15", "200"}, "30.00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 1, store.Len())
}

func TestEntriesReturnsACopy(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())
	_, err := store.Append(NewEntry("percent-of", []string{"15", "200"}, "30.00"))
	require.NoError(t, err)

	entries := store.Entries()
	entries[0].ResultDisplay = "tampered"
	assert.Equal(t, "30.00", store.Entries()[0].ResultDisplay)
}

func TestNewEntryOperands(t *testing.T) {
	entry := NewEntry("hourly-rate", []string{"40000", "60000", "25", "1500", "ignored"}, "88.89")
	assert.Equal(t, []string{"40000", "60000", "25", "1500"}, entry.Operands())

	entry = NewEntry("roi", []string{"5000", "6500"}, "30.00")
	assert.Equal(t, []string{"5000", "6500"}, entry.Operands())
	assert.Empty(t, entry.Operand3)
}

func TestNilStorageKeepsHistoryInMemory(t *testing.T) {
	store := New("grade", nil)
	_, err := store.Append(NewEntry("gpa", []string{"3", "A"}, "4.00"))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func seeded(key, value string) *storage.Memory {
	m := storage.NewMemory()
	_ = m.Set(key, value)
	return m
}

func TestEntryLookup(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())
	appended, err := store.Append(NewEntry("markup", []string{"50", "30"}, "65.00"))
	require.NoError(t, err)

	found, err := store.Entry(appended.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, appended, found)

	_, err = store.Entry(appended.Timestamp + 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
