package history

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSnapshotJSON(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())
	_, err := store.Append(NewEntry("percent-of", []string{"15", "200"}, "30.00"))
	require.NoError(t, err)

	snapshot, err := store.ExportSnapshot("json")
	require.NoError(t, err)
	assert.Equal(t, "percentage-calculations-2026-10-17.json", snapshot.Name)
	assert.Equal(t, "application/json", snapshot.ContentType)

	var exported []Entry
	require.NoError(t, json.Unmarshal(snapshot.Data, &exported))
	assert.Equal(t, store.Entries(), exported)
}

func TestExportSnapshotEmptyIsAnEmptyList(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())

	snapshot, err := store.ExportSnapshot("json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(snapshot.Data))
}

func TestExportSnapshotCSV(t *testing.T) {
	store := New("grade", storage.NewMemory(), WithClock(func() time.Time { return epoch }))
	_, err := store.Append(NewEntry("gpa", []string{"3,4", "A,B+"}, "3.60"))
	require.NoError(t, err)

	snapshot, err := store.ExportSnapshot("csv")
	require.NoError(t, err)
	assert.Equal(t, "grade-calculations-2026-10-17.csv", snapshot.Name)
	assert.Equal(t, "text/csv", snapshot.ContentType)

	records, err := csv.NewReader(strings.NewReader(string(snapshot.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"gpa", "3,4", "A,B+", "", "", "3.60", "1792227600000", "false"}, records[1])
}

func TestExportSnapshotRejectsUnknownFormat(t *testing.T) {
	store := newTestStore(t, storage.NewMemory())
	_, err := store.ExportSnapshot("xml")
	assert.Error(t, err)
}
