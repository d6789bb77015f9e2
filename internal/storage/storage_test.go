package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	dir, err := NewDir(filepath.Join(t.TempDir(), "dir"))
	require.NoError(t, err)

	db, err := OpenBolt(filepath.Join(t.TempDir(), "bolt", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return map[string]Backend{
		"memory": NewMemory(),
		"dir":    dir,
		"bolt":   db,
	}
}

func TestBackendContract(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := backend.Get("percentage-history")
			require.NoError(t, err)
			assert.False(t, ok, "missing key should report ok=false")

			require.NoError(t, backend.Set("percentage-history", `[{"kind":"percent-of"}]`))
			value, ok, err := backend.Get("percentage-history")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"kind":"percent-of"}]`, value)

			require.NoError(t, backend.Set("percentage-history", `[]`))
			value, _, err = backend.Get("percentage-history")
			require.NoError(t, err)
			assert.Equal(t, `[]`, value, "set should overwrite")

			require.NoError(t, backend.Remove("percentage-history"))
			_, ok, err = backend.Get("percentage-history")
			require.NoError(t, err)
			assert.False(t, ok, "removed key should be missing")

			assert.NoError(t, backend.Remove("never-written"), "removing a missing key is not an error")
		})
	}
}

func TestDirRejectsPathKeys(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../escape", `a\b`} {
		assert.Error(t, dir.Set(key, "x"), "key %q should be rejected", key)
	}
}

func TestDirWritesOneFilePerKey(t *testing.T) {
	root := t.TempDir()
	dir, err := NewDir(root)
	require.NoError(t, err)

	require.NoError(t, dir.Set("loan-history", "[]"))
	data, err := os.ReadFile(filepath.Join(root, "loan-history.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	matches, err := filepath.Glob(filepath.Join(root, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files should not be left behind")
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, db.Set("roi-history", `[{"kind":"roi"}]`))
	require.NoError(t, db.Close())

	db, err = OpenBolt(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	value, ok, err := db.Get("roi-history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"kind":"roi"}]`, value)
}

func TestOpen(t *testing.T) {
	root := t.TempDir()

	mem, err := Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, mem)

	dir, err := Open("dir", filepath.Join(root, "files"))
	require.NoError(t, err)
	assert.IsType(t, &Dir{}, dir)

	db, err := Open("bolt", filepath.Join(root, "db"))
	require.NoError(t, err)
	assert.IsType(t, &Bolt{}, db)
	require.NoError(t, db.Close())
	assert.FileExists(t, filepath.Join(root, "db", "history.db"))

	_, err = Open("redis", root)
	assert.Error(t, err)
}
