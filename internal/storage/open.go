package storage

import (
	"fmt"
	"path/filepath"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

// Backend is a key-value store that can be closed.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Open returns the backend named by kind rooted at path. For bolt, path may be
// a directory, in which case history.db is created inside it.
func Open(kind, path string) (Backend, error) {
	if path == "" {
		path = constants.DefaultStoragePath
	}

	switch kind {
	case constants.StorageBackendMemory:
		return NewMemory(), nil
	case constants.StorageBackendDir, "":
		return NewDir(path)
	case constants.StorageBackendBolt:
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "history.db")
		}
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage backend %q, expected %s, %s or %s",
			kind, constants.StorageBackendMemory, constants.StorageBackendDir, constants.StorageBackendBolt)
	}
}
