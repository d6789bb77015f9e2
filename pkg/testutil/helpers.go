// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/finance-calculators/internal/history"
)

// FindEntry finds the newest history entry of the given kind.
// Returns a pointer to the entry if found, nil otherwise.
func FindEntry(entries []history.Entry, kind string) *history.Entry {
	for i := range entries {
		if entries[i].Kind == kind {
			return &entries[i]
		}
	}
	return nil
}

// FailingStorage is a history storage whose reads succeed empty and whose
// writes fail with Err.
type FailingStorage struct {
	Err error
}

// Get reports every key as absent.
func (FailingStorage) Get(string) (string, bool, error) { return "", false, nil }

// Set fails with Err.
func (s FailingStorage) Set(string, string) error { return s.Err }

// Remove fails with Err.
func (s FailingStorage) Remove(string) error { return s.Err }
