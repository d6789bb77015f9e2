package history

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/datetime"
	"go.uber.org/zap"
)

// Storage is the key-value port the store persists through. A missing key
// reports ok == false and is equivalent to an empty history.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Key returns the storage key for a calculator family.
func Key(family string) string {
	return family + constants.HistoryKeySuffix
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity overrides the maximum number of entries kept.
func WithCapacity(capacity int) Option {
	return func(s *Store) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// WithClock sets the time source used for entry timestamps and export names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used to report absorbed hydration failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is the history of one calculator family, newest first. Every mutation
// is written through to storage before the call returns.
type Store struct {
	mu            sync.Mutex
	family        string
	key           string
	storage       Storage
	capacity      int
	now           func() time.Time
	logger        *zap.Logger
	entries       []Entry
	lastTimestamp int64
}

// New creates the store for family and hydrates it from storage. Hydration
// problems are logged and leave the store empty; they are never returned.
func New(family string, storage Storage, opts ...Option) *Store {
	if storage == nil {
		storage = discard{}
	}
	s := &Store{
		family:   family,
		key:      Key(family),
		storage:  storage,
		capacity: constants.DefaultHistoryCapacity,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate()
	return s
}

func (s *Store) hydrate() {
	raw, ok, err := s.storage.Get(s.key)
	if err != nil {
		s.logger.Warn("failed to read persisted history, starting empty",
			zap.String("op", "history.hydrate"),
			zap.String("family", s.family),
			zap.Error(err),
		)
		return
	}
	if !ok || raw == "" {
		return
	}

	var persisted []Entry
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		s.logger.Warn("failed to parse persisted history, starting empty",
			zap.String("op", "history.hydrate"),
			zap.String("family", s.family),
			zap.Error(err),
		)
		return
	}

	seen := make(map[dedupKey]struct{}, len(persisted))
	dropped := 0
	for _, entry := range persisted {
		if !entry.valid() {
			dropped++
			continue
		}
		if _, dup := seen[entry.key()]; dup {
			dropped++
			continue
		}
		seen[entry.key()] = struct{}{}
		if len(s.entries) == s.capacity {
			dropped++
			continue
		}
		s.entries = append(s.entries, entry)
		if entry.Timestamp > s.lastTimestamp {
			s.lastTimestamp = entry.Timestamp
		}
	}

	if dropped > 0 {
		s.logger.Debug("discarded persisted history entries",
			zap.String("op", "history.hydrate"),
			zap.String("family", s.family),
			zap.Int("dropped", dropped),
		)
	}
}

// Family returns the calculator family this store belongs to.
func (s *Store) Family() string {
	return s.family
}

// Capacity returns the maximum number of entries kept.
func (s *Store) Capacity() int {
	return s.capacity
}

// Append inserts entry at the front, replacing any entry with the same kind and
// first two operands, and evicts the oldest entries beyond capacity. The stored
// entry, with its assigned timestamp, is returned. A persistence error leaves
// the in-memory history updated.
func (s *Store) Append(entry Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Timestamp = s.nextTimestamp()
	entry.Favorite = false

	updated := make([]Entry, 0, len(s.entries)+1)
	updated = append(updated, entry)
	for _, existing := range s.entries {
		if existing.key() == entry.key() {
			continue
		}
		updated = append(updated, existing)
	}
	if len(updated) > s.capacity {
		updated = updated[:s.capacity]
	}
	s.entries = updated

	return entry, s.persist()
}

// nextTimestamp keeps timestamps strictly increasing so each entry can be
// addressed by its timestamp alone.
func (s *Store) nextTimestamp() int64 {
	ts := datetime.UnixMillis(s.now())
	if ts <= s.lastTimestamp {
		ts = s.lastTimestamp + 1
	}
	s.lastTimestamp = ts
	return ts
}

// ToggleFavorite flips the favorite flag of the entry with timestamp. It
// reports whether an entry was found; a missing entry is a no-op.
func (s *Store) ToggleFavorite(timestamp int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].Timestamp == timestamp {
			s.entries[i].Favorite = !s.entries[i].Favorite
			return true, s.persist()
		}
	}
	return false, nil
}

// Entry returns the entry with timestamp, or ErrNotFound.
func (s *Store) Entry(timestamp int64) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.Timestamp == timestamp {
			return entry, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %d", ErrNotFound, timestamp)
}

// Clear empties the history and removes its persisted key.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if err := s.storage.Remove(s.key); err != nil {
		return fmt.Errorf("remove %s: %w", s.key, err)
	}
	return nil
}

// Entries returns a copy of the history, newest first.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Entry{}, s.entries...)
}

// Favorites returns the favorite entries, newest first.
func (s *Store) Favorites() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var favorites []Entry
	for _, entry := range s.entries {
		if entry.Favorite {
			favorites = append(favorites, entry)
		}
	}
	return favorites
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

func (s *Store) persist() error {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.storage.Set(s.key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	return nil
}

type discard struct{}

func (discard) Get(string) (string, bool, error) { return "", false, nil }
func (discard) Set(string, string) error         { return nil }
func (discard) Remove(string) error              { return nil }
