package cache

import (
	"encoding/json"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/kbukum/rereplay/logger"
)

// Entry is the stored envelope for a single key.
type Entry struct {
	// Value is the serialized response string.
	Value string `json:"value"`
	// CreatedAt is when the entry was recorded.
	CreatedAt time.Time `json:"createdAt"`
	// Metadata carries debugging context, typically the canonical string
	// the key was derived from.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Store is a key-value map with per-entry creation timestamps, TTL-based
// expiry, and synchronous JSON-file persistence. It is safe for concurrent
// use; all replayers sharing a scope share the same map and file.
type Store struct {
	mu      sync.Mutex
	cfg     Config
	path    string
	entries map[string]Entry
	log     *logger.Logger
	now     func() time.Time
}

// New creates a store for the given logical cache name and loads whatever
// the backing file currently holds.
func New(cfg Config, log *logger.Logger) (*Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewDefault()
	}

	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, err
	}

	s := &Store{
		cfg:     cfg,
		path:    filePath(cfg.Dir, cfg.Name),
		entries: make(map[string]Entry),
		log:     log.WithComponent("cache"),
		now:     time.Now,
	}
	s.load()
	return s, nil
}

// Path returns the active backing file path.
func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// SetCacheFile repoints the store at the backing file derived from scope
// and reloads, discarding the current in-memory state in favor of whatever
// the new file contains.
func (s *Store) SetCacheFile(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = filePath(s.cfg.Dir, scope)
	s.load()
}

// Set upserts a value with a fresh creation timestamp and persists the
// store. Returns the store for chaining; write failures are logged.
func (s *Store) Set(key, value string, metadata map[string]string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{
		Value:     value,
		CreatedAt: s.now(),
		Metadata:  metadata,
	}
	s.save()
	return s
}

// Get returns the value for key if present and not expired. An expired
// entry is evicted on read and reported as absent.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if s.stale(e) {
		delete(s.entries, key)
		s.save()
		return "", false
	}
	return e.Value, true
}

// Has reports presence only. It deliberately does not evaluate staleness,
// so it can return true for an entry that Get will then evict.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Metadata returns the metadata recorded with key, if any.
func (s *Store) Metadata(key string) (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.Metadata, true
}

// Delete removes key and persists. Reports whether the key was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
		s.save()
	}
	return ok
}

// Clear removes all entries and persists.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
	s.save()
}

// Size returns the number of entries, expired or not.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedKeys()
}

// Values returns all values ordered by key.
func (s *Store) Values() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := make([]string, 0, len(s.entries))
	for _, k := range s.sortedKeys() {
		values = append(values, s.entries[k].Value)
	}
	return values
}

// Entries returns (key, value) pairs ordered by key. The internal
// createdAt/metadata envelope is not exposed.
func (s *Store) Entries() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	pairs := make([][2]string, 0, len(s.entries))
	for _, k := range s.sortedKeys() {
		pairs = append(pairs, [2]string{k, s.entries[k].Value})
	}
	return pairs
}

// ForEach calls fn for every (key, value) pair in sorted key order.
func (s *Store) ForEach(fn func(key, value string)) {
	for _, p := range s.Entries() {
		fn(p[0], p[1])
	}
}

func (s *Store) sortedKeys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) stale(e Entry) bool {
	return s.now().Sub(e.CreatedAt) > s.cfg.StaleAfter
}

// load reads and parses the backing file, pruning expired entries. A file
// that exists but cannot be parsed is deleted so the store self-heals from
// corruption; the condition is warned, not surfaced.
func (s *Store) load() {
	s.entries = make(map[string]Entry)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cache file could not be read",
				logger.Fields(logger.FieldCacheFile, s.path, logger.FieldError, err.Error()))
		}
		return
	}

	var pairs [][2]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		s.discardCorrupt(err)
		return
	}

	for _, p := range pairs {
		var key string
		var entry Entry
		if err := json.Unmarshal(p[0], &key); err != nil {
			s.discardCorrupt(err)
			return
		}
		if err := json.Unmarshal(p[1], &entry); err != nil {
			s.discardCorrupt(err)
			return
		}
		if s.stale(entry) {
			continue
		}
		s.entries[key] = entry
	}
}

func (s *Store) discardCorrupt(cause error) {
	s.log.Warn("corrupt cache file discarded",
		logger.Fields(logger.FieldCacheFile, s.path, logger.FieldError, cause.Error()))
	_ = os.Remove(s.path)
	s.entries = make(map[string]Entry)
}

// save serializes the whole map as an array of [key, entry] pairs and
// overwrites the backing file. Called with the lock held after every
// mutation.
func (s *Store) save() {
	pairs := make([][2]json.RawMessage, 0, len(s.entries))
	for _, k := range s.sortedKeys() {
		kj, err := json.Marshal(k)
		if err != nil {
			s.log.Error("cache key could not be encoded",
				logger.Fields(logger.FieldCacheKey, k, logger.FieldError, err.Error()))
			return
		}
		ej, err := json.Marshal(s.entries[k])
		if err != nil {
			s.log.Error("cache entry could not be encoded",
				logger.Fields(logger.FieldCacheKey, k, logger.FieldError, err.Error()))
			return
		}
		pairs = append(pairs, [2]json.RawMessage{kj, ej})
	}

	data, err := json.Marshal(pairs)
	if err != nil {
		s.log.Error("cache file could not be encoded",
			logger.Fields(logger.FieldCacheFile, s.path, logger.FieldError, err.Error()))
		return
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.log.Error("cache file could not be written",
			logger.Fields(logger.FieldCacheFile, s.path, logger.FieldError, err.Error()))
	}
}
