package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"solardash/internal/dataset"
)

// RemoveReason says why an entry left the store
type RemoveReason string

const (
	ReasonExpired RemoveReason = "expired"
	ReasonEvicted RemoveReason = "evicted"
	ReasonDeleted RemoveReason = "deleted"
)

// Entry is one session's dataset
type Entry struct {
	ID         string
	Dataset    *dataset.Dataset
	CreatedAt  time.Time
	LastAccess time.Time
	ExpiresAt  time.Time
}

// Stats summarises the store
type Stats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	TTLSeconds float64 `json:"ttl_seconds"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	Expired    int64   `json:"expired"`
	Evicted    int64   `json:"evicted"`
}

// Store maps session ids to datasets
type Store struct {
	entries    map[string]*Entry
	mutex      sync.RWMutex
	ttl        time.Duration
	maxEntries int
	sweepEvery time.Duration

	hits, misses, expired, evicted int64

	now      func() time.Time
	onRemove func(id string, reason RemoveReason)
	logger   *slog.Logger

	stopChan  chan struct{}
	stopOnce  sync.Once
	sweepDone chan struct{}
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the store's logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRemoveHook is called, outside the store's lock, for every entry that
// leaves the store
func WithRemoveHook(fn func(id string, reason RemoveReason)) Option {
	return func(s *Store) { s.onRemove = fn }
}

// NewStore creates a store and starts its sweeper. A non-positive
// sweepEvery disables the sweeper; expired entries are still never returned.
func NewStore(ttl time.Duration, maxEntries int, sweepEvery time.Duration, opts ...Option) *Store {
	s := &Store{
		entries:    make(map[string]*Entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		sweepEvery: sweepEvery,
		now:        time.Now,
		logger:     slog.Default(),
		stopChan:   make(chan struct{}),
		sweepDone:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if sweepEvery > 0 {
		go s.sweeper()
	} else {
		close(s.sweepDone)
	}
	return s
}

// NewID returns a fresh session id
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of a session id
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the session's dataset and extends its lifetime
func (s *Store) Get(id string) (*Entry, bool) {
	s.mutex.Lock()
	now := s.now()
	entry, exists := s.entries[id]
	if !exists {
		s.misses++
		s.mutex.Unlock()
		return nil, false
	}
	if now.After(entry.ExpiresAt) {
		delete(s.entries, id)
		s.misses++
		s.expired++
		s.mutex.Unlock()
		s.removed(id, ReasonExpired)
		return nil, false
	}

	entry.LastAccess = now
	entry.ExpiresAt = now.Add(s.ttl)
	s.hits++
	out := *entry
	s.mutex.Unlock()
	return &out, true
}

// Put stores d under id, replacing any earlier dataset of the session. It
// reports whether the session is new.
func (s *Store) Put(id string, d *dataset.Dataset) bool {
	s.mutex.Lock()
	now := s.now()

	if entry, exists := s.entries[id]; exists {
		entry.Dataset = d
		entry.LastAccess = now
		entry.ExpiresAt = now.Add(s.ttl)
		s.mutex.Unlock()
		return false
	}

	var victim string
	if s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		victim = s.evictOldest()
	}
	s.entries[id] = &Entry{
		ID:         id,
		Dataset:    d,
		CreatedAt:  now,
		LastAccess: now,
		ExpiresAt:  now.Add(s.ttl),
	}
	s.mutex.Unlock()

	if victim != "" {
		s.logger.Info("Session evicted", slog.String("session_id", victim))
		s.removed(victim, ReasonEvicted)
	}
	return true
}

// Delete discards the session's dataset
func (s *Store) Delete(id string) bool {
	s.mutex.Lock()
	_, exists := s.entries[id]
	delete(s.entries, id)
	s.mutex.Unlock()

	if exists {
		s.removed(id, ReasonDeleted)
	}
	return exists
}

// Len returns the number of stored sessions, expired ones included until swept
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.entries)
}

// Stats returns store statistics
func (s *Store) Stats() Stats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return Stats{
		Entries:    len(s.entries),
		MaxEntries: s.maxEntries,
		TTLSeconds: s.ttl.Seconds(),
		Hits:       s.hits,
		Misses:     s.misses,
		Expired:    s.expired,
		Evicted:    s.evicted,
	}
}

// Sweep removes expired entries and returns how many were removed
func (s *Store) Sweep() int {
	s.mutex.Lock()
	now := s.now()
	var gone []string
	for id, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, id)
			gone = append(gone, id)
		}
	}
	s.expired += int64(len(gone))
	s.mutex.Unlock()

	for _, id := range gone {
		s.removed(id, ReasonExpired)
	}
	if len(gone) > 0 {
		s.logger.Debug("Expired sessions removed", slog.Int("count", len(gone)))
	}
	return len(gone)
}

// Close stops the sweeper. It is safe to call more than once.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	<-s.sweepDone
}

// evictOldest removes the least recently used entry; the caller holds the lock
func (s *Store) evictOldest() string {
	var oldestID string
	var oldest time.Time

	for id, entry := range s.entries {
		if oldestID == "" || entry.LastAccess.Before(oldest) {
			oldestID = id
			oldest = entry.LastAccess
		}
	}

	if oldestID != "" {
		delete(s.entries, oldestID)
		s.evicted++
	}
	return oldestID
}

func (s *Store) removed(id string, reason RemoveReason) {
	if s.onRemove != nil {
		s.onRemove(id, reason)
	}
}

func (s *Store) sweeper() {
	defer close(s.sweepDone)

	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopChan:
			return
		}
	}
}
