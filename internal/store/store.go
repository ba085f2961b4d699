// Package store keeps uploaded datasets in memory, keyed by upload ID.
// Entries expire after a configurable TTL; a janitor goroutine sweeps
// expired entries so abandoned uploads do not accumulate.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"watchdog/pkg/contracts/domain"
)

// ErrUnknownUpload is returned for IDs that were never stored or whose
// entry has expired. Both cases are indistinguishable to callers.
var ErrUnknownUpload = errors.New("unknown upload id")

type entry struct {
	dataset   *domain.Dataset
	expiresAt time.Time
}

// Store is a TTL-bounded in-memory dataset store. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	items  map[string]entry
	ttl    time.Duration
	logger *slog.Logger

	// now is swappable for expiry tests
	now func() time.Time

	// onCount, when set, receives the live entry count after every
	// mutation. Used to keep the active datasets gauge current.
	onCount func(int)
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithCountCallback registers a callback invoked with the live entry
// count after every Put, Delete and sweep.
func WithCountCallback(fn func(int)) Option {
	return func(s *Store) { s.onCount = fn }
}

// New creates a store whose entries live for ttl. A zero or negative ttl
// means entries never expire.
func New(ttl time.Duration, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		items:  make(map[string]entry),
		ttl:    ttl,
		logger: logger.With(slog.String("component", "store")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a dataset under its ID, replacing any previous entry and
// resetting the TTL.
func (s *Store) Put(ds *domain.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{dataset: ds}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.items[ds.ID] = e
	s.notifyLocked()
}

// Get returns the dataset for an upload ID. Expired entries are removed
// on access and reported as unknown.
func (s *Store) Get(id string) (*domain.Dataset, error) {
	s.mu.RLock()
	e, ok := s.items[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrUnknownUpload
	}
	if s.expired(e) {
		s.mu.Lock()
		// recheck under the write lock; another Put may have refreshed it
		if cur, ok := s.items[id]; ok && s.expired(cur) {
			delete(s.items, id)
			s.notifyLocked()
		}
		s.mu.Unlock()
		return nil, ErrUnknownUpload
	}
	return e.dataset, nil
}

// Delete removes a dataset. Deleting an unknown or expired ID returns
// ErrUnknownUpload.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[id]
	if !ok || s.expired(e) {
		delete(s.items, id)
		return ErrUnknownUpload
	}
	delete(s.items, id)
	s.notifyLocked()
	return nil
}

// Len reports the number of live entries, counting expired but not yet
// swept entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// StartJanitor sweeps expired entries every interval until the context is
// cancelled. It blocks; run it in its own goroutine.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				s.logger.Info("swept expired uploads", slog.Int("count", n))
			}
		}
	}
}

func (s *Store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for id, e := range s.items {
		if s.expired(e) {
			delete(s.items, id)
			removed++
		}
	}
	if removed > 0 {
		s.notifyLocked()
	}
	return removed
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

func (s *Store) notifyLocked() {
	if s.onCount != nil {
		s.onCount(len(s.items))
	}
}
