package dataset

import (
	"sync/atomic"
	"time"

	"github.com/lss-analytics/training-api/internal/domain"
)

// Store holds the current registration snapshot. A refresh builds a new set
// and swaps the reference atomically, so concurrent readers observe either
// the old or the new snapshot in full, never a partially rebuilt one.
type Store struct {
	current atomic.Pointer[snapshot]
}

type snapshot struct {
	set      *domain.RegistrationSet
	loadedAt time.Time
}

// NewStore returns an empty store. Snapshot returns ErrNoDataLoaded until
// the first successful Replace.
func NewStore() *Store {
	return &Store{}
}

// Replace installs a new snapshot wholesale.
func (s *Store) Replace(set *domain.RegistrationSet, loadedAt time.Time) {
	s.current.Store(&snapshot{set: set, loadedAt: loadedAt})
}

// Snapshot returns the current registration set, or ErrNoDataLoaded when no
// load has succeeded yet.
func (s *Store) Snapshot() (*domain.RegistrationSet, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrNoDataLoaded
	}
	return snap.set, nil
}

// LoadedAt returns the time of the last successful load.
func (s *Store) LoadedAt() (time.Time, bool) {
	snap := s.current.Load()
	if snap == nil {
		return time.Time{}, false
	}
	return snap.loadedAt, true
}
