package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/embycli/internal/emby"
)

// Snapshot represents the latest poll result available to the watch view.
type Snapshot struct {
	Sessions            []emby.Session
	HasSessions         bool // at least one poll has succeeded
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the server has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates updates from the fetch command with reads from the view.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records a poll result. When err is non-nil the previous sessions are
// kept and the error is recorded.
func (s *Store) Update(sessions []emby.Session, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Sessions = cloneSessions(sessions)
	s.snapshot.HasSessions = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Sessions = cloneSessions(s.snapshot.Sessions)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// cloneSessions copies the slice; the pointed-to records are never mutated
// after decoding so they are shared.
func cloneSessions(sessions []emby.Session) []emby.Session {
	if len(sessions) == 0 {
		return nil
	}
	dup := make([]emby.Session, len(sessions))
	copy(dup, sessions)
	return dup
}
