package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/buddyctl/internal/buddy"
)

// Snapshot represents the latest host status available to the UI.
type Snapshot struct {
	HostInfo            buddy.HostInfoResponse
	PcState             buddy.PcState
	HasStatus           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when Buddy has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Streaming reports whether a gamestream session is active or ending.
func (s Snapshot) Streaming() bool {
	return s.HasStatus && s.HostInfo.StreamState != buddy.StreamStateNotStreaming
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(info *buddy.HostInfoResponse, pc *buddy.PcStateResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if info != nil && pc != nil {
		s.snapshot.HostInfo = cloneHostInfo(*info)
		s.snapshot.PcState = pc.State
		s.snapshot.HasStatus = true
	} else {
		s.snapshot.HostInfo = buddy.HostInfoResponse{}
		s.snapshot.PcState = buddy.PcStateNormal
		s.snapshot.HasStatus = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.HostInfo = cloneHostInfo(s.snapshot.HostInfo)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneHostInfo(info buddy.HostInfoResponse) buddy.HostInfoResponse {
	if info.SteamTrackedUpdatingAppID != nil {
		id := *info.SteamTrackedUpdatingAppID
		info.SteamTrackedUpdatingAppID = &id
	}
	return info
}
