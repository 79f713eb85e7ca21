package server

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"score-tracker/internal/settlement"
)

var (
	errSnapshotNotFound = errors.New("snapshot not found")
	errInvalidStatus    = errors.New("invalid snapshot status")
)

// snapshotStore holds frozen settlements keyed by session. Freezing the
// same session again (an explicit redistribute) replaces the previous
// snapshot under the same id.
type snapshotStore struct {
	mu        sync.Mutex
	nextID    int
	bySession map[string]settlement.Snapshot
}

func newSnapshotStore() *snapshotStore {
	return &snapshotStore{
		nextID:    1,
		bySession: make(map[string]settlement.Snapshot),
	}
}

func (s *snapshotStore) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := fmt.Sprintf("snapshot-%d", s.nextID)
	s.nextID++
	return id
}

func (s *snapshotStore) Put(snap settlement.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.bySession[snap.SessionID]; ok {
		// A refreeze keeps the original snapshot identity and status.
		snap.ID = existing.ID
		snap.Status = existing.Status
	}
	s.bySession[snap.SessionID] = snap
}

func (s *snapshotStore) GetBySession(sessionID string) (settlement.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.bySession[sessionID]
	return snap, ok
}

func (s *snapshotStore) SetStatus(snapshotID, status string) (settlement.Snapshot, error) {
	if status != settlement.StatusPaid && status != settlement.StatusUnpaid {
		return settlement.Snapshot{}, errInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for sessionID, snap := range s.bySession {
		if snap.ID == snapshotID {
			snap.Status = status
			s.bySession[sessionID] = snap
			return snap, nil
		}
	}
	return settlement.Snapshot{}, errSnapshotNotFound
}

func (s *snapshotStore) List() []settlement.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]settlement.Snapshot, 0, len(s.bySession))
	for _, snap := range s.bySession {
		list = append(list, snap)
	}
	sort.Slice(list, func(i, j int) bool {
		return idSortKey(list[i].ID) < idSortKey(list[j].ID)
	})
	return list
}

// Map returns snapshots keyed by session id for the stats aggregator.
func (s *snapshotStore) Map() map[string]settlement.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]settlement.Snapshot, len(s.bySession))
	for sessionID, snap := range s.bySession {
		out[sessionID] = snap
	}
	return out
}

// Restore loads a persisted snapshot, bumping the id counter past it.
func (s *snapshotStore) Restore(snap settlement.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bySession[snap.SessionID] = snap
	if id := idSortKey(snap.ID); id >= s.nextID {
		s.nextID = id + 1
	}
}
