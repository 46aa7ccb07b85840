package store

import (
	"sync"

	"github.com/dkralj/fircik/domain"
)

// versionedRecord pairs a session snapshot with its version counter.
type versionedRecord struct {
	session *domain.GameSession
	version int64
}

// MemorySessionStore is an in-memory implementation of SessionStore.
// Snapshots are deep-copied on the way in and out so callers never
// share mutable state with the store.
type MemorySessionStore struct {
	records map[string]versionedRecord
	mutex   sync.RWMutex
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		records: make(map[string]versionedRecord),
	}
}

// Create stores a new session at version 1.
func (s *MemorySessionStore) Create(session *domain.GameSession) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.records[session.ID]; exists {
		return ErrVersionConflict
	}

	snapshot, err := session.Clone()
	if err != nil {
		return err
	}
	s.records[session.ID] = versionedRecord{session: snapshot, version: 1}
	return nil
}

// Get returns a snapshot of the session and its version.
func (s *MemorySessionStore) Get(sessionID string) (*domain.GameSession, int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	record, exists := s.records[sessionID]
	if !exists {
		return nil, 0, domain.NotFoundErr("session", sessionID)
	}

	snapshot, err := record.session.Clone()
	if err != nil {
		return nil, 0, err
	}
	return snapshot, record.version, nil
}

// Put replaces the session if the version still matches.
func (s *MemorySessionStore) Put(session *domain.GameSession, version int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	record, exists := s.records[session.ID]
	if !exists {
		return domain.NotFoundErr("session", session.ID)
	}
	if record.version != version {
		return ErrVersionConflict
	}

	snapshot, err := session.Clone()
	if err != nil {
		return err
	}
	s.records[session.ID] = versionedRecord{session: snapshot, version: version + 1}
	return nil
}

// MemoryProfileStore is an in-memory implementation of ProfileStore.
type MemoryProfileStore struct {
	profiles map[string]domain.Profile
	mutex    sync.RWMutex
}

// NewMemoryProfileStore creates an empty in-memory profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{
		profiles: make(map[string]domain.Profile),
	}
}

// Get returns the stored profile for the player.
func (s *MemoryProfileStore) Get(playerID string) (domain.Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	profile, exists := s.profiles[playerID]
	if !exists {
		return domain.Profile{}, domain.NotFoundErr("profile", playerID)
	}
	return profile, nil
}

// Put stores the profile, keyed by its player id.
func (s *MemoryProfileStore) Put(profile domain.Profile) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.profiles[profile.PlayerID] = profile
	return nil
}
