// Package store holds the gateways to the external key/value
// collaborators: the session records and the player profiles. Both are
// persisted as single serializable records; sessions carry a version so
// concurrent actions against the same game are applied as atomic
// read-modify-write with retry on conflict.
package store

import (
	"errors"

	"github.com/dkralj/fircik/domain"
)

// ErrVersionConflict is returned by SessionStore.Put when the record
// changed since the version was read. The engine re-reads, re-validates
// and re-applies the action; it never blindly overwrites.
var ErrVersionConflict = errors.New("session version conflict")

// SessionStore is the gateway to the session record store.
type SessionStore interface {
	// Create stores a new session at version 1. Fails if the id exists.
	Create(session *domain.GameSession) error

	// Get returns a consistent snapshot of the session and the version
	// it was read at. Returns domain.ErrNotFound for unknown ids.
	Get(sessionID string) (*domain.GameSession, int64, error)

	// Put replaces the session if the stored version still equals
	// version, bumping it by one. Returns ErrVersionConflict otherwise.
	Put(session *domain.GameSession, version int64) error
}

// ProfileStore is the gateway to the externally-owned profile records.
type ProfileStore interface {
	// Get returns the profile, or domain.ErrNotFound.
	Get(playerID string) (domain.Profile, error)

	// Put stores the profile.
	Put(profile domain.Profile) error
}
