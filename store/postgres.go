package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dkralj/fircik/domain"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore keeps session and profile records in two key/value
// tables. The record body is a single JSONB column; sessions add a
// version column for optimistic concurrency.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database, verifies the connection
// and ensures the schema exists.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.ensureSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS game_sessions (
			id      TEXT PRIMARY KEY,
			data    JSONB NOT NULL,
			version BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS player_profiles (
			player_id TEXT PRIMARY KEY,
			data      JSONB NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Create stores a new session at version 1.
func (s *PostgresStore) Create(session *domain.GameSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO game_sessions (id, data, version) VALUES ($1, $2, 1)
		 ON CONFLICT (id) DO NOTHING`,
		session.ID, raw,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if inserted == 0 {
		return ErrVersionConflict
	}
	return nil
}

// Get returns the session and the version it was read at.
func (s *PostgresStore) Get(sessionID string) (*domain.GameSession, int64, error) {
	var raw []byte
	var version int64

	err := s.db.QueryRow(
		`SELECT data, version FROM game_sessions WHERE id = $1`,
		sessionID,
	).Scan(&raw, &version)
	if err == sql.ErrNoRows {
		return nil, 0, domain.NotFoundErr("session", sessionID)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("select session: %w", err)
	}

	var session domain.GameSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, 0, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &session, version, nil
}

// Put replaces the session record if the version still matches.
func (s *PostgresStore) Put(session *domain.GameSession, version int64) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	result, err := s.db.Exec(
		`UPDATE game_sessions SET data = $2, version = version + 1
		 WHERE id = $1 AND version = $3`,
		session.ID, raw, version,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		// Either the row is gone or someone got there first.
		var exists bool
		if err := s.db.QueryRow(
			`SELECT EXISTS (SELECT 1 FROM game_sessions WHERE id = $1)`,
			session.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check session: %w", err)
		}
		if !exists {
			return domain.NotFoundErr("session", session.ID)
		}
		return ErrVersionConflict
	}
	return nil
}

// GetProfile returns the stored profile for the player.
func (s *PostgresStore) GetProfile(playerID string) (domain.Profile, error) {
	var raw []byte

	err := s.db.QueryRow(
		`SELECT data FROM player_profiles WHERE player_id = $1`,
		playerID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.Profile{}, domain.NotFoundErr("profile", playerID)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("select profile: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("unmarshal profile %s: %w", playerID, err)
	}
	return profile, nil
}

// PutProfile stores the profile, keyed by its player id.
func (s *PostgresStore) PutProfile(profile domain.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO player_profiles (player_id, data) VALUES ($1, $2)
		 ON CONFLICT (player_id) DO UPDATE SET data = EXCLUDED.data`,
		profile.PlayerID, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Profiles adapts the store to the ProfileStore interface.
func (s *PostgresStore) Profiles() ProfileStore {
	return postgresProfiles{s}
}

type postgresProfiles struct{ store *PostgresStore }

func (p postgresProfiles) Get(playerID string) (domain.Profile, error) {
	return p.store.GetProfile(playerID)
}

func (p postgresProfiles) Put(profile domain.Profile) error {
	return p.store.PutProfile(profile)
}
