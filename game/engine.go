// Package game implements the session state machine: one operation per
// player action, each applied as an atomic read-modify-write against
// the session store. Handlers validate phase and turn first, then
// mutate the snapshot, then persist; the stored session is untouched
// whenever an action fails.
package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/dkralj/fircik/cards"
	"github.com/dkralj/fircik/domain"
	"github.com/dkralj/fircik/store"
	"github.com/sanity-io/litter"
)

const (
	// DefaultEntryCost is the per-player stake in coins.
	DefaultEntryCost = 10

	// DefaultTargetScore ends the game once a player or team reaches it.
	DefaultTargetScore = 12

	// maxUpdateRetries bounds the re-read/re-apply loop on write conflicts.
	maxUpdateRetries = 5
)

// Engine owns the store gateways and exposes the game operations.
type Engine struct {
	sessions store.SessionStore
	profiles store.ProfileStore

	// EntryCost is copied into every new session.
	EntryCost int

	// EnforceSuitFollowing rejects off-suit plays while a card of the
	// lead suit is still in hand. Off by default: the classic table
	// rule leaves following suit to the players.
	EnforceSuitFollowing bool

	notify func(*domain.GameSession)
}

// NewEngine creates an engine over the given stores.
func NewEngine(sessions store.SessionStore, profiles store.ProfileStore) *Engine {
	return &Engine{
		sessions:  sessions,
		profiles:  profiles,
		EntryCost: DefaultEntryCost,
	}
}

// OnUpdate registers a hook invoked with the new snapshot after every
// successfully applied action. Used by the transport layer to push
// state to subscribed clients.
func (e *Engine) OnUpdate(fn func(*domain.GameSession)) {
	e.notify = fn
}

// Init creates a session for the matched players, deals the first
// round and persists the record.
func (e *Engine) Init(sessionID string, players []domain.Player, variant domain.Variant) (*domain.GameSession, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("unsupported variant %d", variant)
	}
	if len(players) != variant.PlayerCount() {
		return nil, fmt.Errorf("variant %d needs %d players, got %d",
			variant, variant.PlayerCount(), len(players))
	}

	session := &domain.GameSession{
		ID:           sessionID,
		Variant:      variant,
		Players:      players,
		Status:       domain.StatusActive,
		Round:        1,
		TargetScore:  DefaultTargetScore,
		EntryCost:    e.EntryCost,
		CvancikCount: make(map[string]int, len(players)),
	}
	for _, p := range players {
		session.CvancikCount[p.ID] = 0
	}
	session.GamePoints = session.NewScoreMap()

	if err := e.dealRound(session); err != nil {
		return nil, err
	}

	if err := e.sessions.Create(session); err != nil {
		return nil, err
	}

	e.emit(session)
	return session, nil
}

// GetState returns a consistent snapshot for display. No lock is held;
// polling clients read whatever was last persisted.
func (e *Engine) GetState(sessionID string) (*domain.GameSession, error) {
	session, _, err := e.sessions.Get(sessionID)
	return session, err
}

// dealRound shuffles a fresh deck and deals it, resetting all
// round-scoped state. Game-scoped state (game points, cvancik counts,
// round counter) is left alone.
func (e *Engine) dealRound(s *domain.GameSession) error {
	deck := cards.ShuffleDeck(cards.NewDeck())
	dealt, err := domain.Deal(s.Variant, deck, s.Players)
	if err != nil {
		return err
	}

	s.Hands = dealt.Hands
	s.Talon = dealt.Talon
	s.TrumpSuit = ""
	s.TrumpCaller = ""
	s.AdditionalGame = ""
	s.PartnerCard = nil
	s.PartnerPlayerID = ""
	s.TeamsRevealed = false
	s.CurrentTrick = nil
	s.CompletedTricks = nil
	s.Bids = nil
	s.RoundScores = s.NewScoreMap()
	s.UnassignedScores = nil
	s.Phase = domain.PhaseBidding
	s.CurrentPlayerIndex = 0

	if err := s.CheckCardConservation(); err != nil {
		return e.dumpInvariant(s, err)
	}
	return nil
}

// update applies fn as an atomic read-modify-write. On a write conflict
// the action is re-read, re-validated and re-applied against the new
// snapshot rather than blindly overwriting.
func (e *Engine) update(sessionID string, fn func(*domain.GameSession) error) (*domain.GameSession, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		session, version, err := e.sessions.Get(sessionID)
		if err != nil {
			return nil, err
		}

		if err := fn(session); err != nil {
			return nil, err
		}

		err = e.sessions.Put(session, version)
		if errors.Is(err, store.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		e.emit(session)
		return session, nil
	}

	return nil, fmt.Errorf("session %s: gave up after %d conflicting updates", sessionID, maxUpdateRetries)
}

func (e *Engine) emit(s *domain.GameSession) {
	if e.notify != nil {
		e.notify(s)
	}
}

// dumpInvariant logs the broken session record before surfacing the
// error. These never fire for a well-formed caller.
func (e *Engine) dumpInvariant(s *domain.GameSession, err error) error {
	log.Printf("invariant violation in session %s: %v", s.ID, err)
	litter.D(s)
	return err
}

// requireActing validates status, phase and seat for an action taken on
// a player's own turn.
func requireActing(s *domain.GameSession, action, playerID string, phase domain.Phase) error {
	if s.Status != domain.StatusActive {
		return domain.PhaseMismatchErr(action, s.Phase)
	}
	if s.Phase != phase {
		return domain.PhaseMismatchErr(action, s.Phase)
	}
	seat := s.PlayerIndex(playerID)
	if seat == -1 {
		return domain.NotFoundErr("player", playerID)
	}
	if seat != s.CurrentPlayerIndex {
		return domain.TurnViolationErr(playerID)
	}
	return nil
}
