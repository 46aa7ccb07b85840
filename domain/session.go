package domain

import (
	"encoding/json"

	"github.com/dkralj/fircik/cards"
)

// Variant is the table size; it fixes the deal shape and the scoring
// scheme for the whole session.
type Variant int

const (
	TwoPlayer   Variant = 2
	ThreePlayer Variant = 3
	FourPlayer  Variant = 4
)

// Valid reports whether the variant is one of the supported table sizes.
func (v Variant) Valid() bool {
	return v == TwoPlayer || v == ThreePlayer || v == FourPlayer
}

// PlayerCount returns the number of seats for the variant.
func (v Variant) PlayerCount() int {
	return int(v)
}

// Phase represents the lifecycle stage of a round.
type Phase string

const (
	// PhaseBidding is where players pass or call trump in seat order.
	PhaseBidding Phase = "bidding"
	// PhaseTalonExchange waits for the trump caller to swap two cards
	// with the talon (3-player only).
	PhaseTalonExchange Phase = "talon-exchange"
	// PhasePlaying is the trick-taking stage.
	PhasePlaying Phase = "playing"
)

// Status is the session-level lifecycle.
type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// BidAction is what a player does on their bidding turn.
type BidAction string

const (
	BidPass BidAction = "pass"
	BidCall BidAction = "call"
)

// Bid is one entry in the round's append-only bid list.
type Bid struct {
	PlayerID       string      `json:"playerId"`
	Action         BidAction   `json:"action"`
	TrumpSuit      cards.Suit  `json:"trumpSuit,omitempty"`
	AdditionalGame string      `json:"additionalGame,omitempty"`
	PartnerCard    *cards.Card `json:"partnerCard,omitempty"`
}

// PlayedCard is a card together with the player who put it down.
type PlayedCard struct {
	cards.Card
	PlayerID string `json:"playerId"`
}

// Trick is an immutable record of a resolved trick.
type Trick struct {
	Cards    []PlayedCard `json:"cards"`
	WinnerID string       `json:"winner"`
	Points   int          `json:"points"`
}

// Declaration records a Cvancik or Fircik call.
type Declaration struct {
	PlayerID string     `json:"playerId"`
	Type     string     `json:"type"` // "cvancik" or "fircik"
	Suit     cards.Suit `json:"suit"`
	Points   int        `json:"points"`
}

// Score map keys for the 4-player team variant. The trump caller's side
// is always team1.
const (
	Team1 = "team1"
	Team2 = "team2"
)

// GameSession is the root aggregate. It owns hands, talon, trick and
// score state exclusively; players are held as display copies. It is a
// single JSON-serializable record and is only mutated through the
// engine's action handlers.
type GameSession struct {
	ID      string   `json:"id"`
	Variant Variant  `json:"variant"`
	Players []Player `json:"players"`
	Phase   Phase    `json:"phase"`
	Status  Status   `json:"status"`

	Hands map[string][]cards.Card `json:"hands"`
	Talon []cards.Card            `json:"talon,omitempty"` // 3-player only

	TrumpSuit      cards.Suit `json:"trumpSuit,omitempty"`
	TrumpCaller    string     `json:"trumpCaller,omitempty"`
	AdditionalGame string     `json:"additionalGame,omitempty"`

	// 4-player hidden partnership.
	PartnerCard     *cards.Card `json:"partnerCard,omitempty"`
	PartnerPlayerID string      `json:"partnerPlayerId,omitempty"`
	TeamsRevealed   bool        `json:"teamsRevealed,omitempty"`

	CurrentTrick    []PlayedCard  `json:"currentTrick"`
	CompletedTricks []Trick       `json:"completedTricks"`
	Bids            []Bid         `json:"bids"`
	Calls           []Declaration `json:"calls,omitempty"`

	CurrentPlayerIndex int `json:"currentPlayerIndex"`

	// Keyed by player id, or by team1/team2 in the 4-player variant.
	RoundScores map[string]int `json:"roundScores"`
	GamePoints  map[string]int `json:"gamePoints"`

	// 4-player: points earned by a player whose team is not yet known.
	// Flushed into RoundScores once the partnership resolves.
	UnassignedScores map[string]int `json:"unassignedScores,omitempty"`

	CvancikCount map[string]int `json:"cvancikCount"`

	Round       int    `json:"round"`
	TargetScore int    `json:"targetScore"`
	EntryCost   int    `json:"entryCost"`
	Winner      string `json:"winner,omitempty"`

	// Populated only on redacted views; real hands are omitted there.
	HandSizes map[string]int `json:"handSizes,omitempty"`
}

// PlayerIndex returns the seat of the given player, or -1.
func (s *GameSession) PlayerIndex(playerID string) int {
	for i, p := range s.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameSession) CurrentPlayer() Player {
	return s.Players[s.CurrentPlayerIndex]
}

// AdvanceTurn moves the turn to the next seat, circularly.
func (s *GameSession) AdvanceTurn() {
	s.CurrentPlayerIndex = (s.CurrentPlayerIndex + 1) % len(s.Players)
}

// HandOf returns the hand of the given player.
func (s *GameSession) HandOf(playerID string) []cards.Card {
	return s.Hands[playerID]
}

// AllHandsEmpty reports whether every hand has been played out.
func (s *GameSession) AllHandsEmpty() bool {
	for _, hand := range s.Hands {
		if len(hand) > 0 {
			return false
		}
	}
	return true
}

// ScoreKeys returns the entities scores are kept for: team1/team2 in
// the 4-player variant, individual player ids otherwise.
func (s *GameSession) ScoreKeys() []string {
	if s.Variant == FourPlayer {
		return []string{Team1, Team2}
	}
	keys := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		keys = append(keys, p.ID)
	}
	return keys
}

// NewScoreMap returns a zeroed score map for this session's entities.
func (s *GameSession) NewScoreMap() map[string]int {
	m := make(map[string]int)
	for _, key := range s.ScoreKeys() {
		m[key] = 0
	}
	return m
}

// Clone deep-copies the session via its serialized form. The session is
// persisted as a single record, so the round-trip is exact.
func (s *GameSession) Clone() (*GameSession, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out GameSession
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RedactFor returns a display copy with everything the viewer must not
// see removed: other players' hands become counts, and the talon stays
// concealed until the round ends. An empty viewerID redacts everything.
func (s *GameSession) RedactFor(viewerID string) (*GameSession, error) {
	view, err := s.Clone()
	if err != nil {
		return nil, err
	}

	view.HandSizes = make(map[string]int, len(view.Hands))
	for id, hand := range view.Hands {
		view.HandSizes[id] = len(hand)
		if id != viewerID {
			delete(view.Hands, id)
		}
	}

	if view.Phase != PhaseTalonExchange || viewerID != view.TrumpCaller {
		view.Talon = nil
	}

	return view, nil
}

// dealtCardCount is how many cards should be in circulation (hands,
// talon, current trick, trick history) for the session's variant and
// phase.
func (s *GameSession) dealtCardCount() int {
	switch s.Variant {
	case TwoPlayer:
		return 12
	case ThreePlayer:
		return cards.DeckSize
	case FourPlayer:
		// Second deal happens when trump is called.
		if s.Phase == PhaseBidding {
			return 16
		}
		return cards.DeckSize
	}
	return 0
}

// CheckCardConservation verifies that no card has been duplicated or
// lost across hands, talon, the open trick and the trick history.
func (s *GameSession) CheckCardConservation() error {
	seen := make(map[cards.Card]bool)
	total := 0

	track := func(c cards.Card) error {
		if seen[c] {
			return InvariantErr("card %s appears twice in session %s", c, s.ID)
		}
		seen[c] = true
		total++
		return nil
	}

	for _, hand := range s.Hands {
		for _, c := range hand {
			if err := track(c); err != nil {
				return err
			}
		}
	}
	for _, c := range s.Talon {
		if err := track(c); err != nil {
			return err
		}
	}
	for _, pc := range s.CurrentTrick {
		if err := track(pc.Card); err != nil {
			return err
		}
	}
	for _, trick := range s.CompletedTricks {
		for _, pc := range trick.Cards {
			if err := track(pc.Card); err != nil {
				return err
			}
		}
	}

	if want := s.dealtCardCount(); total != want {
		return InvariantErr("session %s tracks %d cards, want %d", s.ID, total, want)
	}

	return nil
}
