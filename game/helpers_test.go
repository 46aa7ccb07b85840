package game

import (
	"testing"

	"github.com/dkralj/fircik/cards"
	"github.com/dkralj/fircik/domain"
	"github.com/dkralj/fircik/store"
	"github.com/stretchr/testify/require"
)

func testEngine() (*Engine, *store.MemorySessionStore, *store.MemoryProfileStore) {
	sessions := store.NewMemorySessionStore()
	profiles := store.NewMemoryProfileStore()
	return NewEngine(sessions, profiles), sessions, profiles
}

func gamePlayers(n int) []domain.Player {
	names := []string{"Ana", "Marko", "Jovan", "Mila"}
	players := make([]domain.Player, 0, n)
	for _, name := range names[:n] {
		players = append(players, domain.Player{ID: name, Name: name})
	}
	return players
}

func hand(specs ...string) []cards.Card {
	out := make([]cards.Card, 0, len(specs))
	for _, s := range specs {
		out = append(out, cards.MustCard(s))
	}
	return out
}

// playingSession2p is a rigged two-player session already in the playing
// phase: Ana holds spades up to the queen, Marko the top spades plus
// hearts. With hearts as trump Marko takes every trick.
func playingSession2p(trump cards.Suit) *domain.GameSession {
	s := &domain.GameSession{
		ID:      "s1",
		Variant: domain.TwoPlayer,
		Players: gamePlayers(2),
		Phase:   domain.PhasePlaying,
		Status:  domain.StatusActive,
		Hands: map[string][]cards.Card{
			"Ana":   hand("7♠", "8♠", "9♠", "10♠", "J♠", "Q♠"),
			"Marko": hand("K♠", "A♠", "7♥", "8♥", "9♥", "10♥"),
		},
		TrumpSuit:    trump,
		TrumpCaller:  "Ana",
		Round:        1,
		TargetScore:  DefaultTargetScore,
		EntryCost:    DefaultEntryCost,
		CvancikCount: map[string]int{"Ana": 0, "Marko": 0},
	}
	s.RoundScores = s.NewScoreMap()
	s.GamePoints = s.NewScoreMap()
	return s
}

func seedSession(t *testing.T, sessions *store.MemorySessionStore, s *domain.GameSession) {
	t.Helper()
	require.NoError(t, sessions.Create(s))
}
