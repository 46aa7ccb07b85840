package game

import (
	"testing"

	"github.com/dkralj/fircik/cards"
	"github.com/dkralj/fircik/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callsSession gives Ana two king+queen pairs with hearts as trump.
func callsSession() *domain.GameSession {
	s := &domain.GameSession{
		ID:      "s1",
		Variant: domain.TwoPlayer,
		Players: gamePlayers(2),
		Phase:   domain.PhasePlaying,
		Status:  domain.StatusActive,
		Hands: map[string][]cards.Card{
			"Ana":   hand("K♣", "Q♣", "K♥", "Q♥", "7♠", "8♠"),
			"Marko": hand("9♠", "10♠", "J♠", "Q♠", "K♠", "A♠"),
		},
		TrumpSuit:    cards.Hearts,
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

func TestCallCvancikScoresTwenty(t *testing.T) {
	e, sessions, _ := testEngine()
	seedSession(t, sessions, callsSession())

	s, err := e.Call("s1", "Ana", cards.Clubs)
	require.NoError(t, err)

	assert.Equal(t, 20, s.RoundScores["Ana"])
	assert.Equal(t, 1, s.CvancikCount["Ana"])
	require.Len(t, s.Calls, 1)
	assert.Equal(t, "cvancik", s.Calls[0].Type)
}

func TestCallFircikScoresForty(t *testing.T) {
	e, sessions, _ := testEngine()
	seedSession(t, sessions, callsSession())

	s, err := e.Call("s1", "Ana", cards.Hearts)
	require.NoError(t, err)

	assert.Equal(t, 40, s.RoundScores["Ana"])
	require.Len(t, s.Calls, 1)
	assert.Equal(t, "fircik", s.Calls[0].Type)
}

func TestCallNeedsBothCourtCards(t *testing.T) {
	e, sessions, _ := testEngine()
	seedSession(t, sessions, callsSession())

	_, err := e.Call("s1", "Ana", cards.Diamonds)
	assert.ErrorIs(t, err, domain.ErrCallIneligible)

	// Marko does hold both spade court cards.
	s, err := e.Call("s1", "Marko", cards.Spades)
	require.NoError(t, err)
	assert.Equal(t, 20, s.RoundScores["Marko"])
}

func TestCallCappedPerPlayer(t *testing.T) {
	e, sessions, _ := testEngine()
	s := callsSession()
	s.CvancikCount["Ana"] = maxCallsPerPlayer
	seedSession(t, sessions, s)

	_, err := e.Call("s1", "Ana", cards.Clubs)
	assert.ErrorIs(t, err, domain.ErrCallIneligible)
}

func TestCallWrongPhase(t *testing.T) {
	e, _, _ := testEngine()
	_, err := e.Init("s1", gamePlayers(2), domain.TwoPlayer)
	require.NoError(t, err)

	_, err = e.Call("s1", "Ana", cards.Clubs)
	assert.ErrorIs(t, err, domain.ErrPhaseMismatch)
}

func TestCallIndependentOfTurn(t *testing.T) {
	e, sessions, _ := testEngine()
	s := callsSession()
	s.CurrentPlayerIndex = 1
	seedSession(t, sessions, s)

	got, err := e.Call("s1", "Ana", cards.Clubs)
	require.NoError(t, err)
	assert.Equal(t, 20, got.RoundScores["Ana"])
}
