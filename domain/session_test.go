package domain

import (
	"testing"

	"github.com/dkralj/fircik/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dealtSession(t *testing.T, variant Variant) *GameSession {
	t.Helper()

	players := testPlayers(variant.PlayerCount())
	result, err := Deal(variant, cards.ShuffleDeck(cards.NewDeck()), players)
	require.NoError(t, err)

	s := &GameSession{
		ID:      "s1",
		Variant: variant,
		Players: players,
		Phase:   PhaseBidding,
		Status:  StatusActive,
		Hands:   result.Hands,
		Talon:   result.Talon,
		Round:   1,
	}
	s.RoundScores = s.NewScoreMap()
	s.GamePoints = s.NewScoreMap()
	return s
}

func TestCardConservationAcceptsFreshDeal(t *testing.T) {
	for _, variant := range []Variant{TwoPlayer, ThreePlayer, FourPlayer} {
		s := dealtSession(t, variant)
		assert.NoError(t, s.CheckCardConservation(), "variant %d", variant)
	}
}

func TestCardConservationCatchesDuplicate(t *testing.T) {
	s := dealtSession(t, ThreePlayer)

	ana := s.Players[0].ID
	marko := s.Players[1].ID
	s.Hands[marko][0] = s.Hands[ana][0]

	assert.ErrorIs(t, s.CheckCardConservation(), ErrInvariantViolation)
}

func TestCardConservationCatchesLostCard(t *testing.T) {
	s := dealtSession(t, ThreePlayer)

	ana := s.Players[0].ID
	s.Hands[ana] = s.Hands[ana][1:]

	assert.ErrorIs(t, s.CheckCardConservation(), ErrInvariantViolation)
}

func TestCloneIsIndependent(t *testing.T) {
	s := dealtSession(t, TwoPlayer)

	clone, err := s.Clone()
	require.NoError(t, err)

	ana := s.Players[0].ID
	clone.Hands[ana] = nil
	clone.GamePoints[ana] = 5

	assert.Len(t, s.Hands[ana], 6, "mutating the clone must not touch the original")
	assert.Equal(t, 0, s.GamePoints[ana])
}

func TestRedactForHidesOtherHands(t *testing.T) {
	s := dealtSession(t, ThreePlayer)
	ana, marko := s.Players[0].ID, s.Players[1].ID

	view, err := s.RedactFor(ana)
	require.NoError(t, err)

	assert.Len(t, view.Hands[ana], 10, "viewer keeps their own hand")
	assert.NotContains(t, view.Hands, marko)
	assert.Equal(t, 10, view.HandSizes[marko], "hidden hands show as counts")
	assert.Empty(t, view.Talon, "talon stays concealed")
}

func TestRedactForShowsTalonToCallerDuringExchange(t *testing.T) {
	s := dealtSession(t, ThreePlayer)
	ana := s.Players[0].ID
	s.Phase = PhaseTalonExchange
	s.TrumpCaller = ana

	view, err := s.RedactFor(ana)
	require.NoError(t, err)
	assert.Len(t, view.Talon, 2)

	other, err := s.RedactFor(s.Players[1].ID)
	require.NoError(t, err)
	assert.Empty(t, other.Talon)
}

func TestAdvanceTurnWrapsAround(t *testing.T) {
	s := dealtSession(t, ThreePlayer)
	s.CurrentPlayerIndex = 2

	s.AdvanceTurn()
	assert.Equal(t, 0, s.CurrentPlayerIndex)
}

func TestScoreKeysPerVariant(t *testing.T) {
	s := dealtSession(t, FourPlayer)
	assert.ElementsMatch(t, []string{Team1, Team2}, s.ScoreKeys())

	s = dealtSession(t, ThreePlayer)
	assert.Len(t, s.ScoreKeys(), 3)
}
