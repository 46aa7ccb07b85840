package game

import (
	"testing"

	"github.com/dkralj/fircik/cards"
	"github.com/dkralj/fircik/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scoredSession3p is a three-player session at the end of a round, with
// Ana as the trump caller and the card points already booked.
func scoredSession3p(ana, marko, jovan int, lastWinner string) *domain.GameSession {
	s := &domain.GameSession{
		ID:          "s1",
		Variant:     domain.ThreePlayer,
		Players:     gamePlayers(3),
		Phase:       domain.PhasePlaying,
		Status:      domain.StatusActive,
		Hands:       map[string][]cards.Card{},
		TrumpSuit:   cards.Spades,
		TrumpCaller: "Ana",
		Round:       1,
		TargetScore: DefaultTargetScore,
		EntryCost:   DefaultEntryCost,
		CompletedTricks: []domain.Trick{
			{WinnerID: lastWinner},
		},
	}
	s.GamePoints = s.NewScoreMap()
	s.RoundScores = map[string]int{"Ana": ana, "Marko": marko, "Jovan": jovan}
	return s
}

func TestResolveRoundCallerWins(t *testing.T) {
	e, _, _ := testEngine()
	s := scoredSession3p(35, 21, 20, "Ana")

	// The bonus lifts Ana to 45 against the defenders' 41.
	finished, err := e.resolveRound(s)
	require.NoError(t, err)
	assert.False(t, finished)

	assert.Equal(t, 1, s.GamePoints["Ana"])
	assert.Equal(t, 0, s.GamePoints["Marko"])
	assert.Equal(t, 0, s.GamePoints["Jovan"])

	// And the next round is already on the table.
	assert.Equal(t, 2, s.Round)
	assert.Equal(t, domain.PhaseBidding, s.Phase)
	for _, p := range s.Players {
		assert.Len(t, s.Hands[p.ID], 10)
	}
}

func TestResolveRoundDefendersEachScore(t *testing.T) {
	e, _, _ := testEngine()
	s := scoredSession3p(30, 25, 20, "Jovan")

	finished, err := e.resolveRound(s)
	require.NoError(t, err)
	assert.False(t, finished)

	assert.Equal(t, 0, s.GamePoints["Ana"])
	assert.Equal(t, 1, s.GamePoints["Marko"])
	assert.Equal(t, 1, s.GamePoints["Jovan"])
}

func TestResolveRoundTieScoresNobody(t *testing.T) {
	e, _, _ := testEngine()
	s := scoredSession3p(45, 25, 10, "Jovan")

	// 45 against 45 once the bonus lands on a defender.
	finished, err := e.resolveRound(s)
	require.NoError(t, err)
	assert.False(t, finished)

	for _, key := range s.ScoreKeys() {
		assert.Equal(t, 0, s.GamePoints[key])
	}
	assert.Equal(t, 2, s.Round, "a drawn round still moves on")
}

func TestResolveRoundReachingTargetFinishes(t *testing.T) {
	e, _, _ := testEngine()
	s := scoredSession3p(35, 21, 20, "Ana")
	s.GamePoints["Ana"] = 11

	finished, err := e.resolveRound(s)
	require.NoError(t, err)
	assert.True(t, finished)

	assert.Equal(t, domain.StatusFinished, s.Status)
	assert.Equal(t, "Ana", s.Winner)
	assert.Equal(t, 12, s.GamePoints["Ana"])
	assert.Equal(t, 1, s.Round, "no further round is dealt")
}

func TestResolveRoundRefusesStrandedPoints(t *testing.T) {
	// If the claimed card never surfaced, deferred points cannot be
	// attributed to a team; the round must fail loudly, not score 0-0.
	e, _, _ := testEngine()

	claim := cards.MustCard("A♦")
	s := &domain.GameSession{
		ID:          "s1",
		Variant:     domain.FourPlayer,
		Players:     gamePlayers(4),
		Phase:       domain.PhasePlaying,
		Status:      domain.StatusActive,
		Hands:       map[string][]cards.Card{},
		TrumpSuit:   cards.Hearts,
		TrumpCaller: "Ana",
		PartnerCard: &claim,
		Round:       1,
		TargetScore: DefaultTargetScore,
		CompletedTricks: []domain.Trick{
			{WinnerID: "Ana"},
		},
		UnassignedScores: map[string]int{"Marko": 40},
	}
	s.GamePoints = s.NewScoreMap()
	s.RoundScores = s.NewScoreMap()
	s.RoundScores[domain.Team1] = 50

	_, err := e.resolveRound(s)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Equal(t, 0, s.GamePoints[domain.Team1], "no game point on a broken round")
}

func TestRoundWinnersFourPlayerTeams(t *testing.T) {
	s := &domain.GameSession{
		Variant:     domain.FourPlayer,
		Players:     gamePlayers(4),
		RoundScores: map[string]int{domain.Team1: 90, domain.Team2: 100},
	}
	assert.Equal(t, []string{domain.Team2}, roundWinners(s))

	s.RoundScores[domain.Team1] = 100
	assert.Nil(t, roundWinners(s), "exact tie gains nobody anything")
}

func TestCreditPointsDeferredForUnknownTeam(t *testing.T) {
	claim := cards.MustCard("A♦")
	s := &domain.GameSession{
		Variant:     domain.FourPlayer,
		Players:     gamePlayers(4),
		TrumpCaller: "Ana",
		PartnerCard: &claim,
	}
	s.RoundScores = s.NewScoreMap()

	creditPoints(s, "Ana", 10)
	assert.Equal(t, 10, s.RoundScores[domain.Team1], "the caller is always team1")

	creditPoints(s, "Marko", 20)
	assert.Equal(t, 20, s.UnassignedScores["Marko"])

	s.TeamsRevealed = true
	s.PartnerPlayerID = "Jovan"
	flushUnassigned(s)

	assert.Equal(t, 20, s.RoundScores[domain.Team2])
	assert.Nil(t, s.UnassignedScores)
}
