package game

import (
	"errors"
	"log"

	"github.com/dkralj/fircik/domain"
)

// lastTrickBonus is added on top of the card points of the trick that
// ends a round.
const lastTrickBonus = 10

// creditPoints books points for a player. In the 4-player variant the
// points go to the player's team; while the partnership is still hidden
// they wait in the unassigned bucket so nothing is counted twice.
func creditPoints(s *domain.GameSession, playerID string, points int) {
	if s.Variant != domain.FourPlayer {
		s.RoundScores[playerID] += points
		return
	}

	if team, ok := domain.TeamOf(s, playerID); ok {
		s.RoundScores[team] += points
		return
	}

	if s.UnassignedScores == nil {
		s.UnassignedScores = make(map[string]int)
	}
	s.UnassignedScores[playerID] += points
}

// flushUnassigned moves deferred points into team scores once the
// partnership is known.
func flushUnassigned(s *domain.GameSession) {
	for playerID, points := range s.UnassignedScores {
		if team, ok := domain.TeamOf(s, playerID); ok {
			s.RoundScores[team] += points
			delete(s.UnassignedScores, playerID)
		}
	}
	if len(s.UnassignedScores) == 0 {
		s.UnassignedScores = nil
	}
}

// resolveRound scores a played-out round: last-trick bonus, per-variant
// comparison, game-point increments. It either finishes the game
// (returning true) or deals the next round.
func (e *Engine) resolveRound(s *domain.GameSession) (bool, error) {
	last := s.CompletedTricks[len(s.CompletedTricks)-1]
	creditPoints(s, last.WinnerID, lastTrickBonus)

	// All cards are on the table now, so in a 4-player round the partner
	// card has necessarily been played and everything is attributable.
	// Points still stranded after the flush mean the claim was never
	// played; refusing to score beats discarding them.
	if s.Variant == domain.FourPlayer {
		flushUnassigned(s)
		if len(s.UnassignedScores) > 0 {
			return false, e.dumpInvariant(s, domain.InvariantErr(
				"round ended with unattributed points %v", s.UnassignedScores))
		}
	}

	for _, key := range roundWinners(s) {
		s.GamePoints[key]++
	}

	leader, points := leadingEntity(s)
	if points >= s.TargetScore {
		s.Status = domain.StatusFinished
		s.Winner = leader
		return true, nil
	}

	// No winner, or the game goes on: next round, fresh deal.
	s.Round++
	return false, e.dealRound(s)
}

// roundWinners returns the score keys that gain a game point for this
// round. Exact ties gain nobody anything.
func roundWinners(s *domain.GameSession) []string {
	switch s.Variant {
	case domain.TwoPlayer:
		a, b := s.Players[0].ID, s.Players[1].ID
		if s.RoundScores[a] > s.RoundScores[b] {
			return []string{a}
		}
		if s.RoundScores[b] > s.RoundScores[a] {
			return []string{b}
		}
		return nil

	case domain.ThreePlayer:
		// The caller plays alone against the other two; on a defender
		// win each defender scores.
		callerScore := s.RoundScores[s.TrumpCaller]
		defendersScore := 0
		var defenders []string
		for _, p := range s.Players {
			if p.ID != s.TrumpCaller {
				defendersScore += s.RoundScores[p.ID]
				defenders = append(defenders, p.ID)
			}
		}
		if callerScore > defendersScore {
			return []string{s.TrumpCaller}
		}
		if defendersScore > callerScore {
			return defenders
		}
		return nil

	case domain.FourPlayer:
		if s.RoundScores[domain.Team1] > s.RoundScores[domain.Team2] {
			return []string{domain.Team1}
		}
		if s.RoundScores[domain.Team2] > s.RoundScores[domain.Team1] {
			return []string{domain.Team2}
		}
		return nil
	}
	return nil
}

// leadingEntity returns the score key with the most game points.
func leadingEntity(s *domain.GameSession) (string, int) {
	best := ""
	bestPoints := -1
	for _, key := range s.ScoreKeys() {
		if s.GamePoints[key] > bestPoints {
			best = key
			bestPoints = s.GamePoints[key]
		}
	}
	return best, bestPoints
}

// applyPayouts settles every participant's profile after a finished
// game: play count, win/loss balance movement and accumulated poeni.
// Profile writes happen outside the session update so a storage retry
// can never apply them twice.
func (e *Engine) applyPayouts(s *domain.GameSession) {
	for _, player := range s.Players {
		won := false
		gamePoints := 0

		if s.Variant == domain.FourPlayer {
			team, ok := domain.TeamOf(s, player.ID)
			if !ok {
				// Should not happen in a finished game.
				log.Printf("payout: team for %s unresolved in session %s", player.ID, s.ID)
				continue
			}
			won = team == s.Winner
			gamePoints = s.GamePoints[team]
		} else {
			won = player.ID == s.Winner
			gamePoints = s.GamePoints[player.ID]
		}

		profile, err := e.profiles.Get(player.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Printf("payout: load profile %s: %v", player.ID, err)
			continue
		}
		profile.PlayerID = player.ID

		profile.ApplyResult(won, s.EntryCost, gamePoints)

		if err := e.profiles.Put(profile); err != nil {
			log.Printf("payout: store profile %s: %v", player.ID, err)
		}
	}
}
