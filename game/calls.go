package game

import (
	"github.com/dkralj/fircik/cards"
	"github.com/dkralj/fircik/domain"
)

const (
	// maxCallsPerPlayer caps cvancik/fircik declarations per player for
	// the whole session.
	maxCallsPerPlayer = 3

	cvancikPoints = 20
	fircikPoints  = 40
)

// Call declares a king+queen pair: 20 points for a plain suit
// ("cvancik"), 40 for the trump suit ("fircik"). The declaration is
// independent of whose turn it is, but both cards must still be in the
// caller's hand.
func (e *Engine) Call(sessionID, playerID string, suit cards.Suit) (*domain.GameSession, error) {
	return e.update(sessionID, func(s *domain.GameSession) error {
		if s.Status != domain.StatusActive || s.Phase != domain.PhasePlaying {
			return domain.PhaseMismatchErr("call", s.Phase)
		}
		if s.PlayerIndex(playerID) == -1 {
			return domain.NotFoundErr("player", playerID)
		}
		if s.CvancikCount[playerID] >= maxCallsPerPlayer {
			return domain.CallIneligibleErr("%s has used all %d calls", playerID, maxCallsPerPlayer)
		}

		hand := s.Hands[playerID]
		king := cards.Card{Suit: suit, Rank: cards.King}
		queen := cards.Card{Suit: suit, Rank: cards.Queen}
		if !cards.Contains(hand, king) || !cards.Contains(hand, queen) {
			return domain.CallIneligibleErr("%s does not hold both %s and %s", playerID, king, queen)
		}

		points := cvancikPoints
		callType := "cvancik"
		if suit == s.TrumpSuit {
			points = fircikPoints
			callType = "fircik"
		}

		creditPoints(s, playerID, points)
		s.CvancikCount[playerID]++
		s.Calls = append(s.Calls, domain.Declaration{
			PlayerID: playerID,
			Type:     callType,
			Suit:     suit,
			Points:   points,
		})
		return nil
	})
}
