package game

import (
	"github.com/dkralj/fircik/cards"
	"github.com/dkralj/fircik/domain"
)

// PlayCard moves a card from the acting player's hand into the open
// trick. A full trick is resolved immediately: the winner takes the
// points and leads the next one. When the last hand empties, the round
// is scored and either a new round is dealt or the game finishes with
// payouts applied to the players' profiles.
func (e *Engine) PlayCard(sessionID, playerID string, card cards.Card) (*domain.GameSession, error) {
	var finished bool

	session, err := e.update(sessionID, func(s *domain.GameSession) error {
		finished = false

		if err := requireActing(s, "play", playerID, domain.PhasePlaying); err != nil {
			return err
		}
		if !cards.Contains(s.Hands[playerID], card) {
			return domain.IllegalCardErr("%s is not in %s's hand", card, playerID)
		}
		if e.EnforceSuitFollowing && len(s.CurrentTrick) > 0 {
			lead := s.CurrentTrick[0].Suit
			if card.Suit != lead && hasSuit(s.Hands[playerID], lead) {
				return domain.IllegalCardErr("must follow suit %s", lead)
			}
		}

		s.Hands[playerID], _ = cards.Remove(s.Hands[playerID], card)
		s.CurrentTrick = append(s.CurrentTrick, domain.PlayedCard{Card: card, PlayerID: playerID})

		// The play just made may be the claimed partner card; from that
		// moment the partnership is public and fixed for the round.
		if s.Variant == domain.FourPlayer && !s.TeamsRevealed {
			if partner := domain.ResolvePartner(s); partner != "" {
				s.PartnerPlayerID = partner
				s.TeamsRevealed = true
				flushUnassigned(s)
			}
		}

		if len(s.CurrentTrick) < len(s.Players) {
			s.AdvanceTurn()
			return nil
		}

		winner, err := domain.TrickWinner(s.CurrentTrick, s.TrumpSuit)
		if err != nil {
			return e.dumpInvariant(s, err)
		}
		points := domain.TrickPoints(s.CurrentTrick)
		creditPoints(s, winner.PlayerID, points)

		s.CompletedTricks = append(s.CompletedTricks, domain.Trick{
			Cards:    s.CurrentTrick,
			WinnerID: winner.PlayerID,
			Points:   points,
		})
		s.CurrentTrick = nil
		s.CurrentPlayerIndex = s.PlayerIndex(winner.PlayerID)

		if err := s.CheckCardConservation(); err != nil {
			return e.dumpInvariant(s, err)
		}

		if !s.AllHandsEmpty() {
			return nil
		}

		done, err := e.resolveRound(s)
		if err != nil {
			return err
		}
		finished = done
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Payouts run after the finished session has been persisted, so a
	// conflicting retry can never charge anyone twice.
	if finished {
		e.applyPayouts(session)
	}

	return session, nil
}

func hasSuit(hand []cards.Card, suit cards.Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}
