package game

import (
	"fmt"

	"github.com/dkralj/fircik/cards"
	"github.com/dkralj/fircik/domain"
)

// Bid records a pass or a trump call for the player whose turn it is.
// When every seat has passed the round is redealt without scoring. A
// call fixes the trump suit and moves the round towards play: via the
// talon exchange for three players, via the second deal for four.
func (e *Engine) Bid(sessionID, playerID string, action domain.BidAction, trumpSuit cards.Suit, additionalGame string, partnerCard *cards.Card) (*domain.GameSession, error) {
	return e.update(sessionID, func(s *domain.GameSession) error {
		if err := requireActing(s, "bid", playerID, domain.PhaseBidding); err != nil {
			return err
		}

		switch action {
		case domain.BidPass:
			s.Bids = append(s.Bids, domain.Bid{PlayerID: playerID, Action: domain.BidPass})
			s.AdvanceTurn()

			if countPasses(s.Bids) == len(s.Players) {
				// Nobody wants it: same round, fresh deck, no score change.
				return e.dealRound(s)
			}
			return nil

		case domain.BidCall:
			if !validSuit(trumpSuit) {
				return domain.IllegalCardErr("unknown trump suit %q", trumpSuit)
			}
			if s.Variant == domain.FourPlayer {
				if partnerCard == nil {
					return domain.IllegalCardErr("a partner card claim is required to call trump")
				}
				// A claim outside the deck could never be played, which
				// would leave the partnership unresolvable all round.
				if !partnerCard.Valid() {
					return domain.IllegalCardErr("%s is not a deck card", *partnerCard)
				}
			}

			s.Bids = append(s.Bids, domain.Bid{
				PlayerID:       playerID,
				Action:         domain.BidCall,
				TrumpSuit:      trumpSuit,
				AdditionalGame: additionalGame,
				PartnerCard:    partnerCard,
			})

			s.TrumpCaller = playerID
			s.TrumpSuit = trumpSuit
			s.AdditionalGame = additionalGame
			callerSeat := s.PlayerIndex(playerID)

			switch {
			case s.Variant == domain.ThreePlayer && len(s.Talon) == 2:
				s.Phase = domain.PhaseTalonExchange
				s.CurrentPlayerIndex = callerSeat

			case s.Variant == domain.FourPlayer:
				s.PartnerCard = partnerCard
				if err := domain.SecondDeal(s); err != nil {
					return e.dumpInvariant(s, err)
				}
				s.Phase = domain.PhasePlaying
				s.CurrentPlayerIndex = callerSeat
				if err := s.CheckCardConservation(); err != nil {
					return e.dumpInvariant(s, err)
				}

			default:
				s.Phase = domain.PhasePlaying
				s.CurrentPlayerIndex = callerSeat
			}
			return nil

		default:
			return fmt.Errorf("unknown bid action %q", action)
		}
	})
}

// ExchangeTalon swaps the two talon cards into the trump caller's hand
// against two returned cards. Aces and tens never go back: their ten
// points would be buried until round end.
func (e *Engine) ExchangeTalon(sessionID, playerID string, returned []cards.Card) (*domain.GameSession, error) {
	return e.update(sessionID, func(s *domain.GameSession) error {
		if s.Status != domain.StatusActive || s.Phase != domain.PhaseTalonExchange {
			return domain.PhaseMismatchErr("exchange talon", s.Phase)
		}
		if playerID != s.TrumpCaller {
			return domain.TurnViolationErr(playerID)
		}
		if len(returned) != 2 {
			return domain.IllegalCardErr("must return exactly two cards, got %d", len(returned))
		}
		if returned[0].Equals(returned[1]) {
			return domain.IllegalCardErr("returned cards must differ")
		}
		for _, c := range returned {
			if c.Rank == cards.Ace || c.Rank == cards.Ten {
				return domain.IllegalCardErr("%s may not be returned to the talon", c)
			}
		}

		// The talon joins the hand first, so a just-picked-up talon card
		// may go straight back.
		hand := append(append([]cards.Card{}, s.Hands[playerID]...), s.Talon...)
		for _, c := range returned {
			var ok bool
			if hand, ok = cards.Remove(hand, c); !ok {
				return domain.IllegalCardErr("%s is not in the caller's hand", c)
			}
		}

		s.Hands[playerID] = hand
		s.Talon = append([]cards.Card{}, returned...)
		s.Phase = domain.PhasePlaying
		s.CurrentPlayerIndex = s.PlayerIndex(playerID)

		if err := s.CheckCardConservation(); err != nil {
			return e.dumpInvariant(s, err)
		}
		return nil
	})
}

func countPasses(bids []domain.Bid) int {
	passes := 0
	for _, b := range bids {
		if b.Action == domain.BidPass {
			passes++
		}
	}
	return passes
}

func validSuit(suit cards.Suit) bool {
	for _, s := range cards.Suits() {
		if s == suit {
			return true
		}
	}
	return false
}
