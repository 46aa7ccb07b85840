package domain

import "github.com/dkralj/fircik/cards"

// TrickWinner determines the winning play of a completed trick: the
// highest trump if any trump was played, otherwise the highest card of
// the lead suit.
func TrickWinner(trick []PlayedCard, trump cards.Suit) (PlayedCard, error) {
	if len(trick) == 0 {
		return PlayedCard{}, InvariantErr("cannot resolve an empty trick")
	}

	lead := trick[0].Suit
	best := trick[0]
	for _, pc := range trick[1:] {
		if pc.Card.Beats(best.Card, trump, lead) {
			best = pc
		}
	}

	return best, nil
}

// TrickPoints sums the point values of the cards in a trick.
func TrickPoints(trick []PlayedCard) int {
	points := 0
	for _, pc := range trick {
		points += pc.Points()
	}
	return points
}
