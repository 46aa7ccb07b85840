package domain

import (
	"fmt"

	"github.com/dkralj/fircik/cards"
)

// DealResult is a fresh set of hands plus, for the 3-player variant,
// the two-card talon.
type DealResult struct {
	Hands map[string][]cards.Card
	Talon []cards.Card
}

// Deal carves a shuffled deck into hands according to the variant:
//
//	2 players: 6 cards each, the rest stays out of the round
//	3 players: 5 each, 2 to the talon, then 5 more (12 each, 32 consumed)
//	4 players: 4 each; the second half is dealt only after trump is called
func Deal(variant Variant, deck []cards.Card, players []Player) (DealResult, error) {
	if !variant.Valid() {
		return DealResult{}, fmt.Errorf("unsupported variant %d", variant)
	}
	if len(players) != variant.PlayerCount() {
		return DealResult{}, fmt.Errorf("variant %d needs %d players, got %d",
			variant, variant.PlayerCount(), len(players))
	}
	if err := cards.ValidateDeck(deck); err != nil {
		return DealResult{}, InvariantErr("refusing to deal: %v", err)
	}

	hands := make(map[string][]cards.Card, len(players))
	result := DealResult{Hands: hands}

	switch variant {
	case TwoPlayer:
		for _, p := range players {
			hands[p.ID], deck = cards.DealCards(deck, 6)
		}

	case ThreePlayer:
		for _, p := range players {
			hands[p.ID], deck = cards.DealCards(deck, 5)
		}
		result.Talon, deck = cards.DealCards(deck, 2)
		for _, p := range players {
			var more []cards.Card
			more, deck = cards.DealCards(deck, 5)
			hands[p.ID] = append(hands[p.ID], more...)
		}

	case FourPlayer:
		for _, p := range players {
			hands[p.ID], deck = cards.DealCards(deck, 4)
		}
	}

	return result, nil
}

// SecondDeal completes the 4-player deal once trump has been called:
// the 16 undealt cards are reshuffled and each player receives 4 more.
func SecondDeal(s *GameSession) error {
	if s.Variant != FourPlayer {
		return InvariantErr("second deal requested for variant %d", s.Variant)
	}

	// Whatever is not in a hand yet is still in the deck.
	dealt := make(map[cards.Card]bool, 16)
	for _, hand := range s.Hands {
		for _, c := range hand {
			dealt[c] = true
		}
	}

	var remaining []cards.Card
	for _, c := range cards.NewDeck() {
		if !dealt[c] {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) != 16 {
		return InvariantErr("second deal found %d undealt cards, want 16", len(remaining))
	}

	remaining = cards.ShuffleDeck(remaining)
	for _, p := range s.Players {
		var more []cards.Card
		more, remaining = cards.DealCards(remaining, 4)
		s.Hands[p.ID] = append(s.Hands[p.ID], more...)
	}

	return nil
}
