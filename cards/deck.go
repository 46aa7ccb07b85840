package cards

import (
	"fmt"
	"math/rand"
	"time"
)

// DeckSize is the number of cards in a Marijaš deck.
const DeckSize = 32

// NewDeck creates the standard 32-card deck (7 through ace in four suits).
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits() {
		for _, rank := range Ranks() {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// ShuffleDeck shuffles a deck of cards randomly (Fisher-Yates)
func ShuffleDeck(deck []Card) []Card {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)

	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}

// DealCards deals count cards from the top and returns them with the
// remaining deck.
func DealCards(deck []Card, count int) ([]Card, []Card) {
	if count > len(deck) {
		count = len(deck)
	}

	dealt := make([]Card, count)
	copy(dealt, deck[:count])

	return dealt, deck[count:]
}

// Contains reports whether the given set of cards holds card.
func Contains(set []Card, card Card) bool {
	for _, c := range set {
		if c.Equals(card) {
			return true
		}
	}
	return false
}

// Remove returns set without the first occurrence of card, and whether
// the card was found.
func Remove(set []Card, card Card) ([]Card, bool) {
	for i, c := range set {
		if c.Equals(card) {
			out := make([]Card, 0, len(set)-1)
			out = append(out, set[:i]...)
			out = append(out, set[i+1:]...)
			return out, true
		}
	}
	return set, false
}

// ValidateDeck checks that deck is a permutation of the canonical 32
// cards: no duplicates, no omissions.
func ValidateDeck(deck []Card) error {
	if len(deck) != DeckSize {
		return fmt.Errorf("deck has %d cards, want %d", len(deck), DeckSize)
	}

	seen := make(map[Card]bool, DeckSize)
	for _, c := range deck {
		if seen[c] {
			return fmt.Errorf("duplicate card %s in deck", c)
		}
		seen[c] = true
	}

	for _, c := range NewDeck() {
		if !seen[c] {
			return fmt.Errorf("card %s missing from deck", c)
		}
	}

	return nil
}
