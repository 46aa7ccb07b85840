package cards

import (
	"fmt"
	"unicode/utf8"
)

// Suit represents a card suit
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Suits lists the four suits in deck order.
func Suits() []Suit {
	return []Suit{Spades, Hearts, Diamonds, Clubs}
}

// Rank represents a card rank in the 32-card Marijaš deck
type Rank string

const (
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// Ranks lists the eight ranks in deck order.
func Ranks() []Rank {
	return []Rank{Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
}

// trickOrder ranks cards within a trick. The 10 sits between the king
// and the ace.
var trickOrder = map[Rank]int{
	Seven: 0,
	Eight: 1,
	Nine:  2,
	Jack:  3,
	Queen: 4,
	King:  5,
	Ten:   6,
	Ace:   7,
}

// Card represents a playing card
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

// String returns the string representation of a card
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Equals checks if two cards are equal
func (c Card) Equals(other Card) bool {
	return c.Suit == other.Suit && c.Rank == other.Rank
}

// Points returns the card's point value: aces and tens count 10,
// everything else counts nothing.
func (c Card) Points() int {
	if c.Rank == Ace || c.Rank == Ten {
		return 10
	}
	return 0
}

// TrickOrder returns the card's position in the trick ranking
// (7,8,9,J,Q,K,10,A from lowest to highest).
func (c Card) TrickOrder() int {
	return trickOrder[c.Rank]
}

// Beats reports whether c wins over other within a trick, given the
// trump suit and the suit that was led.
func (c Card) Beats(other Card, trump, lead Suit) bool {
	if c.Suit == trump && other.Suit != trump {
		return true
	}
	if c.Suit != trump && other.Suit == trump {
		return false
	}
	if c.Suit == other.Suit {
		return c.TrickOrder() > other.TrickOrder()
	}
	// Neither is trump and the suits differ: only the lead suit can win.
	return c.Suit == lead && other.Suit != lead
}

// Valid reports whether the card is one of the 32 deck cards.
func (c Card) Valid() bool {
	if _, ok := trickOrder[c.Rank]; !ok {
		return false
	}
	for _, s := range Suits() {
		if s == c.Suit {
			return true
		}
	}
	return false
}

// CardFromString creates a card from a string representation
// e.g., "10♠" or "10s" or "10S" -> Card{Suit: Spades, Rank: Ten}
func CardFromString(s string) (Card, error) {
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card shorthand: %s", s)
	}

	// The suit symbols are multi-byte runes, so the suffix must be
	// decoded as a rune rather than sliced off as a byte.
	last, size := utf8.DecodeLastRuneInString(s)

	var suit Suit
	switch last {
	case '♠', 's', 'S':
		suit = Spades
	case '♥', 'h', 'H':
		suit = Hearts
	case '♦', 'd', 'D':
		suit = Diamonds
	case '♣', 'c', 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid card suit: %c", last)
	}

	var rank Rank
	switch s[:len(s)-size] {
	case "A":
		rank = Ace
	case "K":
		rank = King
	case "Q":
		rank = Queen
	case "J":
		rank = Jack
	case "10":
		rank = Ten
	case "9":
		rank = Nine
	case "8":
		rank = Eight
	case "7":
		rank = Seven
	default:
		return Card{}, fmt.Errorf("invalid card rank: %s", s[:len(s)-1])
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// MustCard parses a card shorthand and panics on malformed input.
func MustCard(s string) Card {
	c, err := CardFromString(s)
	if err != nil {
		panic(err)
	}
	return c
}
