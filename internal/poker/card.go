// Package poker implements the authoritative Texas Hold'em hand state
// machine: dealing, blinds, betting rounds, showdown and pot award, plus the
// pure hand evaluator and bot policy that sit alongside it.
package poker

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
)

// Card is a value in 0..51. Rank = value mod 13 (0 = Ace); suit = value / 13.
type Card int

const (
	suitClubs = iota
	suitDiamonds
	suitHearts
	suitSpades
)

var rankChars = [13]byte{'A', '2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K'}
var suitChars = [4]byte{'c', 'd', 'h', 's'}

// Rank returns the card's rank in 0..12 (0 = Ace).
func (c Card) Rank() int { return int(c) % 13 }

// Suit returns the card's suit in 0..3.
func (c Card) Suit() int { return int(c) / 13 }

func (c Card) String() string {
	if c < 0 || c > 51 {
		return "??"
	}
	return string([]byte{rankChars[c.Rank()], suitChars[c.Suit()]})
}

// MarshalJSON encodes a Card as a two-character string like "As", "Td".
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes strings like "As", "Td" into a Card.
func (c *Card) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if len(s) != 2 {
		return fmt.Errorf("poker: invalid card literal %q", s)
	}
	rankIdx := -1
	for i, ch := range rankChars {
		if byte(s[0]) == ch || (ch >= 'A' && ch <= 'Z' && byte(s[0]) == ch+32) {
			rankIdx = i
			break
		}
	}
	if rankIdx == -1 {
		return fmt.Errorf("poker: invalid rank in %q", s)
	}
	suitIdx := -1
	lowered := s[1]
	if lowered >= 'A' && lowered <= 'Z' {
		lowered += 32
	}
	for i, ch := range suitChars {
		if lowered == ch {
			suitIdx = i
			break
		}
	}
	if suitIdx == -1 {
		return fmt.Errorf("poker: invalid suit in %q", s)
	}
	*c = Card(suitIdx*13 + rankIdx)
	return nil
}

// NewDeck returns a freshly shuffled 52-card deck.
func NewDeck(r *rand.Rand) []Card {
	deck := make([]Card, 52)
	for i := range deck {
		deck[i] = Card(i)
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}
