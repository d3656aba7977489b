package shared

import (
	"fmt"
	"strings"
)

// Suit represents the suit of a card (Denari, Spade, Coppe, Bastoni).
type Suit string

const (
	Denari  Suit = "Denari"
	Spade   Suit = "Spade"
	Coppe   Suit = "Coppe"
	Bastoni Suit = "Bastoni"
)

// Suits lists the four suits in deck construction order.
var Suits = []Suit{Denari, Spade, Coppe, Bastoni}

// Rank is the name of a card's rank.
type Rank string

const (
	Due     Rank = "Due"
	Quattro Rank = "Quattro"
	Cinque  Rank = "Cinque"
	Sei     Rank = "Sei"
	Sette   Rank = "Sette"
	Fante   Rank = "Fante"
	Cavallo Rank = "Cavallo"
	Re      Rank = "Re"
	Tre     Rank = "Tre"
	Asso    Rank = "Asso"
)

// Ranks lists the ten ranks from weakest to strongest.
var Ranks = []Rank{Due, Quattro, Cinque, Sei, Sette, Fante, Cavallo, Re, Tre, Asso}

// Rank strength, used to break ties between cards worth the same points.
var rankStrength = map[Rank]int{
	Due:     0,
	Quattro: 1,
	Cinque:  2,
	Sei:     3,
	Sette:   4,
	Fante:   5,
	Cavallo: 6,
	Re:      7,
	Tre:     8,
	Asso:    9,
}

// Points each rank is worth when a trick is collected.
var rankValues = map[Rank]int{
	Due:     0,
	Quattro: 0,
	Cinque:  0,
	Sei:     0,
	Sette:   0,
	Fante:   2,
	Cavallo: 3,
	Re:      4,
	Tre:     10,
	Asso:    11,
}

// TotalPoints is the sum of all card values in a full deck.
const TotalPoints = 120

// Card represents a single card in the Briscola deck.
type Card struct {
	Rank  Rank `json:"rank"`
	Suit  Suit `json:"suit"`
	Value int  `json:"value"` // Points the card is worth
}

// NewCard builds a card, filling in its point value.
func NewCard(rank Rank, suit Suit) (Card, error) {
	value, ok := rankValues[rank]
	if !ok {
		return Card{}, fmt.Errorf("%w: unknown rank %q", ErrInvalidCard, rank)
	}
	if !suit.Valid() {
		return Card{}, fmt.Errorf("%w: unknown suit %q", ErrInvalidCard, suit)
	}
	return Card{Rank: rank, Suit: suit, Value: value}, nil
}

// MustCard is NewCard for literals known to be valid.
func MustCard(rank Rank, suit Suit) Card {
	c, err := NewCard(rank, suit)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCard resolves case-insensitive rank and suit names into a card.
func ParseCard(rank, suit string) (Card, error) {
	r, err := ParseRank(rank)
	if err != nil {
		return Card{}, err
	}
	s, err := ParseSuit(suit)
	if err != nil {
		return Card{}, err
	}
	return NewCard(r, s)
}

// ParseRank resolves a case-insensitive rank name.
func ParseRank(s string) (Rank, error) {
	for _, r := range Ranks {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown rank %q", ErrInvalidCard, s)
}

// ParseSuit resolves a case-insensitive suit name.
func ParseSuit(s string) (Suit, error) {
	for _, suit := range Suits {
		if strings.EqualFold(string(suit), strings.TrimSpace(s)) {
			return suit, nil
		}
	}
	return "", fmt.Errorf("%w: unknown suit %q", ErrInvalidCard, s)
}

func (s Suit) Valid() bool {
	for _, suit := range Suits {
		if s == suit {
			return true
		}
	}
	return false
}

// Strength returns the rank-strength index, 0 (Due) to 9 (Asso).
func (c Card) Strength() int {
	return rankStrength[c.Rank]
}

// Is reports whether two cards have the same rank and suit.
func (c Card) Is(other Card) bool {
	return c.Rank == other.Rank && c.Suit == other.Suit
}

// Beats reports whether c ranks above other when both compete in the same suit:
// higher point value first, rank strength on equal value.
func (c Card) Beats(other Card) bool {
	if c.Value != other.Value {
		return c.Value > other.Value
	}
	return c.Strength() > other.Strength()
}

func (c Card) String() string {
	return fmt.Sprintf("%s di %s", c.Rank, c.Suit)
}
