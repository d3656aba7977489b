package shared

import (
	"fmt"
	"math/rand/v2"
)

// RNG abstracts the random source used to shuffle, so tests can supply
// deterministic permutations.
type RNG interface {
	// IntN returns a non-negative random int in [0, n).
	IntN(n int) int
}

type stdRNG struct{}

func (stdRNG) IntN(n int) int { return rand.IntN(n) }

// DefaultRNG delegates to math/rand/v2 (auto-seeded).
var DefaultRNG RNG = stdRNG{}

// SeededRNG returns a reproducible RNG for the given seed.
func SeededRNG(seed uint64) RNG {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// DeckSize is the number of cards in a Briscola deck.
const DeckSize = 40

// Deck is an ordered stack of cards. The top of the deck is the end of Cards.
type Deck struct {
	Cards []Card
}

// NewDeck creates the 40-card deck in suit-major order, unshuffled.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, Card{
				Rank:  rank,
				Suit:  suit,
				Value: rankValues[rank],
			})
		}
	}
	return &Deck{Cards: cards}
}

// NewShuffledDeck creates a full deck and shuffles it once with rng.
// A nil rng uses DefaultRNG.
func NewShuffledDeck(rng RNG) *Deck {
	d := NewDeck()
	d.Shuffle(rng)
	return d
}

// Shuffle applies a uniform Fisher-Yates permutation.
func (d *Deck) Shuffle(rng RNG) {
	if rng == nil {
		rng = DefaultRNG
	}
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	n := len(d.Cards)
	if n == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.Cards[n-1]
	d.Cards = d.Cards[:n-1]
	return card, nil
}

// PlaceBottom puts a card underneath the rest, making it the last one drawn.
func (d *Deck) PlaceBottom(card Card) {
	d.Cards = append([]Card{card}, d.Cards...)
}

// Validate checks that the deck holds each of the 40 cards exactly once with
// its proper point value.
func (d *Deck) Validate() error {
	if len(d.Cards) != DeckSize {
		return fmt.Errorf("%w: got %d cards", ErrInvalidDeck, len(d.Cards))
	}
	seen := make(map[Card]bool, DeckSize)
	for _, c := range d.Cards {
		want, err := NewCard(c.Rank, c.Suit)
		if err != nil || want != c {
			return fmt.Errorf("%w: bad card %s", ErrInvalidDeck, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate %s", ErrInvalidDeck, c)
		}
		seen[c] = true
	}
	return nil
}

// Len returns the number of cards left.
func (d *Deck) Len() int {
	return len(d.Cards)
}
