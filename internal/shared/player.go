package shared

import "fmt"

// HandSize is the number of cards a player holds in steady state.
const HandSize = 3

// Player represents a seat in a Briscola game.
type Player struct {
	Name        string   // Unique within a game
	Hand        []Card   // Cards currently held
	Score       int      // Points collected from won tricks
	Team        TeamEnum // NoTeam unless the game has 4 players
	PlayedCards []Card   // Card contributed to the open trick
	Won         []Card   // Cards collected from won tricks
}

// NewPlayer creates a player with an empty hand.
func NewPlayer(name string, team TeamEnum) *Player {
	return &Player{
		Name: name,
		Hand: []Card{},
		Team: team,
	}
}

// AddCard adds a card to the player's hand.
func (p *Player) AddCard(card Card) {
	p.Hand = append(p.Hand, card)
}

// PlayCard removes the first card matching rank and suit from the hand and
// returns it. The hand is untouched when the card is absent.
func (p *Player) PlayCard(card Card) (Card, error) {
	for i, c := range p.Hand {
		if c.Is(card) {
			p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
			return c, nil
		}
	}
	return Card{}, fmt.Errorf("%w: %s", ErrCardNotInHand, card)
}

// AddToScore increments the score. Negative amounts are rejected and leave
// the score unchanged.
func (p *Player) AddToScore(points int) error {
	if points < 0 {
		return fmt.Errorf("%w: %d", ErrNegativePoints, points)
	}
	p.Score += points
	return nil
}

// HandSize returns the number of cards held.
func (p *Player) HandSize() int {
	return len(p.Hand)
}

func (p *Player) FindCard(rank Rank, suit Suit) (Card, bool) {
	for _, card := range p.Hand {
		if card.Rank == rank && card.Suit == suit {
			return card, true
		}
	}
	return Card{}, false
}

// HasSuit reports whether the hand holds any card of suit.
func (p *Player) HasSuit(suit Suit) bool {
	for _, card := range p.Hand {
		if card.Suit == suit {
			return true
		}
	}
	return false
}

// PlayableCards returns a copy of the hand. Briscola has no obligation to
// follow suit, so every held card is playable.
func (p *Player) PlayableCards() []Card {
	out := make([]Card, len(p.Hand))
	copy(out, p.Hand)
	return out
}

// HasPlayed reports whether card is the one this player put into the open trick.
func (p *Player) HasPlayed(card Card) bool {
	for _, c := range p.PlayedCards {
		if c.Is(card) {
			return true
		}
	}
	return false
}
