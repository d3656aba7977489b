// Package bot chooses cards for automated seats.
package bot

import (
	"errors"
	"fmt"
	"sort"

	"briscola-game/internal/game"
	"briscola-game/internal/shared"
)

var ErrEmptyHand = errors.New("bot has no cards to play")

// View is what a seat can see when it is its turn.
type View struct {
	Seat     int
	Players  int
	Team     shared.TeamEnum
	Hand     []shared.Card
	Trick    []shared.PlayedCard
	Briscola shared.Suit
	Teams    []shared.TeamEnum // Team of each seat, NoTeam in 2-player games
}

// ViewFor builds the view of the player due to act.
func ViewFor(g *game.Game) (View, error) {
	p := g.CurrentPlayer()
	if p == nil {
		return View{}, shared.ErrGameNotStarted
	}
	v := View{
		Seat:     g.CurrentPlayerIndex,
		Players:  len(g.Players),
		Team:     p.Team,
		Hand:     p.PlayableCards(),
		Trick:    append([]shared.PlayedCard(nil), g.CurrentTrick.Cards...),
		Briscola: g.BriscolaCard.Suit,
		Teams:    make([]shared.TeamEnum, len(g.Players)),
	}
	for i, pl := range g.Players {
		v.Teams[i] = pl.Team
	}
	return v, nil
}

// Strategy picks the card a seat plays.
type Strategy interface {
	Name() string
	Choose(v View) (shared.Card, error)
}

// New returns the strategy registered under name.
func New(name string, rng shared.RNG) (Strategy, error) {
	switch name {
	case "random":
		return &Random{rng: rng}, nil
	case "greedy":
		return Greedy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// Play asks s for a card and plays it for the current seat.
func Play(g *game.Game, s Strategy) (shared.Card, error) {
	v, err := ViewFor(g)
	if err != nil {
		return shared.Card{}, err
	}
	card, err := s.Choose(v)
	if err != nil {
		return shared.Card{}, err
	}
	if err := g.PlayTurn(card); err != nil {
		return shared.Card{}, fmt.Errorf("%s played %s: %w", s.Name(), card, err)
	}
	return card, nil
}

// Random plays any card in hand.
type Random struct {
	rng shared.RNG
}

func (r *Random) Name() string { return "random" }

func (r *Random) Choose(v View) (shared.Card, error) {
	if len(v.Hand) == 0 {
		return shared.Card{}, ErrEmptyHand
	}
	rng := r.rng
	if rng == nil {
		rng = shared.DefaultRNG
	}
	return v.Hand[rng.IntN(len(v.Hand))], nil
}

// Greedy takes a trick with its cheapest winning card, leaves it to a
// winning partner, and otherwise throws away its cheapest card.
type Greedy struct{}

func (Greedy) Name() string { return "greedy" }

func (Greedy) Choose(v View) (shared.Card, error) {
	if len(v.Hand) == 0 {
		return shared.Card{}, ErrEmptyHand
	}
	hand := append([]shared.Card(nil), v.Hand...)
	sort.SliceStable(hand, func(i, j int) bool {
		return cost(hand[i], v.Briscola) < cost(hand[j], v.Briscola)
	})

	if len(v.Trick) == 0 {
		return hand[0], nil
	}
	if partnerWinning(v) {
		return hand[0], nil
	}
	for _, c := range hand {
		if wins(v, c) {
			return c, nil
		}
	}
	return hand[0], nil
}

// cost orders cards by how much it hurts to give them up. Trumps are kept
// for last.
func cost(c shared.Card, briscola shared.Suit) int {
	score := c.Value*10 + c.Strength()
	if c.Suit == briscola {
		score += 1000
	}
	return score
}

func wins(v View, c shared.Card) bool {
	trick := shared.NewTrick()
	for _, pc := range v.Trick {
		trick.AddCard(pc.Card, pc.PlayerIndex)
	}
	trick.AddCard(c, v.Seat)
	winner, ok := trick.DetermineWinner(v.Briscola)
	return ok && winner.PlayerIndex == v.Seat
}

func partnerWinning(v View) bool {
	if v.Team == shared.NoTeam {
		return false
	}
	trick := shared.NewTrick()
	for _, pc := range v.Trick {
		trick.AddCard(pc.Card, pc.PlayerIndex)
	}
	winner, ok := trick.DetermineWinner(v.Briscola)
	return ok && winner.PlayerIndex != v.Seat && v.Teams[winner.PlayerIndex] == v.Team
}
