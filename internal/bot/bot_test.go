package bot

import (
	"errors"
	"testing"

	"briscola-game/internal/game"
	"briscola-game/internal/shared"
)

func TestGreedyChoose(t *testing.T) {
	c := shared.MustCard
	tests := []struct {
		name string
		view View
		want shared.Card
	}{
		{
			name: "leads with the cheapest non-trump",
			view: View{
				Seat: 0, Players: 2, Briscola: shared.Denari,
				Hand: []shared.Card{c(shared.Asso, shared.Coppe), c(shared.Due, shared.Denari), c(shared.Sei, shared.Spade)},
			},
			want: c(shared.Sei, shared.Spade),
		},
		{
			name: "wins with the cheapest winning card",
			view: View{
				Seat: 1, Players: 2, Briscola: shared.Denari,
				Hand:  []shared.Card{c(shared.Asso, shared.Coppe), c(shared.Due, shared.Denari), c(shared.Tre, shared.Coppe)},
				Trick: []shared.PlayedCard{{Card: c(shared.Re, shared.Coppe), PlayerIndex: 0}},
			},
			want: c(shared.Tre, shared.Coppe),
		},
		{
			name: "trumps when nothing else wins",
			view: View{
				Seat: 1, Players: 2, Briscola: shared.Denari,
				Hand:  []shared.Card{c(shared.Fante, shared.Denari), c(shared.Due, shared.Coppe)},
				Trick: []shared.PlayedCard{{Card: c(shared.Asso, shared.Spade), PlayerIndex: 0}},
			},
			want: c(shared.Fante, shared.Denari),
		},
		{
			name: "discards the cheapest card when it cannot win",
			view: View{
				Seat: 1, Players: 2, Briscola: shared.Denari,
				Hand:  []shared.Card{c(shared.Re, shared.Spade), c(shared.Sette, shared.Coppe)},
				Trick: []shared.PlayedCard{{Card: c(shared.Asso, shared.Denari), PlayerIndex: 0}},
			},
			want: c(shared.Sette, shared.Coppe),
		},
		{
			name: "leaves the trick to a winning partner",
			view: View{
				Seat: 2, Players: 4, Team: shared.Team1, Briscola: shared.Denari,
				Teams: []shared.TeamEnum{shared.Team1, shared.Team2, shared.Team1, shared.Team2},
				Hand:  []shared.Card{c(shared.Tre, shared.Coppe), c(shared.Quattro, shared.Spade)},
				Trick: []shared.PlayedCard{
					{Card: c(shared.Asso, shared.Coppe), PlayerIndex: 0},
					{Card: c(shared.Due, shared.Coppe), PlayerIndex: 1},
				},
			},
			want: c(shared.Quattro, shared.Spade),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Greedy{}.Choose(tt.view)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Is(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEmptyHand(t *testing.T) {
	if _, err := (Greedy{}).Choose(View{}); !errors.Is(err, ErrEmptyHand) {
		t.Errorf("expected ErrEmptyHand, got %v", err)
	}
	if _, err := (&Random{}).Choose(View{}); !errors.Is(err, ErrEmptyHand) {
		t.Errorf("expected ErrEmptyHand, got %v", err)
	}
}

func TestNewStrategy(t *testing.T) {
	for _, name := range []string{"random", "greedy"} {
		s, err := New(name, shared.SeededRNG(1))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("expected %s, got %s", name, s.Name())
		}
	}
	if _, err := New("clever", nil); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}

func TestBotsFinishGames(t *testing.T) {
	for _, names := range [][]string{{"a", "b"}, {"a", "b", "c", "d"}} {
		g, err := game.New(names, game.WithRNG(shared.SeededRNG(5)))
		if err != nil {
			t.Fatal(err)
		}
		strategies := []Strategy{Greedy{}, &Random{rng: shared.SeededRNG(9)}}
		for !g.IsOver() {
			s := strategies[g.CurrentPlayerIndex%2]
			if _, err := Play(g, s); err != nil {
				t.Fatalf("%d players: %v", len(names), err)
			}
		}
		if g.TricksPlayed != g.TotalTricks() {
			t.Errorf("expected %d tricks, got %d", g.TotalTricks(), g.TricksPlayed)
		}
	}
}

func TestViewForWaitingGame(t *testing.T) {
	g, err := game.NewOpen(2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ViewFor(g); !errors.Is(err, shared.ErrGameNotStarted) {
		t.Errorf("expected ErrGameNotStarted, got %v", err)
	}
}
