package main

import (
	"errors"
	"testing"

	"briscola-game/internal/shared"
)

func TestSimulate(t *testing.T) {
	tests := []struct {
		name       string
		players    int
		strategies []string
	}{
		{"heads up", 2, []string{"greedy", "random"}},
		{"teams", 4, []string{"greedy", "random"}},
		{"all greedy", 4, []string{"greedy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const games = 20
			sum, err := simulate(options{players: tt.players, games: games, seed: 7, strategies: tt.strategies})
			if err != nil {
				t.Fatalf("simulate: %v", err)
			}

			points := 0
			for _, s := range sum.seats {
				points += s.points
			}
			if points != shared.TotalPoints*games {
				t.Errorf("points = %d, want %d", points, shared.TotalPoints*games)
			}

			decided := sum.ties
			if tt.players == 4 {
				decided += sum.teams[shared.Team1] + sum.teams[shared.Team2]
			} else {
				for _, s := range sum.seats {
					decided += s.wins
				}
			}
			if decided != games {
				t.Errorf("wins + ties = %d, want %d", decided, games)
			}
		})
	}
}

func TestSimulateDeterministic(t *testing.T) {
	opts := options{players: 2, games: 5, seed: 42, strategies: []string{"random"}, verbose: true}
	a, err := simulate(opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := simulate(opts)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.seats {
		if a.seats[i] != b.seats[i] {
			t.Errorf("seat %d: %+v != %+v", i, a.seats[i], b.seats[i])
		}
	}
	if len(a.first) != 20 {
		t.Errorf("first game tricks = %d, want 20", len(a.first))
	}
}

func TestSimulateRejectsBadOptions(t *testing.T) {
	if _, err := simulate(options{players: 3, games: 1, strategies: []string{"greedy"}}); !errors.Is(err, shared.ErrInvalidPlayerCount) {
		t.Errorf("players 3: err = %v, want ErrInvalidPlayerCount", err)
	}
	if _, err := simulate(options{players: 2, games: 0, strategies: []string{"greedy"}}); err == nil {
		t.Error("games 0: expected error")
	}
	if _, err := simulate(options{players: 2, games: 1, strategies: []string{"clever"}}); err == nil {
		t.Error("unknown strategy: expected error")
	}
}
