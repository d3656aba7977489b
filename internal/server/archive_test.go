package server

import (
	"context"
	"testing"
	"time"

	"briscola-game/internal/database"
	"briscola-game/internal/game"
	"briscola-game/internal/shared"

	"go.uber.org/zap/zaptest"
)

func playToEnd(t *testing.T, store *game.Store, id string) {
	t.Helper()
	for {
		var over bool
		err := store.Do(id, func(g *game.Game) error {
			if g.IsOver() {
				over = true
				return nil
			}
			return g.PlayTurn(g.CurrentPlayer().Hand[0])
		})
		if err != nil {
			t.Fatalf("play: %v", err)
		}
		if over {
			return
		}
	}
}

func TestArchiverStoresFinishedGames(t *testing.T) {
	logger := zaptest.NewLogger(t)
	db, err := database.New(context.Background(), database.DriverSQLite, ":memory:", logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	store := game.NewStore(logger, game.WithRNG(shared.SeededRNG(5)))
	store.OnFinish(NewArchiver(db, logger))

	snap, err := store.Create([]string{"Anna", "Bruno", "Carla", "Dario"})
	if err != nil {
		t.Fatal(err)
	}
	playToEnd(t, store, snap.ID)

	got, err := db.GetByID(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("archived game missing: %v", err)
	}
	if got.PlayerCount != 4 || len(got.Players) != 4 {
		t.Fatalf("archived = %+v", got)
	}
	total := 0
	for i, p := range got.Players {
		if p.Seat != i {
			t.Errorf("seat %d stored as %d", i, p.Seat)
		}
		if want := int(shared.TeamForSeat(i)); p.Team != want {
			t.Errorf("seat %d team = %d, want %d", i, p.Team, want)
		}
		total += p.Score
	}
	if total != shared.TotalPoints {
		t.Errorf("archived points = %d, want %d", total, shared.TotalPoints)
	}
	if got.Tie == (got.Winner != "") {
		t.Errorf("tie %v with winner %q", got.Tie, got.Winner)
	}
}

func TestResultFromGame(t *testing.T) {
	g, err := game.New([]string{"Anna", "Bruno"}, game.WithRNG(shared.SeededRNG(9)), game.WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatal(err)
	}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	running := ResultFromGame(g, at)
	if running.Winner != "" || running.Tie {
		t.Errorf("unfinished game result = %+v", running)
	}
	if running.CreatedAt != "2024-03-01T11:00:00Z" {
		t.Errorf("CreatedAt = %q", running.CreatedAt)
	}

	for !g.IsOver() {
		if err := g.PlayTurn(g.CurrentPlayer().Hand[0]); err != nil {
			t.Fatal(err)
		}
	}
	res := ResultFromGame(g, at)
	w, ok := g.Winner()
	switch {
	case ok && res.Winner != w.PlayerName:
		t.Errorf("winner = %q, want %q", res.Winner, w.PlayerName)
	case !ok && !res.Tie:
		t.Errorf("tie not recorded: %+v", res)
	}
	if res.Players[0].Name != "Anna" || res.Players[1].Name != "Bruno" {
		t.Errorf("players = %+v", res.Players)
	}
}
