package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := New(context.Background(), DriverSQLite, ":memory:", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndQuery(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	results := []GameResult{
		{
			ID: "g1", CreatedAt: "2026-10-01T10:00:00Z", PlayerCount: 2, Winner: "Anna",
			Players: []PlayerResult{{Seat: 0, Name: "Anna", Score: 70}, {Seat: 1, Name: "Bruno", Score: 50}},
		},
		{
			ID: "g2", CreatedAt: "2026-10-02T10:00:00Z", PlayerCount: 4, Winner: "Team 2",
			Players: []PlayerResult{
				{Seat: 0, Name: "Anna", Team: 1, Score: 20},
				{Seat: 1, Name: "Carla", Team: 2, Score: 40},
				{Seat: 2, Name: "Dario", Team: 1, Score: 30},
				{Seat: 3, Name: "Elena", Team: 2, Score: 30},
			},
		},
		{
			ID: "g3", CreatedAt: "2026-10-03T10:00:00Z", PlayerCount: 2, Tie: true,
			Players: []PlayerResult{{Seat: 0, Name: "Carla", Score: 60}, {Seat: 1, Name: "Bruno", Score: 60}},
		},
	}
	for _, r := range results {
		if err := s.Insert(ctx, r); err != nil {
			t.Fatalf("insert %s: %v", r.ID, err)
		}
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 results, got %d", len(all))
	}
	if len(all[1].Players) != 4 || all[1].Players[1].Name != "Carla" || all[1].Players[1].Team != 2 {
		t.Errorf("unexpected seats %+v", all[1].Players)
	}
	if !all[2].Tie || all[2].Winner != "" {
		t.Errorf("expected g3 to be a tie, got %+v", all[2])
	}

	anna, err := s.GetByPlayer(ctx, "Anna")
	if err != nil {
		t.Fatal(err)
	}
	if len(anna) != 2 || anna[0].ID != "g1" || anna[1].ID != "g2" {
		t.Errorf("unexpected results for Anna: %+v", anna)
	}
	if len(anna[1].Players) != 4 {
		t.Errorf("expected every seat of g2, got %d", len(anna[1].Players))
	}

	one, err := s.GetByID(ctx, "g1")
	if err != nil {
		t.Fatal(err)
	}
	if one.Winner != "Anna" || one.Players[1].Score != 50 {
		t.Errorf("unexpected result %+v", one)
	}
}

func TestNotFound(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.GetByPlayer(ctx, "nobody"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	if _, err := s.GetByID(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
	all, err := s.GetAll(ctx)
	if err != nil || len(all) != 0 {
		t.Errorf("expected no results, got %v (%v)", all, err)
	}
}

func TestDuplicateInsertRollsBack(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	r := GameResult{ID: "g1", CreatedAt: "2026-10-01T10:00:00Z", PlayerCount: 2, Winner: "Anna",
		Players: []PlayerResult{{Seat: 0, Name: "Anna", Score: 70}, {Seat: 1, Name: "Bruno", Score: 50}}}
	if err := s.Insert(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert(ctx, r); err == nil {
		t.Fatal("expected an error inserting the same game twice")
	}
	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || len(all[0].Players) != 2 {
		t.Errorf("unexpected results after failed insert: %+v", all)
	}
}

func TestRebind(t *testing.T) {
	pg := &Service{driver: DriverPostgres}
	if got := pg.rebind("a = ? and b = ?"); got != "a = $1 and b = $2" {
		t.Errorf("unexpected %q", got)
	}
	lite := &Service{driver: DriverSQLite}
	if got := lite.rebind("a = ?"); got != "a = ?" {
		t.Errorf("unexpected %q", got)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := New(context.Background(), "mysql", "", nil); !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("expected ErrUnsupportedDriver, got %v", err)
	}
}
