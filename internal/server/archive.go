package server

import (
	"context"
	"time"

	"briscola-game/internal/database"
	"briscola-game/internal/game"

	"go.uber.org/zap"
)

// ResultWriter persists finished games.
type ResultWriter interface {
	Insert(ctx context.Context, result database.GameResult) error
}

const archiveTimeout = 5 * time.Second

// NewArchiver returns a game.FinishFunc that stores each finished game.
func NewArchiver(w ResultWriter, logger *zap.Logger) game.FinishFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(g *game.Game) {
		result := ResultFromGame(g, time.Now())
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := w.Insert(ctx, result); err != nil {
			logger.Error("archive game result", zap.String("game_id", g.ID), zap.Error(err))
		}
	}
}

// ResultFromGame converts a finished game into its archived form.
func ResultFromGame(g *game.Game, at time.Time) database.GameResult {
	res := g.Result()
	result := database.GameResult{
		ID:          g.ID,
		CreatedAt:   at.UTC().Format(time.RFC3339),
		PlayerCount: len(g.Players),
		Tie:         res.Tie,
		Players:     make([]database.PlayerResult, len(g.Players)),
	}
	if res.Finished && !res.Tie {
		result.Winner = res.Winner.String()
	}
	for i, p := range g.Players {
		result.Players[i] = database.PlayerResult{
			Seat:  i,
			Name:  p.Name,
			Team:  int(p.Team),
			Score: p.Score,
		}
	}
	return result
}
