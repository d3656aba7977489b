package game

import (
	"fmt"

	"briscola-game/internal/shared"
)

// PlayerState is the public view of a seat.
type PlayerState struct {
	Name     string          `json:"name"`
	Seat     int             `json:"seat"`
	Team     shared.TeamEnum `json:"team,omitempty"`
	Score    int             `json:"score"`
	HandSize int             `json:"hand_size"`
}

// Snapshot is a read-only copy of the observable game state. Hands are not
// included; see Game.Hand.
type Snapshot struct {
	ID                string        `json:"game_id"`
	GameState         GameState     `json:"game_state"`
	Capacity          int           `json:"capacity"`
	CurrentPlayerName string        `json:"current_player,omitempty"`
	BriscolaCard      *shared.Card  `json:"briscola_card,omitempty"`
	TricksPlayed      int           `json:"tricks_played"`
	TotalTricks       int           `json:"total_tricks"`
	CardsLeftInDeck   int           `json:"cards_left_in_deck"`
	CurrentTrick      []shared.Card `json:"current_trick"`
	LastTrick         *TrickResult  `json:"last_trick,omitempty"`
	Players           []PlayerState `json:"players"`
	Team1Score        int           `json:"team1_score,omitempty"`
	Team2Score        int           `json:"team2_score,omitempty"`
}

// State returns a snapshot of the game. It does not mutate the game.
func (g *Game) State() Snapshot {
	s := Snapshot{
		ID:           g.ID,
		GameState:    g.GameState,
		Capacity:     g.Capacity,
		TricksPlayed: g.TricksPlayed,
		TotalTricks:  g.TotalTricks(),
		CurrentTrick: g.CurrentTrick.CardList(),
		Players:      make([]PlayerState, len(g.Players)),
	}
	if p := g.CurrentPlayer(); p != nil {
		s.CurrentPlayerName = p.Name
	}
	if g.GameState != Waiting {
		briscola := g.BriscolaCard
		s.BriscolaCard = &briscola
	}
	if g.Deck != nil {
		s.CardsLeftInDeck = g.Deck.Len()
	}
	if g.LastTrick != nil {
		last := *g.LastTrick
		last.Cards = append([]shared.PlayedCard(nil), g.LastTrick.Cards...)
		s.LastTrick = &last
	}
	for i, p := range g.Players {
		s.Players[i] = PlayerState{
			Name:     p.Name,
			Seat:     i,
			Team:     p.Team,
			Score:    p.Score,
			HandSize: p.HandSize(),
		}
	}
	s.Team1Score, s.Team2Score = g.TeamScores()
	return s
}

// Winner identifies the winning player (2 players) or team (4 players).
type Winner struct {
	PlayerName string          `json:"player_name,omitempty"`
	Team       shared.TeamEnum `json:"team,omitempty"`
}

func (w Winner) String() string {
	if w.Team != shared.NoTeam {
		return fmt.Sprintf("Team %d", w.Team)
	}
	return w.PlayerName
}

// Result is the outcome of a game. Winner is only meaningful when Finished
// is set and Tie is not.
type Result struct {
	Finished bool   `json:"finished"`
	Tie      bool   `json:"tie"`
	Winner   Winner `json:"winner"`
}

// Result compares final scores. Teams are compared by the sum of their
// members' scores.
func (g *Game) Result() Result {
	if g.GameState != RoundOver {
		return Result{}
	}
	if len(g.Players) == 4 {
		team1, team2 := g.TeamScores()
		switch {
		case team1 > team2:
			return Result{Finished: true, Winner: Winner{Team: shared.Team1}}
		case team2 > team1:
			return Result{Finished: true, Winner: Winner{Team: shared.Team2}}
		}
		return Result{Finished: true, Tie: true}
	}

	first, second := g.Players[0], g.Players[1]
	switch {
	case first.Score > second.Score:
		return Result{Finished: true, Winner: Winner{PlayerName: first.Name}}
	case second.Score > first.Score:
		return Result{Finished: true, Winner: Winner{PlayerName: second.Name}}
	}
	return Result{Finished: true, Tie: true}
}

// Winner returns the winner of a finished game. The second result is false
// while the game is still running or when it ended in a tie.
func (g *Game) Winner() (Winner, bool) {
	r := g.Result()
	if !r.Finished || r.Tie {
		return Winner{}, false
	}
	return r.Winner, true
}
