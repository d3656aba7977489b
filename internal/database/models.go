package database

// PlayerResult is one seat of a finished game.
type PlayerResult struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	Team  int    `json:"team,omitempty"`
	Score int    `json:"score"`
}

// GameResult is the archived outcome of a finished game.
type GameResult struct {
	ID          string         `json:"id"`
	CreatedAt   string         `json:"created_at"`
	PlayerCount int            `json:"player_count"`
	Winner      string         `json:"winner,omitempty"` // Player name or "Team N"; empty on a tie
	Tie         bool           `json:"tie"`
	Players     []PlayerResult `json:"players"`
}
