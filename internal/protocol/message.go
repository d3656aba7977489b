package protocol

import (
	"encoding/json"

	"briscola-game/internal/game"
	"briscola-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // e.g. "join_game", "play_card"
	Payload json.RawMessage `json:"payload,omitempty"` // Decoded according to Type
}

// Client -> server message types.
const (
	TypeCreateGame = "create_game"
	TypeJoinGame   = "join_game"
	TypeStartGame  = "start_game"
	TypePlayCard   = "play_card"
	TypeGetState   = "get_state"
	TypePing       = "ping"
)

// Server -> client message types.
const (
	TypeGameCreated = "game_created"
	TypeLobbyUpdate = "lobby_update"
	TypeJoinError   = "join_error"
	TypeDealHand    = "deal_hand"
	TypeGameState   = "game_state_update"
	TypeYourTurn    = "your_turn"
	TypeTrickEnd    = "trick_end"
	TypeGameOver    = "game_over"
	TypePlayerLeft  = "player_left"
	TypeError       = "error"
	TypePong        = "pong"
)

// --- Client -> Server Payload Structs ---

type CreateGamePayload struct {
	Name  string `json:"name"`
	Seats int    `json:"seats"` // 2 or 4
}

type JoinGamePayload struct {
	Name   string `json:"name"`
	GameID string `json:"game_id"`
}

type PlayCardPayload struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// --- Server -> Client Payload Structs ---

type GameCreatedPayload struct {
	GameID string `json:"game_id"`
	Seats  int    `json:"seats"`
}

type LobbyUpdatePayload struct {
	GameID  string   `json:"game_id"`
	Players []string `json:"players"`
	Seats   int      `json:"seats"`
}

type DealHandPayload struct {
	Hand []shared.Card `json:"hand"`
}

type YourTurnPayload struct {
	PlayerName string        `json:"player_name"`
	ValidMoves []shared.Card `json:"valid_moves,omitempty"`
}

type TrickEndPayload struct {
	Trick game.TrickResult `json:"trick"`
}

type GameOverPayload struct {
	Result     game.Result `json:"result"`
	Team1Score int         `json:"team1_score,omitempty"`
	Team2Score int         `json:"team2_score,omitempty"`
	Scores     []int       `json:"scores"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PlayerLeftPayload struct {
	PlayerName string `json:"player_name"`
}

// NewMessage builds the JSON envelope for a payload. A nil payload is omitted.
func NewMessage(msgType string, payload any) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{
		Type:    msgType,
		Payload: payloadBytes,
	})
}
