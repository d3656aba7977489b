package shared

import "errors"

var (
	ErrInvalidPlayerCount  = errors.New("a game needs 2 or 4 players")
	ErrCardNotInHand       = errors.New("card not in hand")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrEmptyDeck           = errors.New("no cards left in the deck")
	ErrGameAlreadyOver     = errors.New("game is already over")
	ErrGameFull            = errors.New("game is full")
	ErrDuplicatePlayerName = errors.New("player name already taken")
	ErrGameNotStarted      = errors.New("game has not started")
	ErrUnknownPlayer       = errors.New("player is not in this game")
	ErrInvalidCard         = errors.New("invalid card")
	ErrInvalidPlayerName   = errors.New("player name cannot be empty")
	ErrGameAlreadyStarted  = errors.New("game has already started")
	ErrInvalidDeck         = errors.New("deck must hold the 40 distinct cards")
	ErrNegativePoints      = errors.New("points cannot be negative")
)
