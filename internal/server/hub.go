package server

import (
	"encoding/json"
	"errors"
	"sync"

	"briscola-game/internal/game"
	"briscola-game/internal/protocol"
	"briscola-game/internal/shared"

	"go.uber.org/zap"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

// Hub manages WebSocket connections and relays their actions to games in
// the store. Games are shared with the REST API through the same store.
type Hub struct {
	clients        map[*Client]bool
	gameClients    map[string][]*Client // game id -> connected seats
	clientToGame   map[*Client]string
	wsSeats        map[string]map[string]bool // game id -> names seated over websocket
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	quit           chan struct{}
	stopOnce       sync.Once
	mu             sync.RWMutex
	store          *game.Store
	seats          int
	logger         *zap.Logger
}

// NewHub creates a hub. seats is the capacity of games created over websocket
// when the client does not ask for one.
func NewHub(store *game.Store, seats int, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:        make(map[*Client]bool),
		gameClients:    make(map[string][]*Client),
		clientToGame:   make(map[*Client]string),
		wsSeats:        make(map[string]map[string]bool),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		quit:           make(chan struct{}),
		store:          store,
		seats:          seats,
		logger:         logger,
	}
}

// Run starts the Hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("client connected", zap.String("client_id", client.ID))

		case client := <-h.unregister:
			h.removeClient(client)

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)

		case <-h.quit:
			return
		}
	}
}

// Stop ends the main loop. It is safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if !h.clients[client] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)

	gameID, inGame := h.clientToGame[client]
	delete(h.clientToGame, client)
	remaining := 0
	var seated map[string]bool
	if inGame {
		var kept []*Client
		for _, c := range h.gameClients[gameID] {
			if c != client {
				kept = append(kept, c)
			}
		}
		remaining = len(kept)
		if remaining == 0 {
			delete(h.gameClients, gameID)
			seated = h.wsSeats[gameID]
			delete(h.wsSeats, gameID)
		} else {
			h.gameClients[gameID] = kept
		}
	}
	h.mu.Unlock()

	h.logger.Info("client disconnected", zap.String("client_id", client.ID), zap.String("name", client.Name))
	if !inGame {
		return
	}
	if remaining == 0 {
		h.removeAbandoned(gameID, seated)
		return
	}
	msg, _ := protocol.NewMessage(protocol.TypePlayerLeft, protocol.PlayerLeftPayload{PlayerName: client.Name})
	h.broadcastToGame(gameID, msg)
}

// removeAbandoned drops a game whose websocket players have all left. Games
// with a seat taken through the REST API are left to their owner.
func (h *Hub) removeAbandoned(gameID string, seated map[string]bool) {
	removed := false
	_ = h.store.Do(gameID, func(g *game.Game) error {
		for _, p := range g.Players {
			if !seated[p.Name] {
				return nil
			}
		}
		removed = h.store.Remove(gameID) == nil
		return nil
	})
	if removed {
		h.logger.Info("abandoned game removed", zap.String("game_id", gameID))
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeCreateGame:
		h.handleCreateGame(client, msg)
	case protocol.TypeJoinGame:
		h.handleJoinGame(client, msg)
	case protocol.TypeStartGame:
		h.handleStartGame(client)
	case protocol.TypePlayCard:
		h.handlePlayCard(client, msg)
	case protocol.TypeGetState:
		h.handleGetState(client)
	case protocol.TypePing:
		pongMsg, _ := protocol.NewMessage(protocol.TypePong, nil)
		h.sendMessageToClient(client, pongMsg)
	default:
		h.logger.Warn("unknown message type", zap.String("type", msg.Type), zap.String("client_id", client.ID))
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

func (h *Hub) gameOf(client *Client) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	id, ok := h.clientToGame[client]
	return id, ok
}

// handleCreateGame opens a game and seats its creator.
func (h *Hub) handleCreateGame(client *Client, msg protocol.Message) {
	if _, inGame := h.gameOf(client); inGame {
		h.sendErrorToClient(client, "Already in a game.")
		return
	}

	var payload protocol.CreateGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.sendErrorToClient(client, "Invalid create_game message format.")
		return
	}
	if payload.Name == "" {
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}
	seats := payload.Seats
	if seats == 0 {
		seats = h.seats
	}

	snap, err := h.store.CreateOpen(seats)
	if err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}
	if err := h.store.Do(snap.ID, func(g *game.Game) error { return g.Join(payload.Name) }); err != nil {
		_ = h.store.Remove(snap.ID)
		h.sendErrorToClient(client, err.Error())
		return
	}
	h.attach(client, snap.ID, payload.Name)
	h.logger.Info("game created over websocket",
		zap.String("game_id", snap.ID),
		zap.String("name", payload.Name),
		zap.Int("seats", seats),
	)

	createdMsg, _ := protocol.NewMessage(protocol.TypeGameCreated, protocol.GameCreatedPayload{GameID: snap.ID, Seats: seats})
	h.sendMessageToClient(client, createdMsg)
	h.broadcastLobbyUpdate(snap.ID)
}

// handleJoinGame seats a client in an open game. The game deals when the
// last seat is taken.
func (h *Hub) handleJoinGame(client *Client, msg protocol.Message) {
	if _, inGame := h.gameOf(client); inGame {
		h.sendJoinError(client, "Already in a game.")
		return
	}

	var payload protocol.JoinGamePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.sendJoinError(client, "Invalid join_game message format.")
		return
	}
	if payload.Name == "" || payload.GameID == "" {
		h.sendJoinError(client, "Name and game id are required.")
		return
	}

	var started bool
	err := h.store.Do(payload.GameID, func(g *game.Game) error {
		if err := g.Join(payload.Name); err != nil {
			return err
		}
		started = g.GameState == game.AwaitingPlay
		return nil
	})
	if err != nil {
		h.logger.Info("join rejected", zap.String("game_id", payload.GameID), zap.Error(err))
		h.sendJoinError(client, err.Error())
		return
	}
	h.attach(client, payload.GameID, payload.Name)

	h.broadcastLobbyUpdate(payload.GameID)
	if started {
		h.broadcastGame(payload.GameID, nil)
	}
}

func (h *Hub) handleStartGame(client *Client) {
	gameID, inGame := h.gameOf(client)
	if !inGame {
		h.sendErrorToClient(client, "You are not in a game.")
		return
	}
	if err := h.store.Do(gameID, func(g *game.Game) error { return g.Start() }); err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}
	h.broadcastGame(gameID, nil)
}

func (h *Hub) handlePlayCard(client *Client, msg protocol.Message) {
	gameID, inGame := h.gameOf(client)
	if !inGame {
		h.sendErrorToClient(client, "You are not in a game.")
		return
	}

	var payload protocol.PlayCardPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		h.sendErrorToClient(client, "Invalid play_card message.")
		return
	}
	card, err := shared.ParseCard(payload.Rank, payload.Suit)
	if err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}

	var resolved *game.TrickResult
	err = h.store.Do(gameID, func(g *game.Game) error {
		before := g.TricksPlayed
		if err := g.PlayTurnAs(client.Name, card); err != nil {
			return err
		}
		if g.TricksPlayed != before && g.LastTrick != nil {
			last := *g.LastTrick
			resolved = &last
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, game.ErrGameNotFound) {
			h.sendErrorToClient(client, "Game not found or not active.")
			return
		}
		h.sendErrorToClient(client, err.Error())
		return
	}
	h.broadcastGame(gameID, resolved)
}

func (h *Hub) handleGetState(client *Client) {
	gameID, inGame := h.gameOf(client)
	if !inGame {
		h.sendErrorToClient(client, "You are not in a game.")
		return
	}
	snap, err := h.store.Get(gameID)
	if err != nil {
		h.sendErrorToClient(client, err.Error())
		return
	}
	msg, _ := protocol.NewMessage(protocol.TypeGameState, snap)
	h.sendMessageToClient(client, msg)
}

func (h *Hub) attach(client *Client, gameID, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.Name = name
	h.clientToGame[client] = gameID
	if h.wsSeats[gameID] == nil {
		h.wsSeats[gameID] = make(map[string]bool)
	}
	h.wsSeats[gameID][name] = true
	h.gameClients[gameID] = append(h.gameClients[gameID], client)
}

func (h *Hub) clientsOf(gameID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*Client(nil), h.gameClients[gameID]...)
}

// broadcastGame pushes the game to its clients: the resolved trick if any,
// the public state, each client's own hand, and either the next turn or the
// final result.
func (h *Hub) broadcastGame(gameID string, resolved *game.TrickResult) {
	var (
		snap    game.Snapshot
		result  game.Result
		hands   = make(map[string][]shared.Card)
		current string
	)
	err := h.store.Do(gameID, func(g *game.Game) error {
		snap = g.State()
		result = g.Result()
		for _, p := range g.Players {
			hands[p.Name] = p.PlayableCards()
		}
		if p := g.CurrentPlayer(); p != nil {
			current = p.Name
		}
		return nil
	})
	if err != nil {
		h.logger.Warn("broadcast for missing game", zap.String("game_id", gameID), zap.Error(err))
		return
	}

	if resolved != nil {
		msg, _ := protocol.NewMessage(protocol.TypeTrickEnd, protocol.TrickEndPayload{Trick: *resolved})
		h.broadcastToGame(gameID, msg)
	}
	stateMsg, _ := protocol.NewMessage(protocol.TypeGameState, snap)
	h.broadcastToGame(gameID, stateMsg)

	for _, c := range h.clientsOf(gameID) {
		handMsg, _ := protocol.NewMessage(protocol.TypeDealHand, protocol.DealHandPayload{Hand: hands[c.Name]})
		h.sendMessageToClient(c, handMsg)
		if !result.Finished && c.Name == current {
			turnMsg, _ := protocol.NewMessage(protocol.TypeYourTurn, protocol.YourTurnPayload{
				PlayerName: current,
				ValidMoves: hands[c.Name],
			})
			h.sendMessageToClient(c, turnMsg)
		}
	}

	if result.Finished {
		scores := make([]int, len(snap.Players))
		for i, p := range snap.Players {
			scores[i] = p.Score
		}
		overMsg, _ := protocol.NewMessage(protocol.TypeGameOver, protocol.GameOverPayload{
			Result:     result,
			Team1Score: snap.Team1Score,
			Team2Score: snap.Team2Score,
			Scores:     scores,
		})
		h.broadcastToGame(gameID, overMsg)
		h.logger.Info("game over", zap.String("game_id", gameID), zap.Stringer("winner", result.Winner), zap.Bool("tie", result.Tie))
	}
}

// sendMessageToClient queues a message without blocking the hub. A client
// whose buffer is full is disconnected.
func (h *Hub) sendMessageToClient(client *Client, message []byte) {
	h.mu.RLock()
	connected := h.clients[client]
	h.mu.RUnlock()
	if !connected {
		return
	}

	select {
	case client.send <- message:
	default:
		h.logger.Warn("client send buffer full, disconnecting", zap.String("client_id", client.ID))
		go func() {
			select {
			case h.unregister <- client:
			case <-h.quit:
			}
		}()
	}
}

func (h *Hub) broadcastToGame(gameID string, message []byte) {
	for _, c := range h.clientsOf(gameID) {
		h.sendMessageToClient(c, message)
	}
}

// broadcastLobbyUpdate sends the seated players to everyone in the game.
func (h *Hub) broadcastLobbyUpdate(gameID string) {
	snap, err := h.store.Get(gameID)
	if err != nil {
		return
	}
	names := make([]string, len(snap.Players))
	for i, p := range snap.Players {
		names[i] = p.Name
	}
	msg, err := protocol.NewMessage(protocol.TypeLobbyUpdate, protocol.LobbyUpdatePayload{
		GameID:  gameID,
		Players: names,
		Seats:   snap.Capacity,
	})
	if err != nil {
		h.logger.Error("lobby_update message", zap.String("game_id", gameID), zap.Error(err))
		return
	}
	h.broadcastToGame(gameID, msg)
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		h.logger.Error("error message", zap.String("client_id", client.ID), zap.Error(err))
		return
	}
	h.sendMessageToClient(client, msgBytes)
}

// sendJoinError sends a specific join error message to a client.
func (h *Hub) sendJoinError(client *Client, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeJoinError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		h.logger.Error("join_error message", zap.String("client_id", client.ID), zap.Error(err))
		return
	}
	h.sendMessageToClient(client, msgBytes)
}
