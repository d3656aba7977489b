package game

import (
	"fmt"

	"briscola-game/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameState represents the current phase of the game.
type GameState string

const (
	Waiting      GameState = "Waiting"      // Open game, seats still being filled
	Dealing      GameState = "Dealing"      // Cards are being dealt
	AwaitingPlay GameState = "AwaitingPlay" // Players are playing tricks
	RoundOver    GameState = "RoundOver"    // Every trick has been played
)

// TrickResult describes a resolved trick.
type TrickResult struct {
	Cards       []shared.PlayedCard `json:"cards"`
	WinnerIndex int                 `json:"winner_index"`
	WinnerName  string              `json:"winner_name"`
	Points      int                 `json:"points"`
}

// Game is the Briscola rules engine. It is not safe for concurrent use;
// hosts serialize access per game, see Store.
type Game struct {
	ID                 string
	Players            []*shared.Player
	Deck               *shared.Deck
	BriscolaCard       shared.Card
	CurrentPlayerIndex int
	CurrentTrick       *shared.Trick
	TricksPlayed       int
	GameState          GameState
	Capacity           int          // Seats available while Waiting
	LastTrick          *TrickResult // nil until the first trick resolves

	rng    shared.RNG
	logger *zap.Logger
}

// Option configures a Game at construction.
type Option func(*Game)

// WithRNG sets the random source used to shuffle the deck.
func WithRNG(rng shared.RNG) Option {
	return func(g *Game) { g.rng = rng }
}

// WithLogger sets the logger game events are written to.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDeck deals from the given deck as-is instead of a freshly shuffled one.
func WithDeck(deck *shared.Deck) Option {
	return func(g *Game) { g.Deck = deck }
}

func newGame(opts []Option) *Game {
	g := &Game{
		ID:           uuid.NewString(),
		Players:      []*shared.Player{},
		CurrentTrick: shared.NewTrick(),
		GameState:    Waiting,
		rng:          shared.DefaultRNG,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(zap.String("game_id", g.ID))
	return g
}

// New creates a game for the given players in seat order and deals
// immediately. Four players are split into teams by alternating seats.
func New(playerNames []string, opts ...Option) (*Game, error) {
	if !validPlayerCount(len(playerNames)) {
		return nil, fmt.Errorf("%w: got %d", shared.ErrInvalidPlayerCount, len(playerNames))
	}
	g := newGame(opts)
	g.Capacity = len(playerNames)
	for _, name := range playerNames {
		if err := g.seat(name); err != nil {
			return nil, err
		}
	}
	if err := g.deal(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewOpen creates a game that admits players through Join until capacity
// seats are taken. Dealing is deferred until then, or until Start.
func NewOpen(capacity int, opts ...Option) (*Game, error) {
	if !validPlayerCount(capacity) {
		return nil, fmt.Errorf("%w: capacity %d", shared.ErrInvalidPlayerCount, capacity)
	}
	g := newGame(opts)
	if g.Deck != nil {
		if err := g.Deck.Validate(); err != nil {
			return nil, err
		}
	}
	g.Capacity = capacity
	g.logger.Info("open game created", zap.Int("capacity", capacity))
	return g, nil
}

func validPlayerCount(n int) bool {
	return n == 2 || n == 4
}

// Join seats a player in an open game. The game deals as soon as the last
// seat is taken.
func (g *Game) Join(playerName string) error {
	if g.GameState != Waiting || len(g.Players) >= g.Capacity {
		return shared.ErrGameFull
	}
	if err := g.seat(playerName); err != nil {
		return err
	}
	g.logger.Info("player joined",
		zap.String("player", playerName),
		zap.Int("seat", len(g.Players)-1),
	)
	if len(g.Players) == g.Capacity {
		return g.deal()
	}
	return nil
}

// Start deals an open game before all seats are taken. The seated count must
// be 2 or 4.
func (g *Game) Start() error {
	if g.GameState != Waiting {
		return shared.ErrGameAlreadyStarted
	}
	if !validPlayerCount(len(g.Players)) {
		return fmt.Errorf("%w: %d seated", shared.ErrInvalidPlayerCount, len(g.Players))
	}
	return g.deal()
}

func (g *Game) seat(name string) error {
	if name == "" {
		return shared.ErrInvalidPlayerName
	}
	if g.PlayerIndex(name) != -1 {
		return fmt.Errorf("%w: %q", shared.ErrDuplicatePlayerName, name)
	}
	g.Players = append(g.Players, shared.NewPlayer(name, shared.NoTeam))
	return nil
}

// deal hands out three cards per player and turns up the briscola, which is
// then tucked under the deck so it is the last card drawn.
func (g *Game) deal() error {
	n := len(g.Players)
	if g.Deck == nil {
		g.Deck = shared.NewShuffledDeck(g.rng)
	}
	if err := g.Deck.Validate(); err != nil {
		return err
	}

	g.GameState = Dealing
	for i, p := range g.Players {
		if n == 4 {
			p.Team = shared.TeamForSeat(i)
		}
	}
	for range shared.HandSize {
		for _, p := range g.Players {
			card, _ := g.Deck.Draw()
			p.AddCard(card)
		}
	}
	briscola, _ := g.Deck.Draw()
	g.BriscolaCard = briscola
	g.Deck.PlaceBottom(briscola)

	g.CurrentPlayerIndex = 0
	g.GameState = AwaitingPlay
	g.logger.Info("cards dealt",
		zap.Int("players", n),
		zap.Stringer("briscola", briscola),
		zap.Int("deck", g.Deck.Len()),
	)
	return nil
}

// PlayTurn plays card from the hand of the player whose turn it is. On error
// the game is left unchanged.
func (g *Game) PlayTurn(card shared.Card) error {
	switch g.GameState {
	case Waiting, Dealing:
		return shared.ErrGameNotStarted
	case RoundOver:
		return shared.ErrGameAlreadyOver
	}

	playerIndex := g.CurrentPlayerIndex
	player := g.Players[playerIndex]
	played, err := player.PlayCard(card)
	if err != nil {
		return err
	}

	g.CurrentTrick.AddCard(played, playerIndex)
	player.PlayedCards = append(player.PlayedCards, played)
	g.logger.Debug("card played",
		zap.String("player", player.Name),
		zap.Stringer("card", played),
	)

	if g.CurrentTrick.Len() == len(g.Players) {
		g.resolveTrick()
	} else {
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
	}
	return nil
}

// PlayTurnAs plays card on behalf of the named player, rejecting plays out
// of turn.
func (g *Game) PlayTurnAs(playerName string, card shared.Card) error {
	switch g.GameState {
	case Waiting, Dealing:
		return shared.ErrGameNotStarted
	case RoundOver:
		return shared.ErrGameAlreadyOver
	}
	idx := g.PlayerIndex(playerName)
	if idx == -1 {
		return fmt.Errorf("%w: %q", shared.ErrUnknownPlayer, playerName)
	}
	if idx != g.CurrentPlayerIndex {
		return fmt.Errorf("%w: waiting for %s", shared.ErrNotYourTurn, g.Players[g.CurrentPlayerIndex].Name)
	}
	return g.PlayTurn(card)
}

// resolveTrick scores the complete trick and prepares the next one.
func (g *Game) resolveTrick() {
	winning, _ := g.CurrentTrick.DetermineWinner(g.BriscolaCard.Suit)
	winnerIndex := g.ownerOf(winning.Card)
	if winnerIndex == -1 {
		winnerIndex = winning.PlayerIndex
	}
	winner := g.Players[winnerIndex]

	points := g.CurrentTrick.Points()
	if err := winner.AddToScore(points); err != nil {
		g.logger.Error("trick points not scored", zap.Error(err))
	}
	winner.Won = append(winner.Won, g.CurrentTrick.CardList()...)

	g.LastTrick = &TrickResult{
		Cards:       append([]shared.PlayedCard(nil), g.CurrentTrick.Cards...),
		WinnerIndex: winnerIndex,
		WinnerName:  winner.Name,
		Points:      points,
	}
	g.CurrentPlayerIndex = winnerIndex
	g.TricksPlayed++
	g.logger.Info("trick resolved",
		zap.Int("trick", g.TricksPlayed),
		zap.String("winner", winner.Name),
		zap.Stringer("winning_card", winning.Card),
		zap.Int("points", points),
	)

	if !g.IsOver() {
		g.replenishHands(winnerIndex)
	}
	for _, p := range g.Players {
		p.PlayedCards = nil
	}
	g.CurrentTrick = shared.NewTrick()

	if g.IsOver() {
		g.GameState = RoundOver
		g.logger.Info("round over", zap.Ints("scores", g.scores()))
	}
}

// replenishHands deals one card to each player, winner first, going round
// the table until the deck runs out.
func (g *Game) replenishHands(winnerIndex int) {
	n := len(g.Players)
	for i := range n {
		if g.Deck.Len() == 0 {
			return
		}
		card, err := g.Deck.Draw()
		if err != nil {
			return
		}
		g.Players[(winnerIndex+i)%n].AddCard(card)
	}
}

// ownerOf finds the seat whose played cards contain card.
func (g *Game) ownerOf(card shared.Card) int {
	for i, p := range g.Players {
		if p.HasPlayed(card) {
			return i
		}
	}
	return -1
}

func (g *Game) scores() []int {
	out := make([]int, len(g.Players))
	for i, p := range g.Players {
		out[i] = p.Score
	}
	return out
}

// TotalTricks is the number of tricks in a full game: 20 for two players, 10 for four.
func (g *Game) TotalTricks() int {
	if len(g.Players) == 0 {
		return 0
	}
	return shared.DeckSize / len(g.Players)
}

// IsOver reports whether every trick has been played.
func (g *Game) IsOver() bool {
	return g.GameState != Waiting && g.TricksPlayed == g.TotalTricks()
}

// CurrentPlayer returns the player due to act, or nil while Waiting.
func (g *Game) CurrentPlayer() *shared.Player {
	if g.GameState == Waiting || len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// PlayerIndex finds the seat of a player by name. Returns -1 if not found.
func (g *Game) PlayerIndex(name string) int {
	for i, p := range g.Players {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Hand returns a copy of the named player's hand.
func (g *Game) Hand(playerName string) ([]shared.Card, error) {
	idx := g.PlayerIndex(playerName)
	if idx == -1 {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownPlayer, playerName)
	}
	return g.Players[idx].PlayableCards(), nil
}

// TeamScores sums member scores per team. Both are zero outside 4-player games.
func (g *Game) TeamScores() (team1, team2 int) {
	return shared.TeamScore(g.Players, shared.Team1), shared.TeamScore(g.Players, shared.Team2)
}
