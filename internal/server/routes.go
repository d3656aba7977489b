package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"briscola-game/internal/database"
	"briscola-game/internal/game"
	"briscola-game/internal/shared"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ResultStore reads archived games.
type ResultStore interface {
	GetAll(ctx context.Context) ([]database.GameResult, error)
	GetByID(ctx context.Context, id string) (database.GameResult, error)
	GetByPlayer(ctx context.Context, playerName string) ([]database.GameResult, error)
}

// API serves the REST interface over a game store.
type API struct {
	store   *game.Store
	results ResultStore
	logger  *zap.Logger
}

// NewAPI creates the REST handlers. results may be nil, in which case the
// results endpoints answer 503.
func NewAPI(store *game.Store, results ResultStore, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{store: store, results: results, logger: logger}
}

// NewRouter wires the REST API, the websocket endpoint and static files.
// hub may be nil to serve the REST API alone.
func NewRouter(api *API, hub *Hub, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(api.logger))

	api.Register(r)
	if hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ServeWs(hub, w, r)
		})
	}
	if staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	return r
}

// Register mounts the API routes.
func (a *API) Register(r chi.Router) {
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "games": a.store.Len()})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", a.listGames)
		r.Post("/", a.createGame)
		r.Post("/open", a.createOpenGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", a.getGame)
			r.Delete("/", a.deleteGame)
			r.Post("/join", a.joinGame)
			r.Post("/start", a.startGame)
			r.Post("/play", a.playCard)
			r.Get("/winner", a.getWinner)
			r.Get("/players/{name}/hand", a.getHand)
		})
	})

	r.Get("/api/results", a.getResults)
	r.Get("/api/results/{id}", a.getResult)
	r.Get("/api/results/player/{name}", a.getResultsByPlayer)
}

type createGameRequest struct {
	Players []string `json:"players"`
}

type createOpenGameRequest struct {
	Capacity int    `json:"capacity"`
	Player   string `json:"player,omitempty"` // Optional first player
}

type joinGameRequest struct {
	Player string `json:"player"`
}

type playCardRequest struct {
	PlayerName string `json:"player_name"`
	Card       struct {
		Rank string `json:"rank"`
		Suit string `json:"suit"`
	} `json:"card"`
}

type winnerResponse struct {
	Message string        `json:"message,omitempty"`
	Winner  string        `json:"winner,omitempty"`
	Result  game.Result   `json:"result"`
	State   game.Snapshot `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) listGames(w http.ResponseWriter, r *http.Request) {
	games := []game.Snapshot{}
	for _, id := range a.store.List() {
		snap, err := a.store.Get(id)
		if err != nil {
			continue // removed since List
		}
		games = append(games, snap)
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

func (a *API) createGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "players data is required"})
		return
	}
	snap, err := a.store.Create(req.Players)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (a *API) createOpenGame(w http.ResponseWriter, r *http.Request) {
	var req createOpenGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "capacity is required"})
		return
	}
	snap, err := a.store.CreateOpen(req.Capacity)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.Player != "" {
		if err := a.store.Do(snap.ID, func(g *game.Game) error {
			if err := g.Join(req.Player); err != nil {
				return err
			}
			snap = g.State()
			return nil
		}); err != nil {
			_ = a.store.Remove(snap.ID)
			a.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (a *API) getGame(w http.ResponseWriter, r *http.Request) {
	snap, err := a.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *API) deleteGame(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Remove(chi.URLParam(r, "id")); err != nil {
		a.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) joinGame(w http.ResponseWriter, r *http.Request) {
	var req joinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Player == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "player name is required"})
		return
	}
	a.mutate(w, r, func(g *game.Game) error { return g.Join(req.Player) })
}

func (a *API) startGame(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, func(g *game.Game) error { return g.Start() })
}

func (a *API) playCard(w http.ResponseWriter, r *http.Request) {
	var req playCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid play"})
		return
	}
	card, err := shared.ParseCard(req.Card.Rank, req.Card.Suit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.mutate(w, r, func(g *game.Game) error { return g.PlayTurnAs(req.PlayerName, card) })
}

// mutate applies fn to the game named in the URL and answers with its new state.
func (a *API) mutate(w http.ResponseWriter, r *http.Request, fn func(g *game.Game) error) {
	var snap game.Snapshot
	err := a.store.Do(chi.URLParam(r, "id"), func(g *game.Game) error {
		if err := fn(g); err != nil {
			return err
		}
		snap = g.State()
		return nil
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *API) getWinner(w http.ResponseWriter, r *http.Request) {
	var resp winnerResponse
	err := a.store.Do(chi.URLParam(r, "id"), func(g *game.Game) error {
		resp.Result = g.Result()
		resp.State = g.State()
		return nil
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	switch {
	case !resp.Result.Finished:
		resp.Message = "Game is not over yet"
	case resp.Result.Tie:
		resp.Message = "Game ended in a tie"
	default:
		resp.Winner = resp.Result.Winner.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) getHand(w http.ResponseWriter, r *http.Request) {
	var hand []shared.Card
	err := a.store.Do(chi.URLParam(r, "id"), func(g *game.Game) error {
		var err error
		hand, err = g.Hand(chi.URLParam(r, "name"))
		return err
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hand": hand})
}

func (a *API) getResults(w http.ResponseWriter, r *http.Request) {
	if a.results == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "results archive disabled"})
		return
	}
	results, err := a.results.GetAll(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if results == nil {
		results = []database.GameResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (a *API) getResult(w http.ResponseWriter, r *http.Request) {
	if a.results == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "results archive disabled"})
		return
	}
	result, err := a.results.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "result not found"})
			return
		}
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) getResultsByPlayer(w http.ResponseWriter, r *http.Request) {
	if a.results == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "results archive disabled"})
		return
	}
	results, err := a.results.GetByPlayer(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no results found for player"})
			return
		}
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrGameFull),
		errors.Is(err, shared.ErrDuplicatePlayerName),
		errors.Is(err, shared.ErrGameAlreadyOver),
		errors.Is(err, shared.ErrGameAlreadyStarted):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidPlayerCount),
		errors.Is(err, shared.ErrInvalidPlayerName),
		errors.Is(err, shared.ErrCardNotInHand),
		errors.Is(err, shared.ErrNotYourTurn),
		errors.Is(err, shared.ErrGameNotStarted),
		errors.Is(err, shared.ErrUnknownPlayer),
		errors.Is(err, shared.ErrInvalidCard):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.Error("internal error",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request with structured fields.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}
