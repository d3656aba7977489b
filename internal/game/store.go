package game

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
)

var ErrGameNotFound = errors.New("game not found")

// FinishFunc is called once per game, with the game's lock held, right after
// the operation that played its final trick.
type FinishFunc func(g *Game)

type entry struct {
	mu       sync.Mutex
	game     *Game
	finished bool
}

// Store holds the active games of a hosting process. Operations on the same
// game id are serialized; different games proceed independently.
type Store struct {
	mu       sync.RWMutex
	games    map[string]*entry
	opts     []Option
	onFinish FinishFunc
	logger   *zap.Logger
}

// NewStore creates an empty store. opts are applied to every game it creates.
func NewStore(logger *zap.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		games:  make(map[string]*entry),
		opts:   append([]Option{WithLogger(logger)}, opts...),
		logger: logger,
	}
}

// OnFinish registers a hook run when a game reaches RoundOver.
func (s *Store) OnFinish(fn FinishFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinish = fn
}

// Create starts a dealt game for the given players.
func (s *Store) Create(playerNames []string) (Snapshot, error) {
	g, err := New(playerNames, s.opts...)
	if err != nil {
		return Snapshot{}, err
	}
	s.add(g)
	return g.State(), nil
}

// CreateOpen registers an open game that players join one by one.
func (s *Store) CreateOpen(capacity int) (Snapshot, error) {
	g, err := NewOpen(capacity, s.opts...)
	if err != nil {
		return Snapshot{}, err
	}
	s.add(g)
	return g.State(), nil
}

func (s *Store) add(g *Game) {
	s.mu.Lock()
	s.games[g.ID] = &entry{game: g}
	s.mu.Unlock()
	s.logger.Info("game registered", zap.String("game_id", g.ID), zap.Int("active", s.Len()))
}

// Do runs fn with exclusive access to the game. fn must not retain g.
func (s *Store) Do(id string, fn func(g *Game) error) error {
	s.mu.RLock()
	e, ok := s.games[id]
	onFinish := s.onFinish
	s.mu.RUnlock()
	if !ok {
		return ErrGameNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	err := fn(e.game)
	if !e.finished && e.game.IsOver() {
		e.finished = true
		if onFinish != nil {
			onFinish(e.game)
		}
	}
	return err
}

// Get returns a snapshot of the game.
func (s *Store) Get(id string) (Snapshot, error) {
	var snap Snapshot
	err := s.Do(id, func(g *Game) error {
		snap = g.State()
		return nil
	})
	return snap, err
}

// Remove drops a game from the store.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(s.games, id)
	s.logger.Info("game removed", zap.String("game_id", id))
	return nil
}

// List returns the ids of all games, sorted.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
