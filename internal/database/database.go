package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

var schema = []string{
	`create table if not exists briscola_results (
		id text not null primary key,
		created_at text not null,
		player_count integer not null,
		winner text not null,
		tie integer not null
	)`,
	`create table if not exists briscola_result_players (
		game_id text not null references briscola_results(id),
		seat integer not null,
		name text not null,
		team integer not null,
		score integer not null,
		primary key (game_id, seat)
	)`,
}

const selectResults = `
	select r.id, r.created_at, r.player_count, r.winner, r.tie,
	       p.seat, p.name, p.team, p.score
	  from briscola_results r
	  join briscola_result_players p on p.game_id = r.id`

// Service archives finished games.
type Service struct {
	db     *sql.DB
	driver string
	m      sync.Mutex
	logger *zap.Logger
}

// New opens the database and creates the tables if needed.
func New(ctx context.Context, driver, dsn string, logger *zap.Logger) (*Service, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// An in-memory database lives only as long as its connection.
		db.SetMaxOpenConns(1)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}

	logger.Info("results database ready", zap.String("driver", driver))
	return &Service{db: db, driver: driver, logger: logger}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders into $n for Postgres.
func (s *Service) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Insert stores a finished game and its seats in one transaction.
func (s *Service) Insert(ctx context.Context, result GameResult) error {
	s.m.Lock()
	defer s.m.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tie := 0
	if result.Tie {
		tie = 1
	}
	_, err = tx.ExecContext(ctx, s.rebind(
		"insert into briscola_results (id, created_at, player_count, winner, tie) values (?, ?, ?, ?, ?)"),
		result.ID, result.CreatedAt, result.PlayerCount, result.Winner, tie)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", result.ID, err)
	}
	for _, p := range result.Players {
		_, err = tx.ExecContext(ctx, s.rebind(
			"insert into briscola_result_players (game_id, seat, name, team, score) values (?, ?, ?, ?, ?)"),
			result.ID, p.Seat, p.Name, p.Team, p.Score)
		if err != nil {
			return fmt.Errorf("insert seat %d of %s: %w", p.Seat, result.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("game result stored", zap.String("game_id", result.ID), zap.String("winner", result.Winner))
	return nil
}

// GetAll returns every archived game, oldest first.
func (s *Service) GetAll(ctx context.Context) ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.query(ctx, selectResults+" order by r.created_at, r.id, p.seat")
}

// GetByID returns one archived game or sql.ErrNoRows.
func (s *Service) GetByID(ctx context.Context, id string) (GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.query(ctx, selectResults+" where r.id = ? order by p.seat", id)
	if err != nil {
		return GameResult{}, err
	}
	if len(results) == 0 {
		return GameResult{}, sql.ErrNoRows
	}
	return results[0], nil
}

// GetByPlayer returns the games a player took part in, or sql.ErrNoRows.
func (s *Service) GetByPlayer(ctx context.Context, playerName string) ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.query(ctx, selectResults+
		" where r.id in (select game_id from briscola_result_players where name = ?)"+
		" order by r.created_at, r.id, p.seat", playerName)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows
	}
	return results, nil
}

// query runs a result/seat join and folds the rows into games. Rows of the
// same game must be adjacent.
func (s *Service) query(ctx context.Context, query string, args ...any) ([]GameResult, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var (
			r   GameResult
			p   PlayerResult
			tie int
		)
		if err := rows.Scan(
			&r.ID,
			&r.CreatedAt,
			&r.PlayerCount,
			&r.Winner,
			&tie,
			&p.Seat,
			&p.Name,
			&p.Team,
			&p.Score); err != nil {
			return nil, err
		}
		r.Tie = tie != 0

		if n := len(results); n > 0 && results[n-1].ID == r.ID {
			results[n-1].Players = append(results[n-1].Players, p)
			continue
		}
		r.Players = []PlayerResult{p}
		results = append(results, r)
	}
	return results, rows.Err()
}
