// Command simulate plays Briscola games between bots and prints the tally.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"briscola-game/internal/bot"
	"briscola-game/internal/game"
	"briscola-game/internal/shared"
)

type options struct {
	players    int
	games      int
	seed       uint64
	strategies []string // One per seat, cycled if shorter
	verbose    bool
}

func main() {
	var (
		opts       options
		strategies string
	)
	flag.IntVar(&opts.players, "players", 2, "number of seats (2 or 4)")
	flag.IntVar(&opts.games, "games", 100, "number of games to play")
	flag.Uint64Var(&opts.seed, "seed", 0, "seed for shuffles and random bots; 0 picks one")
	flag.StringVar(&strategies, "strategy", "greedy,random", "comma-separated strategy per seat")
	flag.BoolVar(&opts.verbose, "v", false, "print every trick of the first game")
	flag.Parse()

	opts.strategies = strings.Split(strategies, ",")
	if opts.seed == 0 {
		opts.seed = uint64(shared.DefaultRNG.IntN(1 << 30))
	}

	pterm.DefaultHeader.WithFullWidth().Println("Briscola simulation")
	pterm.Info.Printfln("%d games, %d players, seed %d", opts.games, opts.players, opts.seed)

	sum, err := simulate(opts)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	render(sum)
}

// seatTally accumulates the results of one seat.
type seatTally struct {
	name     string
	strategy string
	wins     int
	points   int
}

type summary struct {
	games int
	ties  int
	seats []seatTally
	teams [3]int // Wins per team; index 0 unused
	first []game.TrickResult
}

func seatNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("bot%d", i+1)
	}
	return names
}

func simulate(opts options) (summary, error) {
	if opts.players != 2 && opts.players != 4 {
		return summary{}, shared.ErrInvalidPlayerCount
	}
	if opts.games <= 0 {
		return summary{}, fmt.Errorf("games must be positive, got %d", opts.games)
	}

	names := seatNames(opts.players)
	rng := shared.SeededRNG(opts.seed)
	bots := make([]bot.Strategy, opts.players)
	sum := summary{games: opts.games, seats: make([]seatTally, opts.players)}
	for i := range bots {
		name := strings.TrimSpace(opts.strategies[i%len(opts.strategies)])
		s, err := bot.New(name, rng)
		if err != nil {
			return summary{}, err
		}
		bots[i] = s
		sum.seats[i] = seatTally{name: names[i], strategy: s.Name()}
	}

	for n := 0; n < opts.games; n++ {
		g, err := game.New(names,
			game.WithRNG(shared.SeededRNG(opts.seed+uint64(n))),
			game.WithLogger(zap.NewNop()),
		)
		if err != nil {
			return summary{}, err
		}
		for !g.IsOver() {
			before := g.TricksPlayed
			if _, err := bot.Play(g, bots[g.CurrentPlayerIndex]); err != nil {
				return summary{}, fmt.Errorf("game %d: %w", n+1, err)
			}
			if n == 0 && opts.verbose && g.TricksPlayed != before {
				sum.first = append(sum.first, *g.LastTrick)
			}
		}

		for i, p := range g.Players {
			sum.seats[i].points += p.Score
		}
		w, ok := g.Winner()
		switch {
		case !ok:
			sum.ties++
		case w.Team != shared.NoTeam:
			sum.teams[w.Team]++
			for i, p := range g.Players {
				if p.Team == w.Team {
					sum.seats[i].wins++
				}
			}
		default:
			sum.seats[g.PlayerIndex(w.PlayerName)].wins++
		}
	}
	return sum, nil
}

func render(sum summary) {
	if len(sum.first) > 0 {
		pterm.DefaultSection.Println("First game")
		for i, t := range sum.first {
			cards := make([]string, len(t.Cards))
			for j, pc := range t.Cards {
				cards[j] = colored(pc.Card)
			}
			pterm.Printfln("%2d. %s -> %s (+%d)", i+1, strings.Join(cards, "  "), t.WinnerName, t.Points)
		}
	}

	data := pterm.TableData{{"Seat", "Strategy", "Wins", "Win %", "Avg points"}}
	for _, s := range sum.seats {
		data = append(data, []string{
			s.name,
			s.strategy,
			fmt.Sprint(s.wins),
			fmt.Sprintf("%.1f", 100*float64(s.wins)/float64(sum.games)),
			fmt.Sprintf("%.1f", float64(s.points)/float64(sum.games)),
		})
	}
	pterm.DefaultSection.Println("Results")
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
	if len(sum.seats) == 4 {
		pterm.Info.Printfln("Team 1 won %d, Team 2 won %d", sum.teams[shared.Team1], sum.teams[shared.Team2])
	}
	pterm.Success.Printfln("%d games played, %d ties", sum.games, sum.ties)
}

func colored(c shared.Card) string {
	label := fmt.Sprintf("%s/%s", c.Rank, c.Suit)
	switch c.Suit {
	case shared.Denari:
		return pterm.Yellow(label)
	case shared.Coppe:
		return pterm.LightRed(label)
	case shared.Spade:
		return pterm.LightBlue(label)
	default:
		return pterm.Green(label)
	}
}
