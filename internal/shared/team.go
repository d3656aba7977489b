package shared

// TeamEnum represents the two teams of a 4-player game.
type TeamEnum int

const (
	NoTeam TeamEnum = 0 // 2-player games
	Team1  TeamEnum = 1 // seats 0 and 2
	Team2  TeamEnum = 2 // seats 1 and 3
)

// TeamForSeat returns the team of a seat in a 4-player game.
func TeamForSeat(seat int) TeamEnum {
	return TeamEnum(seat%2 + 1)
}

// TeamScore sums the scores of the players on a team.
func TeamScore(players []*Player, team TeamEnum) int {
	total := 0
	for _, p := range players {
		if p != nil && p.Team == team {
			total += p.Score
		}
	}
	return total
}
