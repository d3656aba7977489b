package shared

// PlayedCard stores a card along with the seat of the player who played it.
type PlayedCard struct {
	Card        Card `json:"card"`
	PlayerIndex int  `json:"player_index"`
}

// Trick represents the cards played in one round of a Briscola game.
type Trick struct {
	Cards []PlayedCard
}

// NewTrick creates an empty trick.
func NewTrick() *Trick {
	return &Trick{Cards: []PlayedCard{}}
}

// AddCard appends a card and the seat that played it.
func (t *Trick) AddCard(card Card, playerIndex int) {
	t.Cards = append(t.Cards, PlayedCard{Card: card, PlayerIndex: playerIndex})
}

func (t *Trick) Len() int {
	return len(t.Cards)
}

// LeadSuit returns the suit of the first card, or "" for an empty trick.
func (t *Trick) LeadSuit() Suit {
	if len(t.Cards) == 0 {
		return ""
	}
	return t.Cards[0].Card.Suit
}

// Points sums the value of every card in the trick.
func (t *Trick) Points() int {
	points := 0
	for _, pc := range t.Cards {
		points += pc.Card.Value
	}
	return points
}

// CardList returns the played cards in order.
func (t *Trick) CardList() []Card {
	cards := make([]Card, len(t.Cards))
	for i, pc := range t.Cards {
		cards[i] = pc.Card
	}
	return cards
}

// DetermineWinner returns the winning card of the trick given the trump suit.
// The best trump wins if any was played, otherwise the best card of the lead
// suit. The second result is false for an empty trick.
func (t *Trick) DetermineWinner(briscola Suit) (PlayedCard, bool) {
	if len(t.Cards) == 0 {
		return PlayedCard{}, false
	}
	if best, ok := t.best(briscola); ok {
		return best, true
	}
	// The lead card always qualifies here.
	return t.best(t.LeadSuit())
}

func (t *Trick) best(suit Suit) (PlayedCard, bool) {
	var winner PlayedCard
	found := false
	for _, pc := range t.Cards {
		if pc.Card.Suit != suit {
			continue
		}
		if !found || pc.Card.Beats(winner.Card) {
			winner = pc
			found = true
		}
	}
	return winner, found
}
