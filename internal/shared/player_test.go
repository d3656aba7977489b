package shared

import (
	"errors"
	"testing"
)

func TestPlayCard(t *testing.T) {
	p := NewPlayer("Anna", NoTeam)
	p.AddCard(MustCard(Asso, Coppe))
	p.AddCard(MustCard(Re, Spade))
	p.AddCard(MustCard(Due, Denari))

	played, err := p.PlayCard(Card{Rank: Re, Suit: Spade})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if played.Value != 4 {
		t.Errorf("expected the held card with value 4, got %+v", played)
	}
	if p.HandSize() != 2 {
		t.Errorf("expected 2 cards left, got %d", p.HandSize())
	}
	if _, found := p.FindCard(Re, Spade); found {
		t.Error("played card still in hand")
	}
}

func TestPlayCardNotInHandLeavesHandUntouched(t *testing.T) {
	p := NewPlayer("Anna", NoTeam)
	p.AddCard(MustCard(Asso, Coppe))
	p.AddCard(MustCard(Re, Spade))

	_, err := p.PlayCard(MustCard(Tre, Bastoni))
	if !errors.Is(err, ErrCardNotInHand) {
		t.Fatalf("expected ErrCardNotInHand, got %v", err)
	}
	if p.HandSize() != 2 || !p.Hand[0].Is(MustCard(Asso, Coppe)) || !p.Hand[1].Is(MustCard(Re, Spade)) {
		t.Errorf("hand changed after failed play: %v", p.Hand)
	}
}

func TestAddToScore(t *testing.T) {
	p := NewPlayer("Anna", NoTeam)
	if err := p.AddToScore(21); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddToScore(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddToScore(-5); !errors.Is(err, ErrNegativePoints) {
		t.Errorf("expected ErrNegativePoints, got %v", err)
	}
	if p.Score != 21 {
		t.Errorf("expected score 21, got %d", p.Score)
	}
}

func TestHasSuitAndPlayableCards(t *testing.T) {
	p := NewPlayer("Anna", NoTeam)
	p.AddCard(MustCard(Sette, Bastoni))

	if !p.HasSuit(Bastoni) || p.HasSuit(Denari) {
		t.Error("HasSuit reported the wrong suits")
	}

	playable := p.PlayableCards()
	playable[0] = MustCard(Asso, Denari)
	if !p.Hand[0].Is(MustCard(Sette, Bastoni)) {
		t.Error("PlayableCards returned the hand itself instead of a copy")
	}
}

func TestTeamScore(t *testing.T) {
	players := []*Player{
		{Name: "a", Team: TeamForSeat(0), Score: 10},
		{Name: "b", Team: TeamForSeat(1), Score: 20},
		{Name: "c", Team: TeamForSeat(2), Score: 30},
		{Name: "d", Team: TeamForSeat(3), Score: 40},
	}
	if got := TeamScore(players, Team1); got != 40 {
		t.Errorf("expected team 1 score 40, got %d", got)
	}
	if got := TeamScore(players, Team2); got != 60 {
		t.Errorf("expected team 2 score 60, got %d", got)
	}
}
