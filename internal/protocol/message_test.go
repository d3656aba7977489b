package protocol

import (
	"encoding/json"
	"testing"

	"briscola-game/internal/shared"
)

func TestNewMessage(t *testing.T) {
	raw, err := NewMessage(TypeDealHand, DealHandPayload{Hand: []shared.Card{shared.MustCard(shared.Asso, shared.Coppe)}})
	if err != nil {
		t.Fatal(err)
	}

	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != TypeDealHand {
		t.Errorf("expected type %s, got %s", TypeDealHand, msg.Type)
	}

	var payload DealHandPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.Hand) != 1 || payload.Hand[0].Value != 11 || payload.Hand[0].Rank != shared.Asso {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestNewMessageNilPayload(t *testing.T) {
	raw, err := NewMessage(TypePong, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"type":"pong"}` {
		t.Errorf("unexpected message %s", raw)
	}
}
