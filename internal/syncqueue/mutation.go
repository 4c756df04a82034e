// Package syncqueue implements the durable log of not-yet-confirmed write
// operations. Every optimistic local edit enqueues one mutation here; an
// entry leaves the queue only after the backend confirms it.
package syncqueue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/snakada/flipcard/internal/flashcard"
)

// Type identifies which remote write a mutation replays.
type Type string

const (
	TypeDeckCreate Type = "deck:create"
	TypeDeckUpdate Type = "deck:update"
	TypeDeckDelete Type = "deck:delete"
	TypeCardCreate Type = "card:create"
	TypeCardUpdate Type = "card:update"
	TypeCardDelete Type = "card:delete"
)

// Mutation is one queued, independently retryable write. The payload is a
// full snapshot of the operation, not a diff, so it can be replayed from
// scratch at any later time. CreatedAt is unix milliseconds and is used only
// for FIFO ordering.
type Mutation struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt int64           `json:"createdAt"`
}

// DeckSnapshot is the replayable description of a freshly created deck.
type DeckSnapshot struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// DeckUpdate carries the changed deck fields. A nil field was not part of
// the edit.
type DeckUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CardSnapshot is the replayable description of a freshly created card.
type CardSnapshot struct {
	ID     string             `json:"id"`
	DeckID string             `json:"deckId"`
	Front  flashcard.CardFace `json:"front"`
	Back   flashcard.CardFace `json:"back"`
}

// CardUpdate carries the changed card faces. A nil face was not part of the
// edit.
type CardUpdate struct {
	Front *flashcard.CardFace `json:"front,omitempty"`
	Back  *flashcard.CardFace `json:"back,omitempty"`
}

// DeckCreatePayload is the payload for TypeDeckCreate.
type DeckCreatePayload struct {
	Deck DeckSnapshot `json:"deck"`
}

// DeckUpdatePayload is the payload for TypeDeckUpdate.
type DeckUpdatePayload struct {
	DeckID  string     `json:"deckId"`
	Updates DeckUpdate `json:"updates"`
}

// DeckDeletePayload is the payload for TypeDeckDelete.
type DeckDeletePayload struct {
	DeckID string `json:"deckId"`
}

// CardCreatePayload is the payload for TypeCardCreate.
type CardCreatePayload struct {
	Card CardSnapshot `json:"card"`
}

// CardUpdatePayload is the payload for TypeCardUpdate.
type CardUpdatePayload struct {
	CardID  string     `json:"cardId"`
	Updates CardUpdate `json:"updates"`
}

// CardDeletePayload is the payload for TypeCardDelete.
type CardDeletePayload struct {
	CardID string `json:"cardId"`
}

// New builds a mutation of the given type around an already-marshalable
// payload, assigning the mutation its own client-side id.
func New(mutationType Type, payload any) (Mutation, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Mutation{}, fmt.Errorf("marshal %s payload> %w", mutationType, err)
	}
	return Mutation{
		ID:        flashcard.NewID(),
		Type:      mutationType,
		Payload:   raw,
		CreatedAt: time.Now().UnixMilli(),
	}, nil
}
