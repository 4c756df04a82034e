package remote

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/snakada/flipcard/internal/syncqueue"
)

// Executor translates one queued mutation into exactly one remote write.
// It implements syncqueue.Executor: the outcome is a plain boolean and no
// transport or backend error ever escapes to the caller.
type Executor struct {
	store Store
}

// NewExecutor creates an Executor over the given remote store.
func NewExecutor(store Store) *Executor {
	return &Executor{store: store}
}

// Execute attempts the remote write for the mutation. A mutation with an
// unknown type or an unreadable payload reports success so it drains out of
// the queue instead of clogging it forever.
func (e *Executor) Execute(ctx context.Context, mutation syncqueue.Mutation, userID string) bool {
	err := e.execute(ctx, mutation, userID)
	if err != nil {
		slog.Debug("mutation attempt failed",
			"mutation_id", mutation.ID,
			"type", mutation.Type,
			"error", err,
		)
		return false
	}
	return true
}

func (e *Executor) execute(ctx context.Context, mutation syncqueue.Mutation, userID string) error {
	switch mutation.Type {
	case syncqueue.TypeDeckCreate:
		var payload syncqueue.DeckCreatePayload
		if err := json.Unmarshal(mutation.Payload, &payload); err != nil {
			return nil
		}
		return e.store.UpsertDeck(ctx, userID, payload.Deck)
	case syncqueue.TypeDeckUpdate:
		var payload syncqueue.DeckUpdatePayload
		if err := json.Unmarshal(mutation.Payload, &payload); err != nil {
			return nil
		}
		return e.store.UpdateDeck(ctx, userID, payload.DeckID, payload.Updates)
	case syncqueue.TypeDeckDelete:
		var payload syncqueue.DeckDeletePayload
		if err := json.Unmarshal(mutation.Payload, &payload); err != nil {
			return nil
		}
		return e.store.DeleteDeck(ctx, userID, payload.DeckID)
	case syncqueue.TypeCardCreate:
		var payload syncqueue.CardCreatePayload
		if err := json.Unmarshal(mutation.Payload, &payload); err != nil {
			return nil
		}
		return e.store.UpsertCard(ctx, payload.Card)
	case syncqueue.TypeCardUpdate:
		var payload syncqueue.CardUpdatePayload
		if err := json.Unmarshal(mutation.Payload, &payload); err != nil {
			return nil
		}
		return e.store.UpdateCard(ctx, payload.CardID, payload.Updates)
	case syncqueue.TypeCardDelete:
		var payload syncqueue.CardDeletePayload
		if err := json.Unmarshal(mutation.Payload, &payload); err != nil {
			return nil
		}
		return e.store.DeleteCard(ctx, payload.CardID)
	default:
		// Unknown entries are drained, not retried.
		return nil
	}
}
