package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snakada/flipcard/internal/flashcard"
	"github.com/snakada/flipcard/internal/syncqueue"
)

// fakeStore records which remote write an executed mutation mapped to.
type fakeStore struct {
	calls []string
	err   error
}

func (f *fakeStore) FetchDecks(ctx context.Context, userID string) ([]flashcard.Deck, error) {
	f.calls = append(f.calls, "FetchDecks")
	return nil, f.err
}

func (f *fakeStore) UpsertDeck(ctx context.Context, userID string, deck syncqueue.DeckSnapshot) error {
	f.calls = append(f.calls, "UpsertDeck:"+deck.ID)
	return f.err
}

func (f *fakeStore) UpdateDeck(ctx context.Context, userID, deckID string, updates syncqueue.DeckUpdate) error {
	f.calls = append(f.calls, "UpdateDeck:"+deckID)
	return f.err
}

func (f *fakeStore) DeleteDeck(ctx context.Context, userID, deckID string) error {
	f.calls = append(f.calls, "DeleteDeck:"+deckID)
	return f.err
}

func (f *fakeStore) UpsertCard(ctx context.Context, card syncqueue.CardSnapshot) error {
	f.calls = append(f.calls, "UpsertCard:"+card.ID)
	return f.err
}

func (f *fakeStore) UpdateCard(ctx context.Context, cardID string, updates syncqueue.CardUpdate) error {
	f.calls = append(f.calls, "UpdateCard:"+cardID)
	return f.err
}

func (f *fakeStore) DeleteCard(ctx context.Context, cardID string) error {
	f.calls = append(f.calls, "DeleteCard:"+cardID)
	return f.err
}

func mustMutation(t *testing.T, mutationType syncqueue.Type, payload any) syncqueue.Mutation {
	t.Helper()
	mutation, err := syncqueue.New(mutationType, payload)
	require.NoError(t, err)
	return mutation
}

func TestExecutor_Execute(t *testing.T) {
	tests := []struct {
		name     string
		mutation func(t *testing.T) syncqueue.Mutation
		wantCall string
	}{
		{
			name: "deck create maps to one upsert",
			mutation: func(t *testing.T) syncqueue.Mutation {
				return mustMutation(t, syncqueue.TypeDeckCreate, syncqueue.DeckCreatePayload{
					Deck: syncqueue.DeckSnapshot{ID: "d1", Title: "Spanish"},
				})
			},
			wantCall: "UpsertDeck:d1",
		},
		{
			name: "deck update",
			mutation: func(t *testing.T) syncqueue.Mutation {
				return mustMutation(t, syncqueue.TypeDeckUpdate, syncqueue.DeckUpdatePayload{DeckID: "d1"})
			},
			wantCall: "UpdateDeck:d1",
		},
		{
			name: "deck delete",
			mutation: func(t *testing.T) syncqueue.Mutation {
				return mustMutation(t, syncqueue.TypeDeckDelete, syncqueue.DeckDeletePayload{DeckID: "d1"})
			},
			wantCall: "DeleteDeck:d1",
		},
		{
			name: "card create maps to one upsert",
			mutation: func(t *testing.T) syncqueue.Mutation {
				return mustMutation(t, syncqueue.TypeCardCreate, syncqueue.CardCreatePayload{
					Card: syncqueue.CardSnapshot{ID: "c1", DeckID: "d1"},
				})
			},
			wantCall: "UpsertCard:c1",
		},
		{
			name: "card update",
			mutation: func(t *testing.T) syncqueue.Mutation {
				return mustMutation(t, syncqueue.TypeCardUpdate, syncqueue.CardUpdatePayload{CardID: "c1"})
			},
			wantCall: "UpdateCard:c1",
		},
		{
			name: "card delete",
			mutation: func(t *testing.T) syncqueue.Mutation {
				return mustMutation(t, syncqueue.TypeCardDelete, syncqueue.CardDeletePayload{CardID: "c1"})
			},
			wantCall: "DeleteCard:c1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			executor := NewExecutor(store)

			ok := executor.Execute(context.Background(), tt.mutation(t), "user-1")
			assert.True(t, ok)
			assert.Equal(t, []string{tt.wantCall}, store.calls)
		})
	}
}

func TestExecutor_Execute_ConvertsErrorsToFalse(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	executor := NewExecutor(store)

	mutation := mustMutation(t, syncqueue.TypeDeckDelete, syncqueue.DeckDeletePayload{DeckID: "d1"})
	assert.False(t, executor.Execute(context.Background(), mutation, "user-1"))
}

func TestExecutor_Execute_UnknownTypeDrains(t *testing.T) {
	store := &fakeStore{}
	executor := NewExecutor(store)

	mutation := mustMutation(t, syncqueue.Type("deck:rename"), map[string]string{"deckId": "d1"})
	assert.True(t, executor.Execute(context.Background(), mutation, "user-1"))
	assert.Empty(t, store.calls)
}

func TestExecutor_Execute_IdempotentReplay(t *testing.T) {
	store := &fakeStore{}
	executor := NewExecutor(store)

	mutation := mustMutation(t, syncqueue.TypeCardCreate, syncqueue.CardCreatePayload{
		Card: syncqueue.CardSnapshot{ID: "c1", DeckID: "d1"},
	})

	// Replaying the same create issues the same upsert twice; the second
	// attempt rewrites the row instead of duplicating it.
	assert.True(t, executor.Execute(context.Background(), mutation, "user-1"))
	assert.True(t, executor.Execute(context.Background(), mutation, "user-1"))
	assert.Equal(t, []string{"UpsertCard:c1", "UpsertCard:c1"}, store.calls)
}
