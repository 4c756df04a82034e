package syncqueue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/snakada/flipcard/internal/localstore"
	mock_syncqueue "github.com/snakada/flipcard/internal/mocks/syncqueue"
	"github.com/snakada/flipcard/internal/syncqueue"
)

func newQueue(t *testing.T) (*syncqueue.Queue, *localstore.Store) {
	t.Helper()
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	return syncqueue.Load(store), store
}

func mustMutation(t *testing.T, mutationType syncqueue.Type, payload any) syncqueue.Mutation {
	t.Helper()
	mutation, err := syncqueue.New(mutationType, payload)
	require.NoError(t, err)
	return mutation
}

func TestQueue_SurvivesReload(t *testing.T) {
	queue, store := newQueue(t)

	first := mustMutation(t, syncqueue.TypeDeckCreate, syncqueue.DeckCreatePayload{Deck: syncqueue.DeckSnapshot{ID: "d1", Title: "Spanish"}})
	second := mustMutation(t, syncqueue.TypeCardCreate, syncqueue.CardCreatePayload{Card: syncqueue.CardSnapshot{ID: "c1", DeckID: "d1"}})
	third := mustMutation(t, syncqueue.TypeDeckDelete, syncqueue.DeckDeletePayload{DeckID: "d2"})
	require.NoError(t, queue.Enqueue(first))
	require.NoError(t, queue.Enqueue(second))
	require.NoError(t, queue.Enqueue(third))

	// Simulated restart: a fresh queue over the same store must reproduce
	// the same entries in the same order.
	reloaded := syncqueue.Load(store)
	require.Equal(t, 3, reloaded.Len())
	entries := reloaded.Entries()
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.Equal(t, syncqueue.TypeDeckCreate, entries[0].Type)
	assert.JSONEq(t, string(first.Payload), string(entries[0].Payload))
}

func TestLoad_MalformedRecord(t *testing.T) {
	store, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Write(syncqueue.StorageKey, []byte(`{"not":"a list"`)))

	queue := syncqueue.Load(store)
	assert.Zero(t, queue.Len())
}

func TestQueue_Remove(t *testing.T) {
	queue, store := newQueue(t)

	first := mustMutation(t, syncqueue.TypeDeckCreate, syncqueue.DeckCreatePayload{Deck: syncqueue.DeckSnapshot{ID: "d1", Title: "A"}})
	second := mustMutation(t, syncqueue.TypeDeckCreate, syncqueue.DeckCreatePayload{Deck: syncqueue.DeckSnapshot{ID: "d2", Title: "B"}})
	require.NoError(t, queue.Enqueue(first))
	require.NoError(t, queue.Enqueue(second))

	require.NoError(t, queue.Remove(first.ID))
	require.Equal(t, 1, queue.Len())
	assert.Equal(t, second.ID, queue.Entries()[0].ID)

	// Removing an unknown id is a no-op.
	require.NoError(t, queue.Remove("missing"))
	assert.Equal(t, 1, syncqueue.Load(store).Len())
}

func TestQueue_DrainKeepsFailuresInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue, store := newQueue(t)

	a := mustMutation(t, syncqueue.TypeDeckUpdate, syncqueue.DeckUpdatePayload{DeckID: "d1"})
	b := mustMutation(t, syncqueue.TypeCardDelete, syncqueue.CardDeletePayload{CardID: "c1"})
	c := mustMutation(t, syncqueue.TypeCardDelete, syncqueue.CardDeletePayload{CardID: "c2"})
	require.NoError(t, queue.Enqueue(a))
	require.NoError(t, queue.Enqueue(b))
	require.NoError(t, queue.Enqueue(c))

	executor := mock_syncqueue.NewMockExecutor(ctrl)
	gomock.InOrder(
		executor.EXPECT().Execute(gomock.Any(), a, "user-1").Return(false),
		executor.EXPECT().Execute(gomock.Any(), b, "user-1").Return(true),
		executor.EXPECT().Execute(gomock.Any(), c, "user-1").Return(true),
	)

	succeeded, err := queue.Drain(context.Background(), executor, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, succeeded)

	// The failed entry stays, in its original position, and the remaining
	// set is what got persisted.
	require.Equal(t, 1, queue.Len())
	assert.Equal(t, a.ID, queue.Entries()[0].ID)
	assert.Equal(t, 1, syncqueue.Load(store).Len())
}

func TestQueue_DrainEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	queue, _ := newQueue(t)

	executor := mock_syncqueue.NewMockExecutor(ctrl)

	succeeded, err := queue.Drain(context.Background(), executor, "user-1")
	require.NoError(t, err)
	assert.Zero(t, succeeded)
}

func TestQueue_NoCoalescing(t *testing.T) {
	queue, _ := newQueue(t)

	// Rapid edit-edit-edit against the same card stays three entries.
	for range 3 {
		update := mustMutation(t, syncqueue.TypeCardUpdate, syncqueue.CardUpdatePayload{CardID: "c1"})
		require.NoError(t, queue.Enqueue(update))
	}
	assert.Equal(t, 3, queue.Len())
}
