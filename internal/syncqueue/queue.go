package syncqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/snakada/flipcard/internal/localstore"
)

// StorageKey is the fixed record key the queue is persisted under.
const StorageKey = "flip-card-pending-mutations"

// Queue is an ordered, durable sequence of pending mutations. Every change
// to the sequence is written back to the local store immediately, so the
// queue survives process restarts.
//
// Entries are never deduplicated or coalesced: three rapid edits to the same
// card enqueue three mutations, and replaying all three is harmless because
// each remote write is idempotent.
type Queue struct {
	store   *localstore.Store
	entries []Mutation
}

// Empty returns a queue with no in-memory entries, leaving whatever is
// persisted under the storage key untouched until the next Load.
func Empty(store *localstore.Store) *Queue {
	return &Queue{store: store}
}

// Load reads the persisted queue. A missing or malformed record yields an
// empty queue; loading never fails.
func Load(store *localstore.Store) *Queue {
	queue := &Queue{store: store}

	data, ok := store.Read(StorageKey)
	if !ok {
		return queue
	}
	var entries []Mutation
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("discarding unreadable pending-mutation record", "error", err)
		return queue
	}
	queue.entries = entries
	return queue
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Entries returns a copy of the pending entries in FIFO order.
func (q *Queue) Entries() []Mutation {
	entries := make([]Mutation, len(q.entries))
	copy(entries, q.entries)
	return entries
}

// Enqueue appends the mutation to the tail and persists the full sequence.
// The entry is kept in memory even if persisting fails, so the mutation is
// still retryable within this process.
func (q *Queue) Enqueue(mutation Mutation) error {
	q.entries = append(q.entries, mutation)
	return q.persist()
}

// Remove drops the entry with the given id and persists the remainder. It
// is a no-op if the id is not queued.
func (q *Queue) Remove(id string) error {
	for i, entry := range q.entries {
		if entry.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return q.persist()
		}
	}
	return nil
}

// Drain attempts every queued entry once, in FIFO order. Entries whose
// attempt fails stay queued in their original relative order; a failure
// never blocks the attempt on the next entry. After the pass the remaining
// set is persisted. Drain returns how many entries succeeded.
func (q *Queue) Drain(ctx context.Context, executor Executor, userID string) (int, error) {
	if len(q.entries) == 0 {
		return 0, nil
	}

	succeeded := 0
	remaining := q.entries[:0:0]
	for _, entry := range q.entries {
		if executor.Execute(ctx, entry, userID) {
			succeeded++
			continue
		}
		remaining = append(remaining, entry)
	}
	q.entries = remaining

	if err := q.persist(); err != nil {
		return succeeded, err
	}
	return succeeded, nil
}

func (q *Queue) persist() error {
	entries := q.entries
	if entries == nil {
		entries = []Mutation{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal pending mutations> %w", err)
	}
	if err := q.store.Write(StorageKey, data); err != nil {
		return fmt.Errorf("persist pending mutations> %w", err)
	}
	return nil
}
