package flashcard

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewID generates a client-side identifier for decks, cards and queue
// entries. IDs are assigned before the backend ever sees the row, which is
// what makes replaying a create an upsert rather than a duplicate insert.
func NewID() string {
	return gonanoid.Must()
}
