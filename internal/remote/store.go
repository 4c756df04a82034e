// Package remote talks to the flashcard backend: two relational tables,
// decks and cards, keyed by client-generated ids. Creates are upserts and
// updates and deletes are keyed by id, so every write can be replayed any
// number of times.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/snakada/flipcard/internal/database"
	"github.com/snakada/flipcard/internal/flashcard"
	"github.com/snakada/flipcard/internal/syncqueue"
)

// Store defines the remote CRUD contract the sync core depends on.
type Store interface {
	// FetchDecks returns the user's decks ordered by creation time with
	// their cards nested in creation order.
	FetchDecks(ctx context.Context, userID string) ([]flashcard.Deck, error)
	UpsertDeck(ctx context.Context, userID string, deck syncqueue.DeckSnapshot) error
	UpdateDeck(ctx context.Context, userID string, deckID string, updates syncqueue.DeckUpdate) error
	DeleteDeck(ctx context.Context, userID string, deckID string) error
	UpsertCard(ctx context.Context, card syncqueue.CardSnapshot) error
	UpdateCard(ctx context.Context, cardID string, updates syncqueue.CardUpdate) error
	DeleteCard(ctx context.Context, cardID string) error
}

// DBStore implements Store using MySQL.
type DBStore struct {
	db *sqlx.DB
}

// NewDBStore creates a new DBStore.
func NewDBStore(db *sqlx.DB) *DBStore {
	return &DBStore{db: db}
}

type deckRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	UserID      string         `db:"user_id"`
	CreatedAt   time.Time      `db:"created_at"`
}

type cardRow struct {
	ID        string          `db:"id"`
	DeckID    string          `db:"deck_id"`
	Front     json.RawMessage `db:"front"`
	Back      json.RawMessage `db:"back"`
	CreatedAt time.Time       `db:"created_at"`
}

// FetchDecks loads decks and their cards inside one read transaction so the
// nested result is a consistent snapshot.
func (s *DBStore) FetchDecks(ctx context.Context, userID string) ([]flashcard.Deck, error) {
	var decks []flashcard.Deck

	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var deckRows []deckRow
		if err := tx.SelectContext(ctx, &deckRows,
			"SELECT id, title, description, user_id, created_at FROM decks WHERE user_id = ? ORDER BY created_at, id",
			userID,
		); err != nil {
			return fmt.Errorf("load decks: %w", err)
		}
		if len(deckRows) == 0 {
			decks = []flashcard.Deck{}
			return nil
		}

		deckIDs := make([]string, 0, len(deckRows))
		for _, row := range deckRows {
			deckIDs = append(deckIDs, row.ID)
		}
		query, args, err := sqlx.In(
			"SELECT id, deck_id, front, back, created_at FROM cards WHERE deck_id IN (?) ORDER BY created_at, id",
			deckIDs,
		)
		if err != nil {
			return fmt.Errorf("build card query: %w", err)
		}
		var cardRows []cardRow
		if err := tx.SelectContext(ctx, &cardRows, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("load cards: %w", err)
		}

		cardsByDeck := make(map[string][]flashcard.Card, len(deckRows))
		for _, row := range cardRows {
			cardsByDeck[row.DeckID] = append(cardsByDeck[row.DeckID], flashcard.Card{
				ID:        row.ID,
				DeckID:    row.DeckID,
				Front:     normalizeFace(row.Front),
				Back:      normalizeFace(row.Back),
				CreatedAt: row.CreatedAt,
			})
		}

		decks = make([]flashcard.Deck, 0, len(deckRows))
		for _, row := range deckRows {
			deck := flashcard.Deck{
				ID:        row.ID,
				Title:     row.Title,
				CreatedAt: row.CreatedAt,
				Cards:     cardsByDeck[row.ID],
			}
			if deck.Cards == nil {
				deck.Cards = []flashcard.Card{}
			}
			if row.Description.Valid {
				description := row.Description.String
				deck.Description = &description
			}
			decks = append(decks, deck)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decks, nil
}

// UpsertDeck inserts the deck row or, when the id already exists, refreshes
// its mutable fields. Replaying the same create is therefore a no-op.
func (s *DBStore) UpsertDeck(ctx context.Context, userID string, deck syncqueue.DeckSnapshot) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO decks (id, title, description, user_id) VALUES (?, ?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE title = VALUES(title), description = VALUES(description)",
		deck.ID, deck.Title, nullableString(deck.Description), userID,
	)
	if err != nil {
		return fmt.Errorf("upsert deck %s: %w", deck.ID, err)
	}
	return nil
}

// UpdateDeck writes the changed fields of a deck row, scoped to the owning
// user. The description column is always written: an edit that omits it
// clears it.
func (s *DBStore) UpdateDeck(ctx context.Context, userID string, deckID string, updates syncqueue.DeckUpdate) error {
	assignments := []string{"description = ?"}
	args := []interface{}{nullableString(updates.Description)}
	if updates.Title != nil {
		assignments = append([]string{"title = ?"}, assignments...)
		args = append([]interface{}{*updates.Title}, args...)
	}
	args = append(args, deckID, userID)

	query := fmt.Sprintf("UPDATE decks SET %s WHERE id = ? AND user_id = ?", strings.Join(assignments, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update deck %s: %w", deckID, err)
	}
	return nil
}

// DeleteDeck removes the deck row; the backend cascades the delete to its
// cards.
func (s *DBStore) DeleteDeck(ctx context.Context, userID string, deckID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM decks WHERE id = ? AND user_id = ?", deckID, userID,
	); err != nil {
		return fmt.Errorf("delete deck %s: %w", deckID, err)
	}
	return nil
}

// UpsertCard inserts the card row or refreshes its faces when the id already
// exists.
func (s *DBStore) UpsertCard(ctx context.Context, card syncqueue.CardSnapshot) error {
	front, err := json.Marshal(card.Front)
	if err != nil {
		return fmt.Errorf("marshal front face: %w", err)
	}
	back, err := json.Marshal(card.Back)
	if err != nil {
		return fmt.Errorf("marshal back face: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO cards (id, deck_id, front, back) VALUES (?, ?, ?, ?) "+
			"ON DUPLICATE KEY UPDATE front = VALUES(front), back = VALUES(back)",
		card.ID, card.DeckID, front, back,
	); err != nil {
		return fmt.Errorf("upsert card %s: %w", card.ID, err)
	}
	return nil
}

// UpdateCard writes the changed faces of a card row. Omitted faces are left
// untouched; an update with no faces is a no-op.
func (s *DBStore) UpdateCard(ctx context.Context, cardID string, updates syncqueue.CardUpdate) error {
	var assignments []string
	var args []interface{}
	if updates.Front != nil {
		front, err := json.Marshal(updates.Front)
		if err != nil {
			return fmt.Errorf("marshal front face: %w", err)
		}
		assignments = append(assignments, "front = ?")
		args = append(args, front)
	}
	if updates.Back != nil {
		back, err := json.Marshal(updates.Back)
		if err != nil {
			return fmt.Errorf("marshal back face: %w", err)
		}
		assignments = append(assignments, "back = ?")
		args = append(args, back)
	}
	if len(assignments) == 0 {
		return nil
	}
	args = append(args, cardID)

	query := fmt.Sprintf("UPDATE cards SET %s WHERE id = ?", strings.Join(assignments, ", "))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update card %s: %w", cardID, err)
	}
	return nil
}

// DeleteCard removes the card row.
func (s *DBStore) DeleteCard(ctx context.Context, cardID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", cardID); err != nil {
		return fmt.Errorf("delete card %s: %w", cardID, err)
	}
	return nil
}

// normalizeFace tolerates historical rows: a face column can hold a proper
// face object, a bare string, or garbage. Anything unreadable becomes an
// empty face rather than an error.
func normalizeFace(raw json.RawMessage) flashcard.CardFace {
	if len(raw) == 0 {
		return flashcard.CardFace{}
	}
	var face flashcard.CardFace
	if err := json.Unmarshal(raw, &face); err == nil {
		return face
	}
	var content string
	if err := json.Unmarshal(raw, &content); err == nil {
		return flashcard.CardFace{Content: content}
	}
	return flashcard.CardFace{}
}

func nullableString(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
