// Package flashcard defines the deck and card domain model shared by the
// sync core, the study session logic and the CLI.
package flashcard

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmptyDeckTitle is returned when a deck title is blank after trimming.
	ErrEmptyDeckTitle = errors.New("deck title must not be empty")
	// ErrEmptyFaceContent is returned when a card face has no content after trimming.
	ErrEmptyFaceContent = errors.New("card face content must not be empty")
)

// CardFace is one side of a card. The title is optional, the content is not.
type CardFace struct {
	Title   string `json:"title" yaml:"title,omitempty"`
	Content string `json:"content" yaml:"content"`
}

// Validate checks that the face carries non-blank content.
func (f CardFace) Validate() error {
	if strings.TrimSpace(f.Content) == "" {
		return ErrEmptyFaceContent
	}
	return nil
}

// Card is a two-sided study unit belonging to one deck.
type Card struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deckId"`
	Front     CardFace  `json:"front"`
	Back      CardFace  `json:"back"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Validate checks that both faces carry content.
func (c Card) Validate() error {
	if err := c.Front.Validate(); err != nil {
		return err
	}
	return c.Back.Validate()
}

// Deck is a named, ordered collection of cards owned by one user.
// Card order is creation order as returned by the backend.
type Deck struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	Cards       []Card    `json:"cards"`
}

// ValidateDeckTitle checks that a title is non-blank after trimming.
func ValidateDeckTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyDeckTitle
	}
	return nil
}

// Clone returns a deep copy of the deck, so callers can hand out snapshots
// without exposing the canonical slice.
func (d Deck) Clone() Deck {
	clone := d
	if d.Description != nil {
		description := *d.Description
		clone.Description = &description
	}
	clone.Cards = make([]Card, len(d.Cards))
	copy(clone.Cards, d.Cards)
	return clone
}

// CloneDecks deep-copies a deck slice.
func CloneDecks(decks []Deck) []Deck {
	if decks == nil {
		return nil
	}
	clones := make([]Deck, 0, len(decks))
	for _, deck := range decks {
		clones = append(clones, deck.Clone())
	}
	return clones
}
