package transfer

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/snakada/flipcard/internal/flashcard"
)

// DeckDocument is the YAML deck format. Unlike CSV it carries the deck's own
// metadata alongside its cards.
type DeckDocument struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description,omitempty"`
	Cards       []CardDocument `yaml:"cards"`
}

type CardDocument struct {
	Front FaceDocument `yaml:"front"`
	Back  FaceDocument `yaml:"back"`
}

type FaceDocument struct {
	Title   string `yaml:"title,omitempty"`
	Content string `yaml:"content"`
}

// ImportYAML reads a deck document. Cards follow the same completeness rule
// as CSV: both faces need content, incomplete entries are dropped, and at
// least one card must remain.
func ImportYAML(r io.Reader) (DeckDocument, []CardContent, error) {
	var document DeckDocument
	if err := yaml.NewDecoder(r).Decode(&document); err != nil {
		return DeckDocument{}, nil, fmt.Errorf("yaml.Decode > %w", err)
	}
	if strings.TrimSpace(document.Title) == "" {
		return DeckDocument{}, nil, flashcard.ErrEmptyDeckTitle
	}

	var cards []CardContent
	for _, card := range document.Cards {
		front := strings.TrimSpace(card.Front.Content)
		back := strings.TrimSpace(card.Back.Content)
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, CardContent{
			Front: flashcard.CardFace{Title: strings.TrimSpace(card.Front.Title), Content: front},
			Back:  flashcard.CardFace{Title: strings.TrimSpace(card.Back.Title), Content: back},
		})
	}
	if len(cards) == 0 {
		return DeckDocument{}, nil, ErrNoCards
	}
	return document, cards, nil
}

// ExportYAML writes the deck as a deck document.
func ExportYAML(w io.Writer, deck flashcard.Deck) error {
	if len(deck.Cards) == 0 {
		return ErrNoCards
	}

	document := DeckDocument{
		Title: deck.Title,
		Cards: make([]CardDocument, 0, len(deck.Cards)),
	}
	if deck.Description != nil {
		document.Description = *deck.Description
	}
	for _, card := range deck.Cards {
		document.Cards = append(document.Cards, CardDocument{
			Front: FaceDocument{Title: card.Front.Title, Content: card.Front.Content},
			Back:  FaceDocument{Title: card.Back.Title, Content: card.Back.Content},
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(document); err != nil {
		return fmt.Errorf("yaml.Encode > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("yaml.Close > %w", err)
	}
	return nil
}
