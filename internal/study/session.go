// Package study derives ephemeral study sessions from deck state. A session
// is a snapshot: it copies the deck's cards at start and never mutates the
// deck it came from.
package study

import (
	"math/rand/v2"
	"time"

	"github.com/snakada/flipcard/internal/flashcard"
	"github.com/snakada/flipcard/internal/settings"
)

// Session is the ephemeral study view over one deck. It is never persisted.
type Session struct {
	DeckID       string
	Cards        []flashcard.Card
	CurrentIndex int
	ShowingFront bool
	StartedAt    time.Time
}

// Start builds a session over the deck, or returns nil when the deck has no
// cards. With shuffle enabled the copy is permuted by an unbiased in-place
// shuffle; otherwise creation order is preserved.
func Start(deck flashcard.Deck, prefs settings.Settings) *Session {
	if len(deck.Cards) == 0 {
		return nil
	}

	cards := make([]flashcard.Card, len(deck.Cards))
	copy(cards, deck.Cards)
	if prefs.Shuffle {
		rand.Shuffle(len(cards), func(i, j int) {
			cards[i], cards[j] = cards[j], cards[i]
		})
	}

	return &Session{
		DeckID:       deck.ID,
		Cards:        cards,
		CurrentIndex: 0,
		ShowingFront: prefs.StartFace != settings.StartFaceBack,
		StartedAt:    time.Now(),
	}
}

// Current returns the card the session is positioned on.
func (s *Session) Current() flashcard.Card {
	return s.Cards[s.CurrentIndex]
}

// Next advances with wraparound. A freshly shown card always starts on the
// configured start face, not on whatever face the previous card showed.
func (s *Session) Next(prefs settings.Settings) {
	s.CurrentIndex = (s.CurrentIndex + 1) % len(s.Cards)
	s.ShowingFront = prefs.StartFace != settings.StartFaceBack
}

// Prev retreats with wraparound, resetting the face like Next.
func (s *Session) Prev(prefs settings.Settings) {
	s.CurrentIndex = (s.CurrentIndex - 1 + len(s.Cards)) % len(s.Cards)
	s.ShowingFront = prefs.StartFace != settings.StartFaceBack
}

// Flip toggles the visible face without moving.
func (s *Session) Flip() {
	s.ShowingFront = !s.ShowingFront
}

// Clone returns a copy of the session for read-only consumers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Cards = make([]flashcard.Card, len(s.Cards))
	copy(clone.Cards, s.Cards)
	return &clone
}
