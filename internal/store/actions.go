package store

import (
	"context"
	"fmt"
	"time"

	"github.com/snakada/flipcard/internal/flashcard"
	"github.com/snakada/flipcard/internal/settings"
	"github.com/snakada/flipcard/internal/syncqueue"
)

// Every mutating operation follows the same three steps: apply the change to
// canonical state immediately, enqueue a replayable mutation, and attempt
// the remote write right away when the transport is online. A failed or
// skipped attempt leaves the entry queued; the optimistic local change is
// never rolled back.

// CreateDeck adds a deck with a freshly generated id and makes it active.
func (s *Store) CreateDeck(ctx context.Context, title string, description *string) (flashcard.Deck, error) {
	if err := flashcard.ValidateDeckTitle(title); err != nil {
		return flashcard.Deck{}, err
	}

	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return flashcard.Deck{}, ErrNotSignedIn
	}

	deck := flashcard.Deck{
		ID:        flashcard.NewID(),
		Title:     title,
		CreatedAt: time.Now(),
		Cards:     []flashcard.Card{},
	}
	if description != nil {
		value := *description
		deck.Description = &value
	}
	s.decks = append(s.decks, deck)
	s.activeDeckID = deck.ID
	s.notice = ""

	mutation, userID, err := s.enqueueLocked(syncqueue.TypeDeckCreate, syncqueue.DeckCreatePayload{
		Deck: syncqueue.DeckSnapshot{ID: deck.ID, Title: deck.Title, Description: deck.Description},
	})
	s.mu.Unlock()
	if err != nil {
		return deck.Clone(), err
	}

	s.attempt(ctx, mutation, userID, "Deck will sync when you are back online.")
	return deck.Clone(), nil
}

// UpdateDeck applies the provided fields to the deck. Nil fields are left
// unchanged locally.
func (s *Store) UpdateDeck(ctx context.Context, deckID string, updates syncqueue.DeckUpdate) error {
	if updates.Title != nil {
		if err := flashcard.ValidateDeckTitle(*updates.Title); err != nil {
			return err
		}
	}

	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	i := s.findDeckLocked(deckID)
	if i < 0 {
		s.mu.Unlock()
		return ErrDeckNotFound
	}
	if updates.Title != nil {
		s.decks[i].Title = *updates.Title
	}
	if updates.Description != nil {
		value := *updates.Description
		s.decks[i].Description = &value
	}
	s.notice = ""

	mutation, userID, err := s.enqueueLocked(syncqueue.TypeDeckUpdate, syncqueue.DeckUpdatePayload{
		DeckID:  deckID,
		Updates: updates,
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.attempt(ctx, mutation, userID, "Deck update will sync when you are back online.")
	return nil
}

// DeleteDeck removes the deck locally, moves the active selection off it,
// and tears down a study session backed by it.
func (s *Store) DeleteDeck(ctx context.Context, deckID string) error {
	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	i := s.findDeckLocked(deckID)
	if i < 0 {
		s.mu.Unlock()
		return ErrDeckNotFound
	}
	s.decks = append(s.decks[:i], s.decks[i+1:]...)
	if s.activeDeckID == deckID {
		if len(s.decks) > 0 {
			s.activeDeckID = s.decks[0].ID
		} else {
			s.activeDeckID = ""
		}
	}
	if s.session != nil && s.session.DeckID == deckID {
		s.session = nil
	}
	s.notice = ""

	mutation, userID, err := s.enqueueLocked(syncqueue.TypeDeckDelete, syncqueue.DeckDeletePayload{
		DeckID: deckID,
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.attempt(ctx, mutation, userID, "Deck removal will sync when you are back online.")
	return nil
}

// CreateCard appends a card with a freshly generated id to an existing deck.
func (s *Store) CreateCard(ctx context.Context, deckID string, front, back flashcard.CardFace) (flashcard.Card, error) {
	if err := front.Validate(); err != nil {
		return flashcard.Card{}, fmt.Errorf("front: %w", err)
	}
	if err := back.Validate(); err != nil {
		return flashcard.Card{}, fmt.Errorf("back: %w", err)
	}

	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return flashcard.Card{}, ErrNotSignedIn
	}
	i := s.findDeckLocked(deckID)
	if i < 0 {
		s.mu.Unlock()
		return flashcard.Card{}, ErrDeckNotFound
	}

	card := flashcard.Card{
		ID:        flashcard.NewID(),
		DeckID:    deckID,
		Front:     front,
		Back:      back,
		CreatedAt: time.Now(),
	}
	s.decks[i].Cards = append(s.decks[i].Cards, card)
	s.notice = ""

	mutation, userID, err := s.enqueueLocked(syncqueue.TypeCardCreate, syncqueue.CardCreatePayload{
		Card: syncqueue.CardSnapshot{ID: card.ID, DeckID: deckID, Front: front, Back: back},
	})
	s.mu.Unlock()
	if err != nil {
		return card, err
	}

	s.attempt(ctx, mutation, userID, "Card will sync when you are back online.")
	return card, nil
}

// UpdateCard applies the provided faces to the card. A nil face is left
// unchanged locally and untouched remotely.
func (s *Store) UpdateCard(ctx context.Context, deckID, cardID string, updates syncqueue.CardUpdate) error {
	if updates.Front != nil {
		if err := updates.Front.Validate(); err != nil {
			return fmt.Errorf("front: %w", err)
		}
	}
	if updates.Back != nil {
		if err := updates.Back.Validate(); err != nil {
			return fmt.Errorf("back: %w", err)
		}
	}

	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	i := s.findDeckLocked(deckID)
	if i < 0 {
		s.mu.Unlock()
		return ErrDeckNotFound
	}
	j := findCard(s.decks[i].Cards, cardID)
	if j < 0 {
		s.mu.Unlock()
		return ErrCardNotFound
	}
	if updates.Front != nil {
		s.decks[i].Cards[j].Front = *updates.Front
	}
	if updates.Back != nil {
		s.decks[i].Cards[j].Back = *updates.Back
	}
	s.notice = ""

	mutation, userID, err := s.enqueueLocked(syncqueue.TypeCardUpdate, syncqueue.CardUpdatePayload{
		CardID:  cardID,
		Updates: updates,
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.attempt(ctx, mutation, userID, "Card update will sync when you are back online.")
	return nil
}

// DeleteCard removes the card locally.
func (s *Store) DeleteCard(ctx context.Context, deckID, cardID string) error {
	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	i := s.findDeckLocked(deckID)
	if i < 0 {
		s.mu.Unlock()
		return ErrDeckNotFound
	}
	j := findCard(s.decks[i].Cards, cardID)
	if j < 0 {
		s.mu.Unlock()
		return ErrCardNotFound
	}
	s.decks[i].Cards = append(s.decks[i].Cards[:j], s.decks[i].Cards[j+1:]...)
	s.notice = ""

	mutation, userID, err := s.enqueueLocked(syncqueue.TypeCardDelete, syncqueue.CardDeletePayload{
		CardID: cardID,
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.attempt(ctx, mutation, userID, "Card removal will sync when you are back online.")
	return nil
}

// UpdateSettings merges the patch, persists the result and returns it. This
// is the only write path for settings.
func (s *Store) UpdateSettings(patch settings.Patch) (settings.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = s.prefs.Apply(patch)
	if err := settings.Save(s.local, s.prefs); err != nil {
		return s.prefs, err
	}
	return s.prefs, nil
}

// Settings returns the current preferences.
func (s *Store) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// enqueueLocked builds the mutation and appends it to the durable queue.
// The caller must hold s.mu.
func (s *Store) enqueueLocked(mutationType syncqueue.Type, payload any) (syncqueue.Mutation, string, error) {
	mutation, err := syncqueue.New(mutationType, payload)
	if err != nil {
		return syncqueue.Mutation{}, "", err
	}
	if err := s.queue.Enqueue(mutation); err != nil {
		return syncqueue.Mutation{}, "", err
	}
	return mutation, s.userID, nil
}

// attempt runs step three of the protocol: with connectivity, try the write
// now; on success drop the entry and reconcile against the backend, on
// failure leave it queued and surface the advisory notice. Without a
// connectivity signal the entry stays queued silently.
func (s *Store) attempt(ctx context.Context, mutation syncqueue.Mutation, userID, notice string) {
	if s.signal == nil || !s.signal.Online(ctx) {
		return
	}
	if !s.executor.Execute(ctx, mutation, userID) {
		s.mu.Lock()
		s.notice = notice
		s.mu.Unlock()
		return
	}
	s.mu.Lock()
	_ = s.queue.Remove(mutation.ID)
	s.mu.Unlock()
	s.RefreshDecks(ctx)
}

func findCard(cards []flashcard.Card, cardID string) int {
	for i, card := range cards {
		if card.ID == cardID {
			return i
		}
	}
	return -1
}
