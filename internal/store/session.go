package store

import "github.com/snakada/flipcard/internal/study"

// Study-session commands. The session is derived from canonical deck state
// and the current preferences; it never writes back to either.

// StartStudySession builds a session over the deck. It reports false when
// the deck is absent or empty.
func (s *Store) StartStudySession(deckID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findDeckLocked(deckID)
	if i < 0 {
		return false
	}
	if session := study.Start(s.decks[i].Clone(), s.prefs); session != nil {
		s.session = session
		return true
	}
	return false
}

// NextStudyCard advances to the next card with wraparound.
func (s *Store) NextStudyCard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Next(s.prefs)
	}
}

// PrevStudyCard retreats to the previous card with wraparound.
func (s *Store) PrevStudyCard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Prev(s.prefs)
	}
}

// FlipStudyCard toggles the visible face of the current card.
func (s *Store) FlipStudyCard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.session.Flip()
	}
}

// EndStudySession discards the session. Canonical deck state is untouched.
func (s *Store) EndStudySession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
}
