// Package store owns the canonical deck and card state. Every edit is
// applied locally first, recorded in the durable mutation queue, and then
// pushed to the backend when the transport reports connectivity; canonical
// state is re-fetched wholesale after confirmed writes.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/snakada/flipcard/internal/flashcard"
	"github.com/snakada/flipcard/internal/localstore"
	"github.com/snakada/flipcard/internal/settings"
	"github.com/snakada/flipcard/internal/study"
	"github.com/snakada/flipcard/internal/syncqueue"
	"github.com/snakada/flipcard/internal/transport"
)

var (
	// ErrNotSignedIn is returned by mutating operations without an
	// identified user.
	ErrNotSignedIn = errors.New("no signed-in user")
	// ErrDeckNotFound is returned when an operation names an unknown deck.
	ErrDeckNotFound = errors.New("deck not found")
	// ErrCardNotFound is returned when an operation names an unknown card.
	ErrCardNotFound = errors.New("card not found")
)

// Backend is the read side of the remote contract: the full canonical state
// for one user.
type Backend interface {
	FetchDecks(ctx context.Context, userID string) ([]flashcard.Deck, error)
}

// Store is the single owner of canonical state. All access goes through its
// methods; readers receive copies, never the canonical slices.
type Store struct {
	mu sync.Mutex

	local    *localstore.Store
	backend  Backend
	executor syncqueue.Executor
	signal   transport.Signal

	queue        *syncqueue.Queue
	decks        []flashcard.Deck
	activeDeckID string
	userID       string
	prefs        settings.Settings
	session      *study.Session
	initialized  bool
	syncing      bool
	notice       string
}

// New creates a Store. Settings are loaded once, here; the pending queue is
// loaded on Initialize. systemTheme resolves a legacy "system" theme value.
func New(
	local *localstore.Store,
	backend Backend,
	executor syncqueue.Executor,
	signal transport.Signal,
	systemTheme settings.Theme,
) *Store {
	return &Store{
		local:    local,
		backend:  backend,
		executor: executor,
		signal:   signal,
		queue:    syncqueue.Empty(local),
		prefs:    settings.Load(local, systemTheme),
	}
}

// State is a read-only snapshot of the store.
type State struct {
	UserID       string
	Decks        []flashcard.Deck
	ActiveDeckID string
	Settings     settings.Settings
	Initialized  bool
	Syncing      bool
	Notice       string
	PendingCount int
	Session      *study.Session
}

// State returns a snapshot; the contained decks and session are copies.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		UserID:       s.userID,
		Decks:        flashcard.CloneDecks(s.decks),
		ActiveDeckID: s.activeDeckID,
		Settings:     s.prefs,
		Initialized:  s.initialized,
		Syncing:      s.syncing,
		Notice:       s.notice,
		PendingCount: s.queue.Len(),
		Session:      s.session.Clone(),
	}
}

// Initialize identifies the user, reloads the persisted mutation queue,
// fetches canonical state and selects an active deck. A fetch failure is
// recoverable: the store still comes up initialized with a notice set. Any
// queued work is then pushed via ProcessPending.
func (s *Store) Initialize(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.userID = userID
	s.queue = syncqueue.Load(s.local)
	s.syncing = true
	s.notice = ""
	s.mu.Unlock()

	decks, err := s.backend.FetchDecks(ctx, userID)

	s.mu.Lock()
	s.syncing = false
	s.initialized = true
	if err != nil {
		s.notice = "Unable to load decks. Local changes are kept and will sync later."
	} else {
		s.decks = decks
		s.reselectActiveLocked()
	}
	s.mu.Unlock()

	return s.ProcessPending(ctx)
}

// Reset drops canonical state and identity back to the signed-out baseline.
// The persisted queue file is deliberately left on disk: unsynced work
// survives a sign-out/sign-in cycle. (Whether that is also right when a
// different account signs in on the same machine is an open question; the
// behavior is pinned by tests rather than changed here.)
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.decks = nil
	s.activeDeckID = ""
	s.session = nil
	s.initialized = false
	s.syncing = false
	s.notice = ""
	s.queue = syncqueue.Empty(s.local)
}

// ProcessPending drains the queue once, in FIFO order. It is a no-op
// without an identified user, without pending entries, or without
// connectivity. Canonical state is refreshed once if any entry succeeded,
// not once per entry.
func (s *Store) ProcessPending(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	pending := s.queue.Len()
	s.mu.Unlock()

	if userID == "" || pending == 0 {
		return nil
	}
	if s.signal == nil || !s.signal.Online(ctx) {
		return nil
	}

	s.mu.Lock()
	succeeded, err := s.queue.Drain(ctx, s.executor, userID)
	s.mu.Unlock()

	if succeeded > 0 {
		s.RefreshDecks(ctx)
	}
	return err
}

// RefreshDecks re-fetches canonical state and replaces the local copy
// wholesale. The active deck is preserved by id when it still exists. On
// failure the prior state is left untouched and a dismissible notice is set.
func (s *Store) RefreshDecks(ctx context.Context) {
	s.mu.Lock()
	userID := s.userID
	if userID == "" {
		s.mu.Unlock()
		return
	}
	s.syncing = true
	s.mu.Unlock()

	decks, err := s.backend.FetchDecks(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = false
	if err != nil {
		s.notice = "Unable to refresh decks."
		return
	}
	s.decks = decks
	s.reselectActiveLocked()
	s.notice = ""
}

// SetActiveDeck selects the deck subsequent operations default to. An empty
// id clears the selection.
func (s *Store) SetActiveDeck(deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if deckID != "" && s.findDeckLocked(deckID) < 0 {
		return ErrDeckNotFound
	}
	s.activeDeckID = deckID
	return nil
}

// ActiveDeck returns a copy of the currently selected deck.
func (s *Store) ActiveDeck() (flashcard.Deck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findDeckLocked(s.activeDeckID)
	if i < 0 {
		return flashcard.Deck{}, false
	}
	return s.decks[i].Clone(), true
}

// Deck returns a copy of one deck by id.
func (s *Store) Deck(deckID string) (flashcard.Deck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findDeckLocked(deckID)
	if i < 0 {
		return flashcard.Deck{}, false
	}
	return s.decks[i].Clone(), true
}

// Notice returns the current advisory message, if any. Notices never block
// further interaction; they describe recoverable sync conditions.
func (s *Store) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice
}

// ClearNotice dismisses the advisory message.
func (s *Store) ClearNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = ""
}

func (s *Store) findDeckLocked(deckID string) int {
	for i, deck := range s.decks {
		if deck.ID == deckID {
			return i
		}
	}
	return -1
}

// reselectActiveLocked keeps the current active deck when it still exists,
// otherwise falls back to the first deck, otherwise clears the selection.
func (s *Store) reselectActiveLocked() {
	if s.activeDeckID != "" && s.findDeckLocked(s.activeDeckID) >= 0 {
		return
	}
	if len(s.decks) > 0 {
		s.activeDeckID = s.decks[0].ID
		return
	}
	s.activeDeckID = ""
}
