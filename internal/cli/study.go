// Package cli implements the interactive study loop on top of the app store.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"

	"github.com/snakada/flipcard/internal/flashcard"
	"github.com/snakada/flipcard/internal/store"
)

// errEnd signals a clean end of the interactive session.
var errEnd = errors.New("end of session")

// StudyCLI runs a card-by-card study session in the terminal.
type StudyCLI struct {
	store        *store.Store
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
	italic       *color.Color
}

// NewStudyCLI creates a study session CLI. The reader and writer are
// parameters so tests can drive the loop with scripted input.
func NewStudyCLI(appStore *store.Store, stdin io.Reader, stdout io.Writer) *StudyCLI {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &StudyCLI{
		store:        appStore,
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
	}
}

// Run studies the deck until the user quits, the input ends, or an interrupt
// arrives.
func (cli *StudyCLI) Run(ctx context.Context, deckID string) error {
	if !cli.store.StartStudySession(deckID) {
		deck, ok := cli.store.Deck(deckID)
		if !ok {
			return fmt.Errorf("no deck with id %s", deckID)
		}
		return fmt.Errorf("deck %q has no cards to study", deck.Title)
	}
	defer cli.store.EndStudySession()

	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := cli.step(); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// step shows the current card and applies one command.
func (cli *StudyCLI) step() error {
	state := cli.store.State()
	session := state.Session
	if session == nil {
		return errEnd
	}

	card := session.Cards[session.CurrentIndex]
	cli.printCard(card, session.ShowingFront, session.CurrentIndex+1, len(session.Cards))

	fmt.Fprint(cli.stdoutWriter, "[f]lip [n]ext [p]rev [q]uit: ")
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errEnd
		}
		return fmt.Errorf("error reading input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "f", "flip", "":
		cli.store.FlipStudyCard()
	case "n", "next":
		cli.store.NextStudyCard()
	case "p", "prev":
		cli.store.PrevStudyCard()
	case "q", "quit":
		fmt.Fprintln(cli.stdoutWriter, "Session finished.")
		return errEnd
	default:
		fmt.Fprintln(cli.stdoutWriter, "Unknown command. Use f, n, p or q.")
	}
	return nil
}

func (cli *StudyCLI) printCard(card flashcard.Card, showingFront bool, position, total int) {
	side := "Back"
	face := card.Back
	if showingFront {
		side = "Front"
		face = card.Front
	}

	fmt.Fprintf(cli.stdoutWriter, "\nCard %d/%d (%s)\n", position, total, side)
	if face.Title != "" {
		fmt.Fprintf(cli.stdoutWriter, "%s\n", cli.bold.Sprintf("%s", face.Title))
	}
	fmt.Fprintf(cli.stdoutWriter, "%s\n", face.Content)
}
