package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snakada/flipcard/internal/cli"
)

func newStudyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "study <deck-id>",
		Short: "Study a deck card by card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			if _, err := a.signIn(cmd.Context()); err != nil {
				return err
			}
			a.printNotice()

			deck, ok := a.store.Deck(args[0])
			if !ok {
				return fmt.Errorf("no deck with id %s", args[0])
			}
			fmt.Printf("Studying %q (%d cards)\n", deck.Title, len(deck.Cards))

			studyCLI := cli.NewStudyCLI(a.store, nil, nil)
			return studyCLI.Run(cmd.Context(), deck.ID)
		},
	}
}
