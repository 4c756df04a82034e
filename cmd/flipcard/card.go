package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snakada/flipcard/internal/flashcard"
	"github.com/snakada/flipcard/internal/syncqueue"
)

func newCardCommand() *cobra.Command {
	cardCommand := &cobra.Command{
		Use:   "card",
		Short: "Manage cards within a deck",
	}

	cardCommand.AddCommand(newCardListCommand())
	cardCommand.AddCommand(newCardAddCommand())
	cardCommand.AddCommand(newCardUpdateCommand())
	cardCommand.AddCommand(newCardRemoveCommand())

	return cardCommand
}

func newCardListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <deck-id>",
		Short: "List the cards in a deck",
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
			if len(deck.Cards) == 0 {
				fmt.Printf("Deck %q has no cards.\n", deck.Title)
				return nil
			}
			for _, card := range deck.Cards {
				fmt.Printf("%s  %s -> %s\n", card.ID, faceLabel(card.Front), faceLabel(card.Back))
			}
			return nil
		},
	}
}

func faceLabel(face flashcard.CardFace) string {
	if face.Title != "" {
		return fmt.Sprintf("[%s] %s", face.Title, face.Content)
	}
	return face.Content
}

func newCardAddCommand() *cobra.Command {
	var front, frontTitle, back, backTitle string
	command := &cobra.Command{
		Use:   "add <deck-id>",
		Short: "Add a card to a deck",
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

			card, err := a.store.CreateCard(cmd.Context(), args[0],
				flashcard.CardFace{Title: frontTitle, Content: front},
				flashcard.CardFace{Title: backTitle, Content: back},
			)
			if err != nil {
				return fmt.Errorf("store.CreateCard > %w", err)
			}
			a.printNotice()
			fmt.Printf("Added card %s\n", card.ID)
			return nil
		},
	}
	command.Flags().StringVar(&front, "front", "", "Front content (required)")
	command.Flags().StringVar(&frontTitle, "front-title", "", "Front title")
	command.Flags().StringVar(&back, "back", "", "Back content (required)")
	command.Flags().StringVar(&backTitle, "back-title", "", "Back title")
	_ = command.MarkFlagRequired("front")
	_ = command.MarkFlagRequired("back")
	return command
}

func newCardUpdateCommand() *cobra.Command {
	var front, frontTitle, back, backTitle string
	command := &cobra.Command{
		Use:   "update <deck-id> <card-id>",
		Short: "Update one or both faces of a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("front") && !cmd.Flags().Changed("back") {
				return fmt.Errorf("nothing to update: pass --front or --back")
			}

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

			var updates syncqueue.CardUpdate
			if cmd.Flags().Changed("front") {
				updates.Front = &flashcard.CardFace{Title: frontTitle, Content: front}
			}
			if cmd.Flags().Changed("back") {
				updates.Back = &flashcard.CardFace{Title: backTitle, Content: back}
			}

			if err := a.store.UpdateCard(cmd.Context(), args[0], args[1], updates); err != nil {
				return fmt.Errorf("store.UpdateCard > %w", err)
			}
			a.printNotice()
			fmt.Println("Card updated.")
			return nil
		},
	}
	command.Flags().StringVar(&front, "front", "", "New front content")
	command.Flags().StringVar(&frontTitle, "front-title", "", "New front title")
	command.Flags().StringVar(&back, "back", "", "New back content")
	command.Flags().StringVar(&backTitle, "back-title", "", "New back title")
	return command
}

func newCardRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <deck-id> <card-id>",
		Short: "Remove a card from a deck",
		Args:  cobra.ExactArgs(2),
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

			if err := a.store.DeleteCard(cmd.Context(), args[0], args[1]); err != nil {
				return fmt.Errorf("store.DeleteCard > %w", err)
			}
			a.printNotice()
			fmt.Println("Card removed.")
			return nil
		},
	}
}
