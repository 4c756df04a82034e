package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snakada/flipcard/internal/syncqueue"
	"github.com/snakada/flipcard/internal/transfer"
)

func newDeckCommand() *cobra.Command {
	deckCommand := &cobra.Command{
		Use:   "deck",
		Short: "Manage decks",
	}

	deckCommand.AddCommand(newDeckListCommand())
	deckCommand.AddCommand(newDeckCreateCommand())
	deckCommand.AddCommand(newDeckUpdateCommand())
	deckCommand.AddCommand(newDeckDeleteCommand())
	deckCommand.AddCommand(newDeckImportCommand())
	deckCommand.AddCommand(newDeckExportCommand())

	return deckCommand
}

func newDeckListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List decks with their card counts",
		Args:  cobra.NoArgs,
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

			state := a.store.State()
			if len(state.Decks) == 0 {
				fmt.Println("No decks yet. Create one with 'flipcard deck create'.")
				return nil
			}
			for _, deck := range state.Decks {
				description := ""
				if deck.Description != nil && *deck.Description != "" {
					description = " - " + *deck.Description
				}
				fmt.Printf("%s  %s (%d cards)%s\n", deck.ID, deck.Title, len(deck.Cards), description)
			}
			if state.PendingCount > 0 {
				fmt.Printf("\n%d changes waiting to sync.\n", state.PendingCount)
			}
			return nil
		},
	}
}

func newDeckCreateCommand() *cobra.Command {
	var description string
	command := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a deck",
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

			var descriptionValue *string
			if cmd.Flags().Changed("description") {
				descriptionValue = &description
			}
			deck, err := a.store.CreateDeck(cmd.Context(), args[0], descriptionValue)
			if err != nil {
				return fmt.Errorf("store.CreateDeck > %w", err)
			}
			a.printNotice()
			fmt.Printf("Created deck %s (%s)\n", deck.Title, deck.ID)
			return nil
		},
	}
	command.Flags().StringVar(&description, "description", "", "Deck description")
	return command
}

func newDeckUpdateCommand() *cobra.Command {
	var title, description string
	command := &cobra.Command{
		Use:   "update <deck-id>",
		Short: "Update a deck's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("description") {
				return fmt.Errorf("nothing to update: pass --title or --description")
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

			deck, ok := a.store.Deck(args[0])
			if !ok {
				return fmt.Errorf("no deck with id %s", args[0])
			}

			// An omitted description keeps the current one rather than
			// clearing it.
			updates := syncqueue.DeckUpdate{Description: deck.Description}
			if cmd.Flags().Changed("title") {
				updates.Title = &title
			}
			if cmd.Flags().Changed("description") {
				updates.Description = &description
			}

			if err := a.store.UpdateDeck(cmd.Context(), deck.ID, updates); err != nil {
				return fmt.Errorf("store.UpdateDeck > %w", err)
			}
			a.printNotice()
			fmt.Println("Deck updated.")
			return nil
		},
	}
	command.Flags().StringVar(&title, "title", "", "New title")
	command.Flags().StringVar(&description, "description", "", "New description (empty clears it)")
	return command
}

func newDeckDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <deck-id>",
		Short: "Delete a deck and its cards",
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

			if err := a.store.DeleteDeck(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("store.DeleteDeck > %w", err)
			}
			a.printNotice()
			fmt.Println("Deck deleted.")
			return nil
		},
	}
}

func newDeckImportCommand() *cobra.Command {
	var title string
	command := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a deck from a CSV or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", path, err)
			}
			defer func() {
				_ = file.Close()
			}()

			var cards []transfer.CardContent
			deckTitle := title
			var description *string
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				document, imported, err := transfer.ImportYAML(file)
				if err != nil {
					return fmt.Errorf("transfer.ImportYAML > %w", err)
				}
				cards = imported
				if deckTitle == "" {
					deckTitle = document.Title
				}
				if document.Description != "" {
					description = &document.Description
				}
			default:
				imported, err := transfer.ImportCSV(file)
				if err != nil {
					return fmt.Errorf("transfer.ImportCSV > %w", err)
				}
				cards = imported
				if deckTitle == "" {
					deckTitle = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				}
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

			deck, err := a.store.CreateDeck(cmd.Context(), deckTitle, description)
			if err != nil {
				return fmt.Errorf("store.CreateDeck > %w", err)
			}
			for _, card := range cards {
				if _, err := a.store.CreateCard(cmd.Context(), deck.ID, card.Front, card.Back); err != nil {
					return fmt.Errorf("store.CreateCard > %w", err)
				}
			}
			a.printNotice()
			fmt.Printf("Imported %d cards into %q\n", len(cards), deck.Title)
			return nil
		},
	}
	command.Flags().StringVar(&title, "title", "", "Deck title (defaults to the file name)")
	return command
}

func newDeckExportCommand() *cobra.Command {
	var format, output string
	command := &cobra.Command{
		Use:   "export <deck-id>",
		Short: "Export a deck to a CSV or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "yaml" {
				return fmt.Errorf("invalid format %q, valid values are \"csv\" or \"yaml\"", format)
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

			deck, ok := a.store.Deck(args[0])
			if !ok {
				return fmt.Errorf("no deck with id %s", args[0])
			}

			path := output
			if path == "" {
				path = transfer.ExportFileName(deck.Title, format)
			}
			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("os.Create(%s) > %w", path, err)
			}
			defer func() {
				_ = file.Close()
			}()

			if format == "yaml" {
				err = transfer.ExportYAML(file, deck)
			} else {
				err = transfer.ExportCSV(file, deck)
			}
			if err != nil {
				return fmt.Errorf("export %s > %w", format, err)
			}
			fmt.Printf("Exported %d cards to %s\n", len(deck.Cards), path)
			return nil
		},
	}
	command.Flags().StringVar(&format, "format", "csv", "Export format. Options: csv, yaml")
	command.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to the deck title)")
	return command
}
