package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile  string
	debugMode   bool
	offlineMode bool
)

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "flipcard",
		Short:         "Offline-first flashcards that sync when you are online",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(debugMode)
		},
	}

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to the configuration file")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.BoolVar(&offlineMode, "offline", false, "Skip remote writes; queue everything locally")

	rootCommand.AddCommand(newAuthCommand())
	rootCommand.AddCommand(newDeckCommand())
	rootCommand.AddCommand(newCardCommand())
	rootCommand.AddCommand(newStudyCommand())
	rootCommand.AddCommand(newSyncCommand())
	rootCommand.AddCommand(newSettingsCommand())
	rootCommand.AddCommand(newDBCommand())

	return rootCommand
}

func setupLogger(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})),
	)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
