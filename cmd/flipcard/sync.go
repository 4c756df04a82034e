package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/snakada/flipcard/internal/transport"
)

func newSyncCommand() *cobra.Command {
	var watch bool
	command := &cobra.Command{
		Use:   "sync",
		Short: "Push queued changes to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			// signIn drains the queue once as part of initialization.
			if _, err := a.signIn(cmd.Context()); err != nil {
				return err
			}
			a.printNotice()

			state := a.store.State()
			if state.PendingCount == 0 {
				fmt.Println("Everything is in sync.")
			} else {
				fmt.Printf("%d changes still pending.\n", state.PendingCount)
			}

			if !watch {
				return nil
			}

			interval := time.Duration(a.cfg.Sync.ProbeIntervalSeconds) * time.Second
			monitor := transport.NewMonitor(a.signal, interval)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			fmt.Printf("Watching for connectivity (every %s). Press Ctrl-C to stop.\n", interval)
			events := monitor.Watch(ctx)
			for {
				select {
				case <-ctx.Done():
					fmt.Println("Received interrupt signal, exiting...")
					return nil
				case _, ok := <-events:
					if !ok {
						return nil
					}
					if err := a.store.ProcessPending(ctx); err != nil {
						fmt.Printf("sync failed: %v\n", err)
						continue
					}
					remaining := a.store.State().PendingCount
					if remaining == 0 {
						fmt.Println("Back online: all changes synced.")
					} else {
						fmt.Printf("Back online: %d changes still pending.\n", remaining)
					}
				}
			}
		},
	}
	command.Flags().BoolVar(&watch, "watch", false, "Keep running and sync on reconnect")
	return command
}
