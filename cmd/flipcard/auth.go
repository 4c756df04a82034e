package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newAuthCommand() *cobra.Command {
	authCommand := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and out of the sync account",
	}

	authCommand.AddCommand(newAuthSignUpCommand())
	authCommand.AddCommand(newAuthSignInCommand())
	authCommand.AddCommand(newAuthSignOutCommand())
	authCommand.AddCommand(newAuthWhoAmICommand())

	return authCommand
}

func readPassword(password string) (string, error) {
	if password != "" {
		return password, nil
	}
	fmt.Print("Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	password = strings.TrimSpace(line)
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}

func newAuthSignUpCommand() *cobra.Command {
	var password string
	command := &cobra.Command{
		Use:   "signup <email>",
		Short: "Register a new account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			pass, err := readPassword(password)
			if err != nil {
				return err
			}

			session, err := a.authClient.SignUp(cmd.Context(), args[0], pass)
			if err != nil {
				return fmt.Errorf("authClient.SignUp > %w", err)
			}
			fmt.Printf("Signed up as %s\n", session.Email)
			return nil
		},
	}
	command.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return command
}

func newAuthSignInCommand() *cobra.Command {
	var password string
	command := &cobra.Command{
		Use:   "signin <email>",
		Short: "Sign in and push any queued changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			pass, err := readPassword(password)
			if err != nil {
				return err
			}

			session, err := a.authClient.SignIn(cmd.Context(), args[0], pass)
			if err != nil {
				return fmt.Errorf("authClient.SignIn > %w", err)
			}

			if err := a.store.Initialize(cmd.Context(), session.UserID); err != nil {
				return fmt.Errorf("store.Initialize > %w", err)
			}
			a.printNotice()

			state := a.store.State()
			fmt.Printf("Signed in as %s (%d decks", session.Email, len(state.Decks))
			if state.PendingCount > 0 {
				fmt.Printf(", %d pending changes", state.PendingCount)
			}
			fmt.Println(")")
			return nil
		},
	}
	command.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return command
}

func newAuthSignOutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and clear the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			if err := a.authClient.SignOut(cmd.Context()); err != nil {
				return fmt.Errorf("authClient.SignOut > %w", err)
			}
			a.store.Reset()
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func newAuthWhoAmICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			session, err := a.authClient.CurrentSession()
			if err != nil {
				return fmt.Errorf("not signed in")
			}
			fmt.Printf("%s (%s)\n", session.Email, session.UserID)
			return nil
		},
	}
}
