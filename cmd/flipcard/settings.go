package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/snakada/flipcard/internal/settings"
)

type themeFlag settings.Theme

// Set implements pflag.Value.
func (f *themeFlag) Set(v string) error {
	switch settings.Theme(v) {
	case settings.ThemeLight, settings.ThemeDark, settings.ThemeSystem:
		*f = themeFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q, %q or %q",
			v, settings.ThemeLight, settings.ThemeDark, settings.ThemeSystem)
	}
	return nil
}

// String implements pflag.Value.
func (f *themeFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *themeFlag) Type() string {
	return "theme"
}

type startFaceFlag settings.StartFace

// Set implements pflag.Value.
func (f *startFaceFlag) Set(v string) error {
	switch settings.StartFace(v) {
	case settings.StartFaceFront, settings.StartFaceBack:
		*f = startFaceFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q",
			v, settings.StartFaceFront, settings.StartFaceBack)
	}
	return nil
}

// String implements pflag.Value.
func (f *startFaceFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *startFaceFlag) Type() string {
	return "face"
}

var (
	_ pflag.Value = (*themeFlag)(nil)
	_ pflag.Value = (*startFaceFlag)(nil)
)

func newSettingsCommand() *cobra.Command {
	settingsCommand := &cobra.Command{
		Use:   "settings",
		Short: "Show and change study preferences",
	}

	settingsCommand.AddCommand(newSettingsShowCommand())
	settingsCommand.AddCommand(newSettingsSetCommand())

	return settingsCommand
}

func printSettings(prefs settings.Settings) {
	fmt.Printf("theme:      %s\n", prefs.Theme)
	fmt.Printf("shuffle:    %t\n", prefs.Shuffle)
	fmt.Printf("start face: %s\n", prefs.StartFace)
}

func newSettingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			printSettings(a.store.Settings())
			return nil
		},
	}
}

func newSettingsSetCommand() *cobra.Command {
	theme := themeFlag(settings.ThemeLight)
	startFace := startFaceFlag(settings.StartFaceFront)
	var shuffle bool

	command := &cobra.Command{
		Use:   "set",
		Short: "Change preferences; omitted flags keep their current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("theme") && !cmd.Flags().Changed("shuffle") && !cmd.Flags().Changed("start-face") {
				return fmt.Errorf("nothing to change: pass --theme, --shuffle or --start-face")
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			var patch settings.Patch
			if cmd.Flags().Changed("theme") {
				value := settings.Theme(theme)
				patch.Theme = &value
			}
			if cmd.Flags().Changed("shuffle") {
				patch.Shuffle = &shuffle
			}
			if cmd.Flags().Changed("start-face") {
				value := settings.StartFace(startFace)
				patch.StartFace = &value
			}

			updated, err := a.store.UpdateSettings(patch)
			if err != nil {
				return fmt.Errorf("store.UpdateSettings > %w", err)
			}
			printSettings(updated)
			return nil
		},
	}
	flags := command.Flags()
	flags.Var(&theme, "theme", "Color theme. Options: light, dark, system")
	flags.BoolVar(&shuffle, "shuffle", false, "Shuffle cards when a study session starts")
	flags.Var(&startFace, "start-face", "Face shown first during study. Options: front, back")
	return command
}
