package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-horloge/internal/config"
	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the persisted clock flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := config.NewSettingsStore(loadConfig().Settings)
			f, complete, err := store.Read()
			if err != nil {
				return err
			}
			printFlags(cmd, store.Path, f)
			if !complete {
				fmt.Fprintln(cmd.OutOrStdout(), "(incomplete: missing flags read as false)")
			}
			return nil
		},
	}
	cmd.AddCommand(newSettingsInitCmd())
	cmd.AddCommand(newSettingsSetCmd())
	return cmd
}

func newSettingsInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write missing flags as false",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := config.NewSettingsStore(loadConfig().Settings)
			f, _, err := store.Ensure()
			if err != nil {
				return err
			}
			printFlags(cmd, store.Path, f)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var active, itIs, meridiem bool
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change flags; unset flags keep their value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := config.NewSettingsStore(loadConfig().Settings)
			flags := cmd.Flags()
			f, err := store.Update(func(f *wordclock.Flags) {
				if flags.Changed("active") {
					f.Active = active
				}
				if flags.Changed("it-is") {
					f.ItIs = itIs
				}
				if flags.Changed("meridiem") {
					f.Meridiem = meridiem
				}
			})
			if err != nil {
				return err
			}
			printFlags(cmd, store.Path, f)
			return nil
		},
	}
	cmd.Flags().BoolVar(&active, "active", true, "master enable")
	cmd.Flags().BoolVar(&itIs, "it-is", true, `display "IL EST"`)
	cmd.Flags().BoolVar(&meridiem, "meridiem", true, "display AM/PM")
	return cmd
}

func printFlags(cmd *cobra.Command, path string, f wordclock.Flags) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", path)
	fmt.Fprintf(out, "  active:           %t\n", f.Active)
	fmt.Fprintf(out, "  display_it_is:    %t\n", f.ItIs)
	fmt.Fprintf(out, "  display_meridiem: %t\n", f.Meridiem)
}
