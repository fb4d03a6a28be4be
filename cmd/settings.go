package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/kettle/internal/tui/settings"
	"github.com/mattsolo1/kettle/pkg/service"
)

var settingKeys = []string{"location", "format"}

func NewSettingsCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and edit the note location and name format",
		Long: `Open the interactive settings panel. Changes are saved as you type.

When not attached to a terminal, the current settings are printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if !isatty.IsTerminal(os.Stdout.Fd()) || !isatty.IsTerminal(os.Stdin.Fd()) {
				cur := s.Settings()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "location: %s\n", cur.Location)
				fmt.Fprintf(out, "format:   %s\n", cur.Format)
				fmt.Fprintf(out, "example:  %s\n", s.FormatExample())
				return nil
			}

			final, err := tea.NewProgram(settings.New(s)).Run()
			if err != nil {
				return fmt.Errorf("run settings panel: %w", err)
			}
			if m, ok := final.(settings.Model); ok && m.Err() != nil {
				return m.Err()
			}
			return nil
		},
	}

	cmd.AddCommand(newSettingsGetCmd(svc))
	cmd.AddCommand(newSettingsSetCmd(svc))
	cmd.AddCommand(newSettingsExampleCmd(svc))

	return cmd
}

func newSettingsGetCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:       "get <location|format>",
		Short:     "Print a setting",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: settingKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			cur := (*svc).Settings()
			switch args[0] {
			case "location":
				fmt.Fprintln(cmd.OutOrStdout(), cur.Location)
			case "format":
				fmt.Fprintln(cmd.OutOrStdout(), cur.Format)
			}
			return nil
		},
	}
}

func newSettingsSetCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "set <location|format> <value>",
		Short: "Change and save a setting",
		Long: `Change and save a setting. An empty value is allowed: an empty location
means the vault root, an empty format falls back to the default.

Examples:
  kettle settings set location Inbox
  kettle settings set format "YYYY-MM-DD HHmmss"`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return settingKeys, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			var err error
			switch args[0] {
			case "location":
				err = s.SetLocation(args[1])
			case "format":
				err = s.SetFormat(args[1])
			default:
				return fmt.Errorf("unknown setting %q (want one of: location, format)", args[0])
			}
			if err != nil {
				return err
			}
			log.WithField("key", args[0]).WithField("value", args[1]).Info("setting saved")
			return nil
		},
	}
}

func newSettingsExampleCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print the note name the current format produces right now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), (*svc).FormatExample())
			return nil
		},
	}
}
