package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/kettle/pkg/service"
)

func NewQuickCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quick [content]",
		Short: "Create a note with content without opening the editor",
		Long: `Create a uniquely named note holding the given text, without opening it.

Examples:
  kettle quick "Remember to review PR #123"
  kettle quick "Meeting at 3pm with team"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			note, err := s.Run(cmd.Context(), service.WithoutOpen(), service.WithBody(args[0]+"\n"))
			if err != nil {
				return reported(err)
			}

			log.WithField("path", note.Path).Info("quick note created")
			fmt.Fprintf(cmd.OutOrStdout(), "Created quick note: %s\n", note.Path)
			return nil
		},
	}

	return cmd
}
