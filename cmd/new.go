package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/kettle/pkg/service"
)

var log = logrus.WithField("component", "kettle.cmd")

func NewNewCmd(svc **service.Service) *cobra.Command {
	var (
		noOpen    bool
		tags      []string
		fromStdin bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a uniquely named note",
		Long: `Create a note named after the current time in the configured folder
and open it in your editor.

If a note with the same name already exists, nothing is written and the
existing note is reported instead.

Examples:
  kettle new                    # Create and open a note
  kettle new --no-open          # Create without opening
  kettle new -t idea -t draft   # Create with tags
  echo "Quick thought" | kettle new`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if !cmd.Flags().Changed("stdin") && !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
				fromStdin = true
			}

			var opts []service.CreateOption
			if noOpen || fromStdin {
				opts = append(opts, service.WithoutOpen())
			}
			if len(tags) > 0 {
				opts = append(opts, service.WithTags(tags...))
			}
			if fromStdin {
				content, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				if strings.TrimSpace(string(content)) != "" {
					opts = append(opts, service.WithBody(string(content)))
				}
			}

			note, err := s.Run(cmd.Context(), opts...)
			if err != nil {
				return reported(err)
			}

			log.WithField("path", note.Path).Info("note created")
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", note.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noOpen, "no-open", false, "Don't open the note after creating it")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag to add to the note's frontmatter (repeatable)")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the note body from stdin (auto-detected when piped)")

	return cmd
}
