package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/kettle/pkg/frontmatter"
	"github.com/mattsolo1/kettle/pkg/service"
)

func NewListCmd(svc **service.Service) *cobra.Command {
	var (
		limit    int
		reindex  bool
		forget   bool
		listJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List recently created notes",
		Aliases: []string{"ls"},
		Long: `List notes created by kettle, newest first.

Examples:
  kettle list              # Last 50 notes
  kettle list -n 10        # Last 10 notes
  kettle list --reindex    # Rebuild the index from the vault first
  kettle list --clear      # Forget all recorded notes (files are kept)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if forget {
				if err := s.ClearHistory(); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				log.Info("cleared history")
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
				return nil
			}

			if reindex {
				count, err := s.Reindex(cmd.Context())
				if err != nil {
					return fmt.Errorf("reindex: %w", err)
				}
				log.WithField("count", count).Info("reindexed vault")
				if !listJSON {
					fmt.Fprintf(cmd.ErrOrStderr(), "Indexed %d notes\n", count)
				}
			}

			entries, err := s.History(limit)
			if err != nil {
				return err
			}

			if listJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tNAME\tPATH")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", frontmatter.FormatTimestamp(e.CreatedAt), e.Name, e.Path)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of notes to show")
	cmd.Flags().BoolVar(&reindex, "reindex", false, "Rebuild the index from the notes in the vault")
	cmd.Flags().BoolVar(&forget, "clear", false, "Forget all recorded notes without touching the files")
	cmd.MarkFlagsMutuallyExclusive("clear", "reindex")
	cmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	return cmd
}
