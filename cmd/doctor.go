package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/kettle/pkg/service"
)

func NewDoctorCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the settings for problems",
		Long: `The doctor command checks the current settings against the vault.

Issues it can detect:
- Formats that render names with path separators or reserved characters
- Formats that only change once a minute or less often
- Locations that point at a missing folder`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			issues, err := (*svc).Diagnose(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "🏥 Running kettle doctor...")
			fmt.Fprintln(out)

			failures := 0
			for _, issue := range issues {
				switch issue.Severity {
				case service.SeverityError:
					failures++
					fmt.Fprintf(out, "❗ %s\n", issue.Message)
				case service.SeverityWarning:
					fmt.Fprintf(out, "⚠️  %s\n", issue.Message)
				default:
					fmt.Fprintf(out, "ℹ️  %s\n", issue.Message)
				}
				if issue.Hint != "" {
					fmt.Fprintf(out, "   💡 %s\n", issue.Hint)
				}
				fmt.Fprintln(out)
			}

			if len(issues) == 0 {
				fmt.Fprintln(out, "✅ No issues found!")
				return nil
			}
			fmt.Fprintf(out, "📊 Summary: %d issue(s) found\n", len(issues))
			if failures > 0 {
				return reported(errors.New("doctor found problems that will make note creation fail"))
			}
			return nil
		},
	}
}
