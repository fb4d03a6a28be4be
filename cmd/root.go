package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/kettle/cmd/config"
	"github.com/mattsolo1/kettle/pkg/service"
)

// AnnotationNoService marks commands that run without a vault.
const AnnotationNoService = "kettle/no-service"

// NewRootCmd builds the kettle command tree. Running kettle with no
// subcommand creates a note and opens it, whatever stdin is attached to.
// A service already set in svc is used as-is instead of being built from
// the config.
func NewRootCmd(svc **service.Service) *cobra.Command {
	root := &cobra.Command{
		Use:   "kettle",
		Short: "Create uniquely named, timestamped notes",
		Long: `kettle creates a note named after the current time in a configured
folder of your notes vault and opens it in your editor.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.InitConfig()
			if cmd.Annotations[AnnotationNoService] == "true" || *svc != nil {
				return nil
			}
			s, err := config.InitService()
			if err != nil {
				return err
			}
			*svc = s
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := (*svc).Run(cmd.Context())
			if err != nil {
				return reported(err)
			}
			log.WithField("path", note.Path).Info("note created")
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", note.Path)
			return nil
		},
	}
	config.AddGlobalFlags(root)

	root.AddCommand(NewNewCmd(svc))
	root.AddCommand(NewQuickCmd(svc))
	root.AddCommand(NewSettingsCmd(svc))
	root.AddCommand(NewListCmd(svc))
	root.AddCommand(NewDoctorCmd(svc))
	root.AddCommand(NewVersionCmd())

	return root
}

// Execute runs root and then releases the service, including when the
// command failed.
func Execute(root *cobra.Command, svc **service.Service) error {
	err := root.Execute()
	if *svc != nil {
		if cerr := (*svc).Close(); cerr != nil {
			logrus.WithError(cerr).Warn("failed to close service")
		}
	}
	return err
}
