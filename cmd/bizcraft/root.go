package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bizcraft",
		Short:         "Register teams, onboard them and submit ideas from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd)
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")

	root.AddCommand(
		newWizardCmd(a, "team", "Register a team", "team-registration"),
		newWizardCmd(a, "onboard", "Onboard a registered team", "onboarding"),
		newWizardCmd(a, "idea", "Submit an idea for assessment", "idea-submission"),
		newFormCmd(a),
		newLoginCmd(a),
		newSignupCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newDomainsCmd(a),
		newDescribeCmd(a),
		newChatCmd(a),
		newDraftsCmd(a),
		newCheckCmd(a),
	)
	return root
}
