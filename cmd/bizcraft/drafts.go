package main

import (
	"github.com/spf13/cobra"
)

func newDraftsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect or discard saved wizard drafts",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List wizards with a saved draft",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				found := false
				for _, id := range a.orch.Wizards() {
					if a.orch.HasDraft(cmd.Context(), id) {
						a.printf("%s\n", id)
						found = true
					}
				}
				if !found {
					a.printf("No saved drafts.\n")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear [id...]",
			Short: "Discard saved drafts (all wizards when no id is given)",
			RunE: func(cmd *cobra.Command, args []string) error {
				ids := args
				if len(ids) == 0 {
					ids = a.orch.Wizards()
				}
				for _, id := range ids {
					if err := a.orch.ClearDraft(cmd.Context(), id); err != nil {
						return err
					}
					a.printf("Cleared %s\n", id)
				}
				return nil
			},
		},
	)
	return cmd
}
