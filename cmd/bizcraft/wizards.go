package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/openapi"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func newWizardCmd(a *app, use, short, id string) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runWizard(cmd, id, reset)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "discard the saved draft and start over")
	return cmd
}

func newFormCmd(a *app) *cobra.Command {
	var (
		reset     bool
		document  string
		component string
		perStep   int
	)
	cmd := &cobra.Command{
		Use:   "form <id>",
		Short: "Run any registered wizard, or one imported from an OpenAPI document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			if document != "" {
				if component == "" {
					return errors.New("--component is required with --openapi")
				}
				data, err := os.ReadFile(document)
				if err != nil {
					return err
				}
				opts := []openapi.Option{openapi.WithFieldsPerStep(perStep)}
				if id != "" {
					opts = append(opts, openapi.WithID(id))
				}
				def, err := a.orch.ImportOpenAPI(cmd.Context(), data, component, opts...)
				if err != nil {
					return err
				}
				id = def.ID
			}
			if id == "" {
				a.printf("Available wizards:\n")
				for _, name := range a.orch.Wizards() {
					a.printf("  %s\n", name)
				}
				return nil
			}
			return a.runWizard(cmd, id, reset)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "discard the saved draft and start over")
	cmd.Flags().StringVar(&document, "openapi", "", "OpenAPI document to import the wizard from")
	cmd.Flags().StringVar(&component, "component", "", "component schema to import")
	cmd.Flags().IntVar(&perStep, "fields-per-step", 3, "fields per generated step")
	return cmd
}

func (a *app) runWizard(cmd *cobra.Command, id string, reset bool) error {
	ctx := cmd.Context()
	if reset {
		if err := a.orch.ClearDraft(ctx, id); err != nil {
			return err
		}
	}
	engine, err := a.orch.Engine(ctx, id)
	if err != nil {
		return err
	}
	runner, err := a.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Run(ctx, engine); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			a.printf("Draft saved. Run the command again to continue.\n")
			return nil
		}
		return fmt.Errorf("%s: %w", id, err)
	}
	return nil
}
