package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/definition"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file...>",
		Short: "Validate wizard definition files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err == nil {
					_, err = definition.Parse(data, path)
				}
				if err != nil {
					a.printf("%s: %v\n", path, err)
					failed++
					continue
				}
				a.printf("%s: ok\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d definition files failed", failed, len(args))
			}
			return nil
		},
	}
}
