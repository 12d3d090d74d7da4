package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/assessment"
	"github.com/goliatone/go-formwizard/pkg/catalog"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func newDomainsCmd(a *app) *cobra.Command {
	var domain, search string
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "List problem domains, or the problems of one domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			problems := catalog.Default()
			if domain == "" && search == "" {
				for _, name := range problems.Domains() {
					a.printf("%s\n", name)
				}
				return nil
			}
			matches := problems.Filter(domain, search)
			if len(matches) == 0 {
				a.printf("No problems match.\n")
				return nil
			}
			for _, p := range matches {
				a.printf("[%s] #%d (%d votes)\n  %s\n", p.Domain, p.ID, p.Votes, p.Statement)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&domain, "domain", "", "only problems of this domain")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive text to look for")
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <section>",
		Short: "Show guidance for an idea section (overview, problem, solution, impact)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := assessment.ParseSection(args[0])
			if err != nil {
				return err
			}
			text, err := assessment.DefaultDescriber().Describe(cmd.Context(), section)
			if err != nil {
				return err
			}
			a.printf("%s\n", text)
			return nil
		},
	}
}

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the idea assistant (an empty message ends the chat)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var chat assessment.Chat
			prompts := a.prompts()
			for {
				message, err := prompts.Input(cmd.Context(), tui.InputConfig{Message: "You"})
				if err != nil {
					return err
				}
				reply, err := chat.Reply(cmd.Context(), strings.TrimSpace(message))
				if errors.Is(err, assessment.ErrEmptyMessage) {
					return nil
				}
				if err != nil {
					return err
				}
				a.printf("AI: %s\n", reply.Content)
			}
		},
	}
}
