package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/auth"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func newLoginCmd(a *app) *cobra.Command {
	var req auth.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the BizCraft account service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			prompts := a.prompts()
			if err := ask(cmd, prompts, "Email", &req.Email, false); err != nil {
				return err
			}
			if err := ask(cmd, prompts, "Password", &req.Password, true); err != nil {
				return err
			}
			result, err := a.auth.Login(ctx, req)
			if err != nil {
				return err
			}
			a.printf("%s\n", orDefault(result.Message, "Logged in."))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newSignupCmd(a *app) *cobra.Command {
	var req auth.RegisterRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a BizCraft account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prompts := a.prompts()
			if err := ask(cmd, prompts, "Name", &req.Name, false); err != nil {
				return err
			}
			if err := ask(cmd, prompts, "Email", &req.Email, false); err != nil {
				return err
			}
			if err := ask(cmd, prompts, "Password", &req.Password, true); err != nil {
				return err
			}
			result, err := a.auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.printf("%s\n", orDefault(result.Message, "Account created. You can now log in."))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf("Logged out.\n")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account of the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := auth.StoreTokens(a.store, auth.TokenKey).Token(cmd.Context())
			if errors.Is(err, auth.ErrNoToken) {
				a.printf("Not logged in.\n")
				return nil
			}
			if err != nil {
				return err
			}
			claims, err := auth.ParseClaims(token)
			if err != nil {
				return err
			}
			a.printf("Subject: %s\n", orDefault(claims.Subject, "-"))
			if claims.Name != "" {
				a.printf("Name:    %s\n", claims.Name)
			}
			if claims.Email != "" {
				a.printf("Email:   %s\n", claims.Email)
			}
			if !claims.ExpiresAt.IsZero() {
				status := "valid"
				if claims.Expired(time.Now()) {
					status = "expired"
				}
				a.printf("Expires: %s (%s)\n", claims.ExpiresAt.Format(time.RFC3339), status)
			}
			return nil
		},
	}
}

// ask prompts for *target unless the flag already set it.
func ask(cmd *cobra.Command, prompts tui.PromptDriver, label string, target *string, secret bool) error {
	if *target != "" {
		return nil
	}
	cfg := tui.InputConfig{Message: label}
	var (
		value string
		err   error
	)
	if secret {
		value, err = prompts.Password(cmd.Context(), cfg)
	} else {
		value, err = prompts.Input(cmd.Context(), cfg)
	}
	if err != nil {
		return err
	}
	*target = value
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
