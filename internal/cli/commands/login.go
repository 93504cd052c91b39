package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewLoginCmd creates the login command
func NewLoginCmd(env *Env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the campsite backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), env, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CAMPSITE_EMAIL, will prompt if not provided)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set CAMPSITE_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(ctx context.Context, env *Env, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("CAMPSITE_EMAIL")
	}
	if password == "" {
		password = os.Getenv("CAMPSITE_PASSWORD")
	}

	if email == "" {
		if !env.Interactive() {
			return fmt.Errorf("email is required in non-interactive mode (use --email flag or CAMPSITE_EMAIL env var)")
		}
		var err error
		if email, err = env.PromptEmail(); err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
	}

	if password == "" {
		if !env.Interactive() {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or CAMPSITE_PASSWORD env var)")
		}
		fmt.Fprint(env.Out, "Password: ")
		var err error
		password, err = env.ReadPassword()
		fmt.Fprintln(env.Out) // New line after password input
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	store, err := env.OpenStore()
	if err != nil {
		return err
	}

	result := store.Login(ctx, email, password)
	if !result.Success {
		return errors.New(result.Message)
	}

	fmt.Fprintf(env.Out, "✓ %s\n", result.Message)
	return nil
}
