package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := env.OpenStore()
			if err != nil {
				return err
			}

			wasLoggedIn := store.IsLoggedIn()
			result := store.Logout(cmd.Context())
			if !result.Success {
				// The local token is gone either way
				return errors.New(result.Message)
			}

			if !wasLoggedIn {
				fmt.Fprintln(env.Out, "Not logged in")
				return nil
			}
			fmt.Fprintln(env.Out, "✓ Logged out")
			return nil
		},
	}
}
