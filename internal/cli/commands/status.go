package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether you are logged in",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := env.OpenStore()
			if err != nil {
				return err
			}

			if !store.IsLoggedIn() {
				fmt.Fprintln(env.Out, "Not logged in")
				return nil
			}

			fmt.Fprintln(env.Out, "Logged in")

			// Token details are informational only; opaque tokens are fine
			claims, err := store.Session().Claims()
			if err != nil {
				return nil
			}
			if claims.Email != "" {
				fmt.Fprintf(env.Out, "  Email:   %s\n", claims.Email)
			}
			if claims.Subject != "" {
				fmt.Fprintf(env.Out, "  Subject: %s\n", claims.Subject)
			}
			if !claims.ExpiresAt.IsZero() {
				state := "expires"
				if claims.ExpiresAt.Before(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(env.Out, "  Token %s %s\n", state, claims.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}
