package cli

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/campsite-dev/campsite-web/internal/api"
	"github.com/campsite-dev/campsite-web/internal/auth"
	"github.com/campsite-dev/campsite-web/internal/cli/commands"
	"github.com/campsite-dev/campsite-web/internal/config"
	"github.com/campsite-dev/campsite-web/internal/logger"
	"github.com/campsite-dev/campsite-web/internal/session"
)

var version = "dev" // Will be set during build

const (
	tokenStoreKeyring = "keyring"
	tokenStoreFile    = "file"
)

// NewRootCmd builds the campsite command tree
func NewRootCmd() *cobra.Command {
	var tokenStore string
	var verbose bool

	env := &commands.Env{
		Out: os.Stdout,
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		ReadPassword: func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(b), err
		},
		PromptEmail: promptEmail,
		OpenStore: func() (*auth.Store, error) {
			return openStore(tokenStore, verbose)
		},
	}

	rootCmd := &cobra.Command{
		Use:   "campsite",
		Short: "Campsite - book and manage campsites",
		Long: `Campsite CLI - log in to the campsite booking service and inspect
the pages of the web client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&tokenStore, "token-store", tokenStoreKeyring, "Where to keep the session token: keyring or file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log backend calls")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(env.Out, "campsite version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewStatusCmd(env))
	rootCmd.AddCommand(commands.NewRoutesCmd(env))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func openStore(kind string, verbose bool) (*auth.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	storage, err := tokenStorage(kind)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(storage)
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(os.Stderr, level, "console")

	return auth.NewStore(sess, api.NewWithCookies(cfg.API), log), nil
}

func tokenStorage(kind string) (session.TokenStorage, error) {
	switch kind {
	case tokenStoreKeyring:
		return session.KeyringStorage{}, nil
	case tokenStoreFile:
		path, err := session.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		return session.FileStorage{Path: path}, nil
	default:
		return nil, fmt.Errorf("unknown token store %q (use %s or %s)", kind, tokenStoreKeyring, tokenStoreFile)
	}
}

func promptEmail() (string, error) {
	validate := validator.New()
	prompt := promptui.Prompt{
		Label: "Email",
		Validate: func(input string) error {
			if err := validate.Var(input, "required,email"); err != nil {
				return fmt.Errorf("enter a valid email address")
			}
			return nil
		},
	}
	return prompt.Run()
}
