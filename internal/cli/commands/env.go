package commands

import (
	"io"

	"github.com/campsite-dev/campsite-web/internal/auth"
)

// Env carries what the commands need from the process. Tests substitute
// every field.
type Env struct {
	Out io.Writer

	// Interactive reports whether the user can be prompted
	Interactive func() bool

	// ReadPassword reads a password without echo
	ReadPassword func() (string, error)

	// PromptEmail asks the user for their email address
	PromptEmail func() (string, error)

	// OpenStore builds the auth store over the persisted session
	OpenStore func() (*auth.Store, error)
}
