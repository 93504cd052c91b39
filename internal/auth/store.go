// Package auth implements the auth store: the login and logout actions that
// call the backend and then mutate the Session. Actions never return errors;
// every failure is logged and reported as a uniform Result.
package auth

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campsite-dev/campsite-web/internal/api"
	"github.com/campsite-dev/campsite-web/internal/session"
)

// Result messages
const (
	MsgLoginSuccessful = "Login successful"
	MsgLoginFailed     = "Login failed"
	MsgLogoutFailed    = "Failed to logout"
)

// Result is the outcome of an action
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Backend is the subset of the API client the store needs
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Logout(ctx context.Context, token string, auth api.Authorizer) error
}

// Store wires a Session to the backend
type Store struct {
	session *session.Session
	backend Backend
	logger  zerolog.Logger
}

// NewStore creates an auth store over sess
func NewStore(sess *session.Session, backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		session: sess,
		backend: backend,
		logger:  logger,
	}
}

// Login authenticates against the backend and records the returned token.
// On failure the session is left as it was.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Login error")
		return Result{Success: false, Message: MsgLoginFailed}
	}

	if err := s.session.SetLoginState(resp.Token); err != nil {
		s.logger.Error().Err(err).Msg("Login error")
		return Result{Success: false, Message: MsgLoginFailed}
	}

	s.logger.Debug().Msg("Logged in")
	return Result{Success: true, Message: MsgLoginSuccessful}
}

// Logout ends the backend session and clears local state. Local state is
// cleared whatever the backend answers; a backend failure is still reported.
func (s *Store) Logout(ctx context.Context) Result {
	if !s.session.IsLoggedIn() {
		if err := s.session.Logout(); err != nil {
			s.logger.Error().Err(err).Msg("Logout error")
			return Result{Success: false, Message: MsgLogoutFailed}
		}
		return Result{Success: true}
	}

	token := s.session.Token()
	remoteErr := s.backend.Logout(ctx, token, s.session)
	localErr := s.session.Logout()

	if remoteErr != nil {
		s.logger.Warn().Err(remoteErr).Msg("Logout error")
		return Result{Success: false, Message: MsgLogoutFailed}
	}
	if localErr != nil {
		s.logger.Error().Err(localErr).Msg("Logout error")
		return Result{Success: false, Message: MsgLogoutFailed}
	}

	s.logger.Debug().Msg("Logged out")
	return Result{Success: true}
}

// IsLoggedIn reports the session login state
func (s *Store) IsLoggedIn() bool {
	return s.session.IsLoggedIn()
}

// User returns the cached user profile
func (s *Store) User() *session.UserProfile {
	return s.session.User()
}

// Session returns the underlying session
func (s *Store) Session() *session.Session {
	return s.session
}
