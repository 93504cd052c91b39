// Package session tracks whether the user is authenticated. A Session is
// built explicitly from a TokenStorage, reads the persisted token at
// construction and is only changed through SetLoginState and Logout.
package session

import (
	"fmt"
	"net/http"
	"sync"
)

const bearerPrefix = "Bearer "

// UserProfile is the cached identity of the logged-in user. The backend
// record is opaque to the client.
type UserProfile struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Session is the client-side record of the login state.
// isLoggedIn always equals token != "".
type Session struct {
	mu         sync.RWMutex
	storage    TokenStorage
	isLoggedIn bool
	token      string
	user       *UserProfile
}

// New constructs a Session from the token persisted in storage
func New(storage TokenStorage) (*Session, error) {
	token, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted token: %w", err)
	}

	return &Session{
		storage:    storage,
		isLoggedIn: token != "",
		token:      token,
	}, nil
}

// SetLoginState records token as the current credential. An empty token
// logs the session out and clears storage.
func (s *Session) SetLoginState(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token == "" {
		if err := s.storage.Clear(); err != nil {
			return fmt.Errorf("failed to clear token: %w", err)
		}
		s.token = ""
		s.isLoggedIn = false
		return nil
	}

	if err := s.storage.Save(token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	s.token = token
	s.isLoggedIn = true
	return nil
}

// Logout resets the session. Local state is always cleared, even when
// storage fails to forget the token; the storage error is still returned.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.isLoggedIn = false
	s.token = ""
	s.user = nil

	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// IsLoggedIn reports whether a token is present
func (s *Session) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoggedIn
}

// User returns the cached profile, nil when none is known
func (s *Session) User() *UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the current bearer token, "" when logged out
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authorize sets the Authorization header of req from the current token,
// or removes it when logged out.
func (s *Session) Authorize(req *http.Request) {
	if token := s.Token(); token != "" {
		req.Header.Set("Authorization", bearerPrefix+token)
		return
	}
	req.Header.Del("Authorization")
}
