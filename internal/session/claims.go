package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken is returned by Claims when the token is not a JWT
var ErrOpaqueToken = errors.New("token is not a JWT")

// ErrNotAuthenticated is returned when a token is required but none is stored
var ErrNotAuthenticated = errors.New("not authenticated")

// TokenClaims is the subset of JWT claims shown to the user
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Claims decodes the token without verifying it. The backend stays the
// only authority on whether the token is valid.
func (s *Session) Claims() (*TokenClaims, error) {
	token := s.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	out := &TokenClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
