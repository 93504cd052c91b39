package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/campsite-dev/campsite-web/internal/auth"
	"github.com/campsite-dev/campsite-web/internal/session"
)

const (
	authStoreKey    = "auth_store"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"

	cookieMaxAge = int(30 * 24 * time.Hour / time.Second)
)

// cookieStorage persists the token in the visitor's browser under the
// fixed cookie name session.TokenKey
type cookieStorage struct {
	c      *gin.Context
	secure bool
}

func (s *cookieStorage) Load() (string, error) {
	token, err := s.c.Cookie(session.TokenKey)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

func (s *cookieStorage) Save(token string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(session.TokenKey, token, cookieMaxAge, "/", "", s.secure, true)
	return nil
}

func (s *cookieStorage) Clear() error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(session.TokenKey, "", -1, "/", "", s.secure, true)
	return nil
}

func setAuthStore(c *gin.Context, store *auth.Store) {
	c.Set(authStoreKey, store)
}

// GetAuthStore returns the auth store attached by SessionMiddleware
func GetAuthStore(c *gin.Context) (*auth.Store, bool) {
	v, exists := c.Get(authStoreKey)
	if !exists {
		return nil, false
	}

	store, ok := v.(*auth.Store)
	return store, ok
}

// SessionMiddleware builds the visitor's Session from the token cookie and
// attaches an auth store for the handlers
func SessionMiddleware(backend auth.Backend, secureCookie bool, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := session.New(&cookieStorage{c: c, secure: secureCookie})
		if err != nil {
			log.Error().Err(err).Msg("Failed to restore session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		reqLog := log.With().Str(requestIDKey, c.GetString(requestIDKey)).Logger()
		setAuthStore(c, auth.NewStore(sess, backend, reqLog))

		c.Next()
	}
}

// requestIDMiddleware tags every request with a ULID, honoring one sent by
// an upstream proxy
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
