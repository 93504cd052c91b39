package server

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/campsite-dev/campsite-web/internal/auth"
	"github.com/campsite-dev/campsite-web/internal/routes"
	"github.com/campsite-dev/campsite-web/internal/session"
)

// LoginRequest represents a login request, as a form post or JSON
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// SessionResponse exposes the session getters
type SessionResponse struct {
	IsLoggedIn bool                 `json:"isLoggedIn"`
	User       *session.UserProfile `json:"user"`
}

func (s *Server) loginForm(c *gin.Context) {
	store, ok := s.requireStore(c)
	if !ok {
		return
	}

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid login form")
		s.redirectToLogin(c, auth.MsgLoginFailed, c.PostForm("email"))
		return
	}

	result := store.Login(c.Request.Context(), req.Email, req.Password)
	if !result.Success {
		s.redirectToLogin(c, result.Message, req.Email)
		return
	}

	s.redirectTo(c, routes.Home, nil)
}

func (s *Server) logoutForm(c *gin.Context) {
	store, ok := s.requireStore(c)
	if !ok {
		return
	}

	result := store.Logout(c.Request.Context())
	if !result.Success {
		s.redirectToLogin(c, result.Message, "")
		return
	}

	s.redirectTo(c, routes.Login, nil)
}

func (s *Server) getSession(c *gin.Context) {
	store, ok := s.requireStore(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		IsLoggedIn: store.IsLoggedIn(),
		User:       store.User(),
	})
}

func (s *Server) apiLogin(c *gin.Context) {
	store, ok := s.requireStore(c)
	if !ok {
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid login request")
		c.JSON(http.StatusUnauthorized, auth.Result{Success: false, Message: auth.MsgLoginFailed})
		return
	}

	result := store.Login(c.Request.Context(), req.Email, req.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) apiLogout(c *gin.Context) {
	store, ok := s.requireStore(c)
	if !ok {
		return
	}

	result := store.Logout(c.Request.Context())
	if !result.Success {
		c.JSON(http.StatusBadGateway, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) requireStore(c *gin.Context) (*auth.Store, bool) {
	store, ok := GetAuthStore(c)
	if !ok {
		s.logger.Error().Msg("No auth store on request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}
	return store, true
}

func (s *Server) redirectToLogin(c *gin.Context, message, email string) {
	query := url.Values{}
	query.Set("error", message)
	if email != "" {
		query.Set("email", email)
	}
	s.redirectTo(c, routes.Login, query)
}

func (s *Server) redirectTo(c *gin.Context, view routes.View, query url.Values) {
	target, err := s.routes.URL(view)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to build redirect")
		target = "/"
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}
