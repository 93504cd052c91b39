package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campsite-dev/campsite-web/internal/routes"
	"github.com/campsite-dev/campsite-web/internal/views"
)

// renderPage resolves the request path through the route table. Paths with
// no route get the NotFound view.
func (s *Server) renderPage(c *gin.Context) {
	path := c.Request.URL.Path

	match, ok := s.routes.Resolve(path)
	if !ok || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		s.render(c, http.StatusNotFound, routes.NotFound, views.PageData{Path: path})
		return
	}

	data := views.PageData{
		Path:       path,
		CampsiteID: match.Param(routes.ParamCampsiteID),
	}
	switch match.View {
	case routes.Login:
		data.Error = c.Query("error")
		data.Email = c.Query("email")
	case routes.Search:
		data.Query = c.Query("q")
	}

	s.render(c, http.StatusOK, match.View, data)
}

func (s *Server) render(c *gin.Context, status int, view routes.View, data views.PageData) {
	if store, ok := GetAuthStore(c); ok {
		data.IsLoggedIn = store.IsLoggedIn()
		data.User = store.User()
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := s.views.Render(c.Writer, view, data); err != nil {
		s.logger.Error().Err(err).Str("view", string(view)).Msg("Failed to render page")
	}
}
