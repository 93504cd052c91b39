package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/campsite-dev/campsite-web/internal/routes"
	"github.com/campsite-dev/campsite-web/internal/session"
)

//go:embed templates/*.html
var templateFiles embed.FS

type page struct {
	title string
	file  string
}

var pages = map[routes.View]page{
	routes.Home:            {"Home", "home.html"},
	routes.Login:           {"Log in", "login.html"},
	routes.Register:        {"Register", "register.html"},
	routes.Profile:         {"Profile", "profile.html"},
	routes.Search:          {"Search", "search.html"},
	routes.Bookings:        {"Bookings", "bookings.html"},
	routes.MyCampsites:     {"My Campsites", "my_campsites.html"},
	routes.AddCampsite:     {"Add Campsite", "add_campsite.html"},
	routes.CampsiteDetails: {"Campsite", "campsite_details.html"},
	routes.NotFound:        {"Not Found", "not_found.html"},
}

// PageData contains data for rendering any page
type PageData struct {
	Title      string
	View       routes.View
	Path       string
	IsLoggedIn bool
	User       *session.UserProfile
	CampsiteID string
	Query      string
	Email      string // Preserve email on login error
	Error      string
}

// Renderer holds one parsed template set per view
type Renderer struct {
	templates map[routes.View]*template.Template
}

// New parses every page template from the embedded filesystem
func New() (*Renderer, error) {
	fsys, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}

	r := &Renderer{templates: make(map[routes.View]*template.Template, len(pages))}
	for view, p := range pages {
		tmpl, err := template.New(p.file).ParseFS(fsys, "layout.html", p.file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", p.file, err)
		}
		r.templates[view] = tmpl
	}
	return r, nil
}

// Render writes the page for view. The title is filled in when empty.
func (r *Renderer) Render(w io.Writer, view routes.View, data PageData) error {
	tmpl, ok := r.templates[view]
	if !ok {
		return fmt.Errorf("no template for view %q", view)
	}

	data.View = view
	if data.Title == "" {
		data.Title = pages[view].title
	}
	if view == routes.CampsiteDetails && data.CampsiteID != "" {
		data.Title = "Campsite " + data.CampsiteID
	}

	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", view, err)
	}
	return nil
}
