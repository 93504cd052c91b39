// Package routes holds the page route table of the campsite client. Each
// path pattern binds to exactly one View; matching is a static lookup with
// no guards, redirects or nesting. Like vue-router, matching ignores case
// and a single trailing slash.
package routes

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
)

// View identifies a page of the client
type View string

const (
	Home            View = "Home"
	Login           View = "Login"
	Register        View = "Register"
	Profile         View = "Profile"
	Search          View = "Search"
	Bookings        View = "Bookings"
	MyCampsites     View = "MyCampsites"
	AddCampsite     View = "AddCampsite"
	CampsiteDetails View = "CampsiteDetails"

	// NotFound is rendered by the web server for paths the table does not match.
	// It is never returned by Resolve.
	NotFound View = "NotFound"
)

// ParamCampsiteID is the dynamic segment of the campsite details route
const ParamCampsiteID = "campsiteId"

// Route binds a path pattern to a view. Patterns use ":name" for dynamic
// segments.
type Route struct {
	Path string
	View View
}

// Match is the result of resolving a path
type Match struct {
	View   View
	Params map[string]string
}

// Param returns a dynamic segment value, or "" if the route has none by that name
func (m Match) Param(name string) string {
	return m.Params[name]
}

var table = []Route{
	{Path: "/", View: Home},
	{Path: "/login", View: Login},
	{Path: "/register", View: Register},
	{Path: "/profile", View: Profile},
	{Path: "/search", View: Search},
	{Path: "/bookings", View: Bookings},
	{Path: "/my-Campsites", View: MyCampsites},
	{Path: "/addCampsite", View: AddCampsite},
	{Path: "/campsite/:" + ParamCampsiteID, View: CampsiteDetails},
}

// Table resolves request paths against the route table
type Table struct {
	router *mux.Router
	routes []Route
	byView map[View]Route
}

// New builds the route table
func New() *Table {
	r := mux.NewRouter()
	byView := make(map[View]Route, len(table))
	for _, route := range table {
		r.NewRoute().Path(muxPattern(lowerLiterals(route.Path))).Name(string(route.View))
		byView[route.View] = route
	}
	return &Table{router: r, routes: table, byView: byView}
}

// Routes returns the bindings in declaration order
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Resolve maps a path to its view. The second return is false when no
// route matches. Dynamic segment values keep the case of the requested path.
func (t *Table) Resolve(path string) (Match, bool) {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: strings.ToLower(path)}}

	var rm mux.RouteMatch
	if !t.router.Match(req, &rm) || rm.Route == nil {
		return Match{}, false
	}

	view := View(rm.Route.GetName())
	pattern := strings.Split(t.byView[view].Path, "/")
	segments := strings.Split(path, "/")
	params := make(map[string]string, len(rm.Vars))
	for i, seg := range pattern {
		if strings.HasPrefix(seg, ":") && i < len(segments) {
			params[seg[1:]] = segments[i]
		}
	}
	return Match{View: view, Params: params}, true
}

// URL builds the path for a view in its declared spelling. params is a flat
// list of name/value pairs for dynamic segments.
func (t *Table) URL(view View, params ...string) (string, error) {
	route, ok := t.byView[view]
	if !ok {
		return "", fmt.Errorf("no route for view %q", view)
	}
	if len(params)%2 != 0 {
		return "", fmt.Errorf("failed to build URL for view %q: odd number of params", view)
	}
	values := make(map[string]string, len(params)/2)
	for i := 0; i < len(params); i += 2 {
		values[params[i]] = params[i+1]
	}

	segments := strings.Split(route.Path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		v, ok := values[seg[1:]]
		if !ok || v == "" {
			return "", fmt.Errorf("failed to build URL for view %q: missing param %q", view, seg[1:])
		}
		segments[i] = url.PathEscape(v)
	}
	return strings.Join(segments, "/"), nil
}

// lowerLiterals lowercases the static segments of a pattern, leaving
// ":name" segments intact
func lowerLiterals(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			segments[i] = strings.ToLower(seg)
		}
	}
	return strings.Join(segments, "/")
}

// muxPattern converts ":name" segments into gorilla/mux "{name}" variables
func muxPattern(path string) string {
	out := make([]byte, 0, len(path)+2)
	for i := 0; i < len(path); i++ {
		if path[i] != ':' || (i > 0 && path[i-1] != '/') {
			out = append(out, path[i])
			continue
		}
		j := i + 1
		for j < len(path) && path[j] != '/' {
			j++
		}
		out = append(out, '{')
		out = append(out, path[i+1:j]...)
		out = append(out, '}')
		i = j - 1
	}
	return string(out)
}
