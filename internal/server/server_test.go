package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campsite-dev/campsite-web/internal/api"
	"github.com/campsite-dev/campsite-web/internal/auth"
	"github.com/campsite-dev/campsite-web/internal/config"
	"github.com/campsite-dev/campsite-web/internal/session"
)

// mockBackend creates a mock campsite backend accepting one set of credentials
func mockBackend(t *testing.T, logoutStatus int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case api.PathLogin:
			var req api.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Email != "a@b.com" || req.Password != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"token":"tok1"}`))
		case api.PathLogout:
			if r.Header.Get("Authorization") != "Bearer tok1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(logoutStatus)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, backendURL string) *Server {
	t.Helper()

	cfg := &config.Config{
		API: config.APIConfig{URL: backendURL, Timeout: 5 * time.Second},
		Server: config.ServerConfig{
			ListenAddr:  ":0",
			CORSOrigins: []string{"http://localhost:5173"},
		},
	}
	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func tokenCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.TokenKey {
			return c
		}
	}
	return nil
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")
	w := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"online"`)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestPages_ResolveThroughRouteTable(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")

	for path, view := range map[string]string{
		"/":             "Home",
		"/login":        "Login",
		"/register":     "Register",
		"/profile":      "Profile",
		"/search":       "Search",
		"/bookings":     "Bookings",
		"/my-Campsites": "MyCampsites",
		"/addCampsite":  "AddCampsite",
		"/campsite/42":  "CampsiteDetails",
	} {
		w := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `data-view="`+view+`"`, path)
	}
}

func TestPages_CampsiteDetailsParam(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")
	w := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, "/campsite/42", nil))

	assert.Contains(t, w.Body.String(), `data-campsite-id="42"`)
}

func TestPages_CaseAndTrailingSlashTolerant(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")

	for path, view := range map[string]string{
		"/Login/":       "Login",
		"/my-campsites": "MyCampsites",
		"/campsite/42/": "CampsiteDetails",
	} {
		w := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `data-view="`+view+`"`, path)
	}
}

func TestPages_NotFound(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")

	for _, path := range []string{"/nope", "/nope/deeper", "/campsite/1/extra"} {
		w := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Contains(t, w.Body.String(), `data-view="NotFound"`, path)
	}
}

func TestPages_ReflectLoginStateFromCookie(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenKey, Value: "abc123"})
	w := do(t, srv.Handler(), req)

	assert.Contains(t, w.Body.String(), `action="/logout"`)
}

func TestAPISession(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")

	w := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, "/api/session", nil))
	assert.JSONEq(t, `{"isLoggedIn":false,"user":null}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenKey, Value: "abc123"})
	w = do(t, srv.Handler(), req)
	assert.JSONEq(t, `{"isLoggedIn":true,"user":null}`, w.Body.String())
}

func TestAPILogin_Success(t *testing.T) {
	backend := mockBackend(t, http.StatusOK)
	srv := newTestServer(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@b.com","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(t, srv.Handler(), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Login successful"}`, w.Body.String())

	cookie := tokenCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, "tok1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestAPILogin_Rejected(t *testing.T) {
	backend := mockBackend(t, http.StatusOK)
	srv := newTestServer(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@b.com","password":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(t, srv.Handler(), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Login failed"}`, w.Body.String())
	assert.Nil(t, tokenCookie(w))
}

func TestAPILogin_InvalidBody(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(t, srv.Handler(), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Login failed"}`, w.Body.String())
}

func TestAPILogout(t *testing.T) {
	backend := mockBackend(t, http.StatusOK)
	srv := newTestServer(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenKey, Value: "tok1"})
	w := do(t, srv.Handler(), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	cookie := tokenCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestAPILogout_BackendFailureClearsCookie(t *testing.T) {
	backend := mockBackend(t, http.StatusInternalServerError)
	srv := newTestServer(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenKey, Value: "tok1"})
	w := do(t, srv.Handler(), req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var result auth.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, auth.MsgLogoutFailed, result.Message)

	cookie := tokenCookie(w)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestLoginForm(t *testing.T) {
	backend := mockBackend(t, http.StatusOK)
	srv := newTestServer(t, backend.URL)

	form := url.Values{"email": {"a@b.com"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(t, srv.Handler(), req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.NotNil(t, tokenCookie(w))
	assert.Equal(t, "tok1", tokenCookie(w).Value)
}

func TestLoginForm_FailureRedirectsWithMessage(t *testing.T) {
	backend := mockBackend(t, http.StatusOK)
	srv := newTestServer(t, backend.URL)

	form := url.Values{"email": {"a@b.com"}, "password": {"bad"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(t, srv.Handler(), req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "Login failed", loc.Query().Get("error"))
	assert.Equal(t, "a@b.com", loc.Query().Get("email"))

	page := do(t, srv.Handler(), httptest.NewRequest(http.MethodGet, loc.String(), nil))
	assert.Contains(t, page.Body.String(), "Login failed")
}

func TestLogoutForm(t *testing.T) {
	backend := mockBackend(t, http.StatusOK)
	srv := newTestServer(t, backend.URL)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.TokenKey, Value: "tok1"})
	w := do(t, srv.Handler(), req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	require.NotNil(t, tokenCookie(w))
	assert.Negative(t, tokenCookie(w).MaxAge)
}

func TestCORS_AllowsCredentials(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodOptions, "/api/session", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := do(t, srv.Handler(), req)

	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID_Propagated(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "upstream-id")
	w := do(t, srv.Handler(), req)

	assert.Equal(t, "upstream-id", w.Header().Get(requestIDHeader))
}

func TestAPILogin_BackendCookiesStayWithVisitor(t *testing.T) {
	var loginCookies []string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loginCookies = append(loginCookies, r.Header.Get("Cookie"))
		var req api.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: req.Email + "-session", Path: "/"})
		_, _ = w.Write([]byte(`{"token":"tok-` + req.Email + `"}`))
	}))
	t.Cleanup(backend.Close)
	srv := newTestServer(t, backend.URL)

	for _, email := range []string{"alice@example.com", "bob@example.com"} {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"`+email+`","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		w := do(t, srv.Handler(), req)

		require.Equal(t, http.StatusOK, w.Code, email)
		cookie := tokenCookie(w)
		require.NotNil(t, cookie)
		assert.Equal(t, "tok-"+email, cookie.Value)
	}

	require.Len(t, loginCookies, 2)
	assert.Empty(t, loginCookies[0])
	assert.Empty(t, loginCookies[1], "second visitor must not carry the first visitor's backend cookie")
}
