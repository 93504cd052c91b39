package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campsite-dev/campsite-web/internal/config"
)

// Backend endpoints. Paths are fixed; only the base URL is configurable.
const (
	PathLogin  = "/User/login"
	PathLogout = "/User/logout"
)

var (
	// ErrMissingToken is returned when a successful login response carries no token
	ErrMissingToken = errors.New("login response did not contain a token")
	// ErrInvalidCredentials is returned when the login request fails validation
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// StatusError is returned for non-2xx backend responses
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.StatusCode, e.Body)
}

// Authorizer attaches credentials to an outgoing request
type Authorizer interface {
	Authorize(req *http.Request)
}

// Client represents an HTTP client for the campsite backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
}

// New creates a new API client. It keeps no cookies between requests, so
// one client can serve many visitors.
func New(cfg config.APIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.Insecure,
				},
			},
		},
		validate: validator.New(),
	}
}

// NewWithCookies creates a client whose requests include the cookies the
// backend sets. Only for single-user processes such as the CLI.
func NewWithCookies(cfg config.APIConfig) *Client {
	c := New(cfg)
	// cookiejar.New only fails on a bad PublicSuffixList, and nil is valid
	c.httpClient.Jar, _ = cookiejar.New(nil)
	return c
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string `json:"token"`
}

// LogoutRequest represents the logout request body
type LogoutRequest struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	reqBody := LoginRequest{
		Email:    email,
		Password: password,
	}
	if err := c.validate.Struct(reqBody); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	var loginResp LoginResponse
	if err := c.post(ctx, "login", PathLogin, reqBody, nil, &loginResp); err != nil {
		return nil, err
	}

	if loginResp.Token == "" {
		return nil, ErrMissingToken
	}

	return &loginResp, nil
}

// Logout tells the backend to end the session for token. auth, when not
// nil, attaches the current credentials to the request.
func (c *Client) Logout(ctx context.Context, token string, auth Authorizer) error {
	return c.post(ctx, "logout", PathLogout, LogoutRequest{Token: token}, auth, nil)
}

func (c *Client) post(ctx context.Context, op, path string, body any, auth Authorizer, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth != nil {
		auth.Authorize(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
