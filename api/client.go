// Package api is the thin HTTP client for the platform's credential
// endpoints. Every failure it returns is an *apierror.Normalized.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/craftsite/go-auth-client/apierror"
	"github.com/rs/zerolog"
)

const (
	loginPath  = "/v1/auth/login"
	signupPath = "/v1/auth/signup"

	contentTypeJSON = "application/json; charset=utf-8"
)

// LoginRequest carries the credentials for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Tokens is the pair issued on successful login.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResponse is the login endpoint's success body.
type LoginResponse struct {
	Message string `json:"message"`
	Tokens  Tokens `json:"tokens"`
}

// SignupRequest carries the identity fields for account creation.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	SubDomain string `json:"subDomain,omitempty"`
}

// SignupResponse is the signup endpoint's success body. Signup never
// returns tokens; the caller logs in afterwards.
type SignupResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Client talks to the platform API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for tests
// and hosts with custom transports).
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a Client for the given API base URL.
func NewClient(baseURL string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, request LoginRequest) (*LoginResponse, error) {
	var response LoginResponse
	if err := c.post(ctx, loginPath, request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Signup creates an account. No tokens are issued.
func (c *Client) Signup(ctx context.Context, request SignupRequest) (*SignupResponse, error) {
	var response SignupResponse
	if err := c.post(ctx, signupPath, request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *Client) post(ctx context.Context, path string, request, response any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return apierror.FromTransport(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apierror.FromTransport(err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Str("path", path).Err(err).Msg("request failed before a response arrived")
		return apierror.FromTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierror.FromTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		normalized := apierror.Normalize(resp.StatusCode, raw)
		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("kind", string(normalized.Kind)).
			Msg("request rejected")
		return normalized
	}

	if err := json.Unmarshal(raw, response); err != nil {
		return apierror.FromTransport(err)
	}
	return nil
}
