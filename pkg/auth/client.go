// Package auth talks to the BizCraft account service: sign-up, login and the
// bearer token kept between sessions.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the account service address used when none is given.
const DefaultBaseURL = "http://localhost:5000"

const (
	registerPath = "/api/v1/auth/register"
	loginPath    = "/api/v1/auth/login"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response mirrors the service envelope.
type Response struct {
	Success bool     `json:"success"`
	Msg     string   `json:"msg"`
	Payload *Payload `json:"payload,omitempty"`
}

// Payload carries the data of a successful call.
type Payload struct {
	Token string `json:"token,omitempty"`
}

// Result is returned by successful calls. Token is only set by Login.
type Result struct {
	Message string
	Token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenStore keeps the token issued by Login.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		c.tokens = store
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client calls the account service. Requests are never retried.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenStore
	logger *zap.Logger
}

// NewClient builds a client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string, options ...Option) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("auth: invalid base url %q", baseURL)
	}
	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Register creates an account. No token is stored.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Result, error) {
	if err := validateRequest("register", req); err != nil {
		return Result{}, err
	}
	resp, err := c.post(ctx, "register", registerPath, req)
	if err != nil {
		return Result{}, err
	}
	return Result{Message: resp.Msg}, nil
}

// Login authenticates and, on success, stores the issued token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (Result, error) {
	if err := validateRequest("login", req); err != nil {
		return Result{}, err
	}
	resp, err := c.post(ctx, "login", loginPath, req)
	if err != nil {
		return Result{}, err
	}
	result := Result{Message: resp.Msg}
	if resp.Payload != nil {
		result.Token = resp.Payload.Token
	}
	if result.Token != "" && c.tokens != nil {
		if err := c.tokens.SetToken(ctx, result.Token); err != nil {
			c.logger.Warn("token store failed", zap.Error(err))
		}
	}
	return result, nil
}

// Logout forgets the stored token.
func (c *Client) Logout(ctx context.Context) error {
	if c.tokens == nil {
		return nil
	}
	return c.tokens.ClearToken(ctx)
}

func (c *Client) post(ctx context.Context, op, path string, body any) (Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, &Error{Kind: KindInvalid, Op: op, Message: "invalid request", Err: err}
	}
	endpoint := c.base.JoinPath(path).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, &Error{Kind: KindUnreachable, Op: op, Message: UnreachableMessage, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Info("auth request failed", zap.String("op", op), zap.String("url", endpoint), zap.Error(err))
		return Response{}, &Error{Kind: KindUnreachable, Op: op, Message: UnreachableMessage, Err: err}
	}
	defer res.Body.Close()

	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		c.logger.Info("auth response unreadable", zap.String("op", op), zap.Int("status", res.StatusCode), zap.Error(err))
		return Response{}, &Error{Kind: KindUnreachable, Op: op, Message: UnreachableMessage, Status: res.StatusCode, Err: err}
	}
	if !out.Success {
		msg := strings.TrimSpace(out.Msg)
		if msg == "" {
			msg = DefaultRejectedMessage
		}
		return Response{}, &Error{Kind: KindRejected, Op: op, Message: msg, Status: res.StatusCode}
	}
	return out, nil
}

// IsUnreachable reports whether err is an auth error caused by transport.
func IsUnreachable(err error) bool {
	var aerr *Error
	return errors.As(err, &aerr) && aerr.Kind == KindUnreachable
}
