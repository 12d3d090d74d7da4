package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/goliatone/go-formwizard/pkg/persistence"
)

// TokenKey is the store key used for the session token.
const TokenKey = "token"

// ErrNoToken is returned when no session token has been stored.
var ErrNoToken = errors.New("auth: no token stored")

// TokenStore keeps the bearer token between sessions.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// StoredTokens keeps the token in a persistence.Store.
type StoredTokens struct {
	store persistence.Store
	key   string
}

// StoreTokens returns a TokenStore saving under key, or TokenKey when empty.
func StoreTokens(store persistence.Store, key string) *StoredTokens {
	if strings.TrimSpace(key) == "" {
		key = TokenKey
	}
	return &StoredTokens{store: store, key: key}
}

// Token implements TokenStore.
func (s *StoredTokens) Token(ctx context.Context) (string, error) {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, persistence.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("auth: read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// SetToken implements TokenStore.
func (s *StoredTokens) SetToken(ctx context.Context, token string) error {
	if err := s.store.Put(ctx, s.key, []byte(token)); err != nil {
		return fmt.Errorf("auth: write token: %w", err)
	}
	return nil
}

// ClearToken implements TokenStore.
func (s *StoredTokens) ClearToken(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("auth: clear token: %w", err)
	}
	return nil
}

// Claims is the subset of token claims shown to the user.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token expiry lies before now. Tokens without
// an expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	UserID string `json:"id,omitempty"`
}

// ParseClaims decodes token without verifying its signature. The service is
// the only verifier; the result is for display only.
func ParseClaims(token string) (Claims, error) {
	var parsed sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &parsed); err != nil {
		return Claims{}, fmt.Errorf("auth: parse token: %w", err)
	}
	out := Claims{
		Subject: parsed.Subject,
		Email:   parsed.Email,
		Name:    parsed.Name,
	}
	if out.Subject == "" {
		out.Subject = parsed.UserID
	}
	if parsed.IssuedAt != nil {
		out.IssuedAt = parsed.IssuedAt.Time
	}
	if parsed.ExpiresAt != nil {
		out.ExpiresAt = parsed.ExpiresAt.Time
	}
	return out, nil
}
