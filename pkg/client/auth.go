package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRefreshSkew is how long before expiry a cached token is replaced.
const DefaultRefreshSkew = 30 * time.Second

// TokenSource supplies bearer tokens. Invalidate drops a cached token so the
// next Token call fetches a fresh one.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// StaticToken is a TokenSource for a token obtained elsewhere.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }
func (t StaticToken) Invalidate()                           {}

// PasswordTokenSource logs in with stored credentials and caches the token
// until it is within Skew of expiring.
type PasswordTokenSource struct {
	client   *Client
	username string
	password string
	Skew     time.Duration

	mu      sync.Mutex
	token   string
	expires time.Time
	now     func() time.Time
}

// NewPasswordTokenSource returns a token source that logs in through c.
func NewPasswordTokenSource(c *Client, username, password string) *PasswordTokenSource {
	return &PasswordTokenSource{
		client:   c,
		username: username,
		password: password,
		Skew:     DefaultRefreshSkew,
		now:      time.Now,
	}
}

func (s *PasswordTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && (s.expires.IsZero() || s.now().Add(s.Skew).Before(s.expires)) {
		return s.token, nil
	}

	token, err := s.client.Login(ctx, s.username, s.password)
	if err != nil {
		return "", err
	}
	s.token = token
	s.expires = tokenExpiry(token)
	return token, nil
}

func (s *PasswordTokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expires = time.Time{}
	s.mu.Unlock()
}

// tokenExpiry reads exp without verifying the signature. A zero time means
// the token carries no readable expiry.
func tokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// authTransport attaches the bearer token and retries once on 401 with a
// fresh token.
type authTransport struct {
	base   http.RoundTripper
	source TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	resp, err := t.send(req, body)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	resp.Body.Close()
	t.source.Invalidate()
	return t.send(req, body)
}

func (t *authTransport) send(orig *http.Request, body []byte) (*http.Response, error) {
	token, err := t.source.Token(orig.Context())
	if err != nil {
		return nil, fmt.Errorf("obtain token: %w", err)
	}

	req := orig.Clone(orig.Context())
	if body != nil {
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(req)
}
