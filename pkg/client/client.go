// Package client is a Go client for the recipe-sharing API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	anonymous  *http.Client
	source     TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.anonymous = hc }
}

// WithTokenSource authenticates requests with tokens from src.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) { c.source = src }
}

// WithCredentials logs in with username and password on first use and
// refreshes the token before it expires.
func WithCredentials(username, password string) Option {
	return func(c *Client) { c.source = NewPasswordTokenSource(c, username, password) }
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/") + "/api/v1",
		anonymous: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = c.anonymous
	if c.source != nil {
		base := c.anonymous.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		authed := *c.anonymous
		authed.Transport = &authTransport{base: base, source: c.source}
		c.httpClient = &authed
	}
	return c
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username, password string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/user/signup", nil, credentials{username, password}, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login returns a bearer token for the credentials.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/user/login", nil, credentials{username, password}, &out, false); err != nil {
		return "", err
	}
	return out.Token, nil
}

// GetUser fetches a user's public profile.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRecipes lists recipes matching q.
func (c *Client) ListRecipes(ctx context.Context, q ListQuery) ([]Recipe, error) {
	params := url.Values{}
	for k, v := range map[string]string{"sortBy": q.SortBy, "sortOrder": q.SortOrder, "author": q.Author, "tag": q.Tag} {
		if v != "" {
			params.Set(k, v)
		}
	}

	out := []Recipe{}
	if err := c.do(ctx, http.MethodGet, "/recipes", params, nil, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRecipe fetches one recipe.
func (c *Client) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	return c.recipe(ctx, http.MethodGet, "/recipes/"+url.PathEscape(id), nil, false)
}

// CreateRecipe creates a recipe authored by the authenticated user.
func (c *Client) CreateRecipe(ctx context.Context, in RecipeInput) (*Recipe, error) {
	return c.recipe(ctx, http.MethodPost, "/recipes", in, true)
}

// UpdateRecipe applies patch to a recipe the authenticated user authored.
func (c *Client) UpdateRecipe(ctx context.Context, id string, patch RecipePatch) (*Recipe, error) {
	return c.recipe(ctx, http.MethodPatch, "/recipes/"+url.PathEscape(id), patch, true)
}

// DeleteRecipe deletes a recipe the authenticated user authored.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(id), nil, nil, nil, true)
}

// ToggleLike likes the recipe, or unlikes it if already liked.
func (c *Client) ToggleLike(ctx context.Context, id string) (*Recipe, error) {
	return c.recipe(ctx, http.MethodPost, "/recipes/"+url.PathEscape(id)+"/like", nil, true)
}

func (c *Client) recipe(ctx context.Context, method, path string, body interface{}, auth bool) (*Recipe, error) {
	var out Recipe
	if err := c.do(ctx, method, path, nil, body, &out, auth); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, auth bool) error {
	if auth && c.source == nil {
		return fmt.Errorf("%s %s requires credentials", method, path)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	hc := c.anonymous
	if auth {
		hc = c.httpClient
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
