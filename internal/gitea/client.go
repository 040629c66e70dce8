// SPDX-License-Identifier: MIT

// Package gitea is a minimal client for the Gitea HTTP API, scoped to
// the calls forgebridge proxies on behalf of authenticated callers.
package gitea

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client calls a Gitea instance. The caller token is supplied per call,
// never stored, since every request may act on behalf of a different
// caller.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client for the given base URL.
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// User is the subset of Gitea's user object forgebridge exposes.
type User struct {
	ID        int64  `json:"id"`
	UserName  string `json:"login"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Repository is the subset of Gitea's repository object forgebridge exposes.
type Repository struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	HTMLURL     string `json:"html_url"`
}

// APIError reports a non-2xx response from Gitea.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gitea: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("gitea: %s (status %d)", e.Message, e.StatusCode)
}

// CurrentUser returns the user the token authenticates as.
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.get(ctx, "/api/v1/user", token, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListRepos returns the repositories owned by or accessible to the
// token's user.
func (c *Client) ListRepos(ctx context.Context, token string) ([]Repository, error) {
	var repos []Repository
	if err := c.get(ctx, "/api/v1/user/repos", token, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&body)
		return &APIError{StatusCode: res.StatusCode, Message: body.Message}
	}

	return json.NewDecoder(res.Body).Decode(out)
}
