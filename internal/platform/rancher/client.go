/*
Copyright 2025 Konflux CI.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package rancher is the HTTP implementation of platform.Client against a
// Rancher-shaped multi-tenant cluster-management REST API.
package rancher

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rancherlabs/devops-project-operator/internal/platform"
	"github.com/rancherlabs/devops-project-operator/internal/platform/auth"
)

// Client talks to the platform's REST API over HTTP, retrying transient
// failures through retryablehttp's exponential backoff.
type Client struct {
	baseURL string
	tokens  *auth.TokenSource
	http    *retryablehttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithInsecureSkipVerify disables TLS certificate verification, for
// deployments pointed at a platform with a self-signed or internal CA.
func WithInsecureSkipVerify() Option {
	return func(c *Client) {
		transport := c.http.HTTPClient.Transport.(*http.Transport)
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{} //nolint:gosec
		}
		transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec
	}
}

// New builds a Client against baseURL, authenticating via tokens.
func New(baseURL string, tokens *auth.TokenSource, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 4
	rc.Logger = nil
	rc.HTTPClient.Transport = &http.Transport{}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		http:    rc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &platform.Error{Op: method + " " + path, Err: fmt.Errorf("encode request body: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &platform.Error{Op: method + " " + path, Err: fmt.Errorf("build request: %w", err)}
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return &platform.Error{Op: method + " " + path, Err: fmt.Errorf("obtain auth token: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &platform.Error{Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &platform.Error{
			Op:         method + " " + path,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(respBody))),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &platform.Error{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errNotFound is a sentinel used internally to distinguish "the server told
// us 404" from any other transport/decode failure, so callers above can
// translate it into the nil-return contract platform.Client specifies for
// not-found lookups.
var errNotFound = fmt.Errorf("platform: resource not found")

func isNotFound(err error) bool {
	return err == errNotFound
}

// loginRequest/loginResponse model the platform's username/password token
// exchange, consumed by auth.Refresher below.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Refresher adapts a Client's credentials exchange to auth.Refresher.
type Refresher struct {
	baseURL  string
	username string
	password string
	http     *retryablehttp.Client
}

// NewRefresher builds an auth.Refresher that logs in with username/password
// against baseURL.
func NewRefresher(baseURL, username, password string) *Refresher {
	return &Refresher{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		http:     retryablehttp.NewClient(),
	}
}

// Refresh implements auth.Refresher.
func (r *Refresher) Refresh(ctx context.Context) (string, time.Time, error) {
	body, err := json.Marshal(loginRequest{Username: r.username, Password: r.password})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("encode login request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v3-public/localProviders/local?action=login", bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("login request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, fmt.Errorf("login failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", time.Time{}, fmt.Errorf("decode login response: %w", err)
	}
	if lr.ExpiresAt.IsZero() {
		lr.ExpiresAt = time.Now().Add(12 * time.Hour)
	}
	return lr.Token, lr.ExpiresAt, nil
}
