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

// Package auth provides the token source the rancher platform client
// authenticates with: either a static token, or a username/password pair
// whose derived token is refreshed and cached across concurrent callers.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// expirySafetyMargin is subtracted from a token's reported lifetime so
// Token never hands out a credential that expires mid-request.
const expirySafetyMargin = 30 * time.Second

// Refresher performs a platform login and returns a fresh token and its
// absolute expiry.
type Refresher interface {
	Refresh(ctx context.Context) (token string, expiresAt time.Time, err error)
}

// TokenSource serves a platform auth token, either a fixed static value or
// one obtained from a Refresher and cached until near expiry. Concurrent
// callers observing an expired token collapse onto a single in-flight
// refresh via singleflight, matching the "acquire, re-check, refresh,
// release" discipline of a single-permit semaphore.
type TokenSource struct {
	static string

	refresher Refresher
	group     singleflight.Group

	mu      sync.RWMutex
	token   string
	expires time.Time
}

// NewStatic returns a TokenSource that always serves token verbatim.
func NewStatic(token string) *TokenSource {
	return &TokenSource{static: token}
}

// NewRefreshing returns a TokenSource backed by r.
func NewRefreshing(r Refresher) *TokenSource {
	return &TokenSource{refresher: r}
}

// Token returns a valid auth token, refreshing it first if necessary.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if s.static != "" {
		return s.static, nil
	}

	s.mu.RLock()
	tok, exp := s.token, s.expires
	s.mu.RUnlock()

	if tok != "" && time.Now().Before(exp.Add(-expirySafetyMargin)) {
		return tok, nil
	}

	result, err, _ := s.group.Do("token", func() (interface{}, error) {
		// Re-check under the permit: another goroutine may have already
		// refreshed while we were waiting to enter this function.
		s.mu.RLock()
		tok, exp := s.token, s.expires
		s.mu.RUnlock()
		if tok != "" && time.Now().Before(exp.Add(-expirySafetyMargin)) {
			return tok, nil
		}

		newTok, newExp, err := s.refresher.Refresh(ctx)
		if err != nil {
			return "", fmt.Errorf("refresh auth token: %w", err)
		}

		s.mu.Lock()
		s.token, s.expires = newTok, newExp
		s.mu.Unlock()

		return newTok, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
