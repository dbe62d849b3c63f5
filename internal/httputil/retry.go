// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the fetch stage.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultDelay       = 5 * time.Second
)

// Policy controls DoWithRetry. Zero values select 3 attempts and a 5 s delay.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Delay is the fixed wait between attempts.
	Delay time.Duration

	// OnRetry, when set, is called after each failed attempt that will be
	// retried, with the 1-based attempt number and the failure.
	OnRetry func(attempt int, err error)
}

func (p Policy) attempts() int {
	if p.MaxAttempts <= 0 {
		return defaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p Policy) delay() time.Duration {
	if p.Delay < 0 {
		return 0
	}
	if p.Delay == 0 {
		return defaultDelay
	}
	return p.Delay
}

// StatusError is returned for a final non-2xx response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// DoWithRetry executes req and retries transport errors and non-2xx
// responses with a fixed delay between attempts. On success the caller owns
// the response body. A non-2xx response is drained and closed before each
// retry; after the last attempt its status is reported as a *StatusError.
// If ctx is cancelled during a wait the function returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, p Policy) (*http.Response, error) {
	maxAttempts := p.attempts()

	var lastErr error
	for attempt := 1; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			err = &StatusError{StatusCode: resp.StatusCode, URL: req.URL.String()}
		}
		lastErr = err

		if attempt >= maxAttempts {
			return nil, fmt.Errorf("giving up after %d attempts: %w", attempt, lastErr)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.delay()):
		}
	}
}
