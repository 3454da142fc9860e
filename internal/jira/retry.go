package jira

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Transient failures are retried inside a short window so a brief network
// blip or rate-limit response doesn't fail a whole run. Anything still
// failing after the window surfaces to the caller.
const transientRetryMaxElapsed = 30 * time.Second

func newTransientBackoff(ctx context.Context) backoff.BackOff {
	// BackOff implementations are stateful; always return a fresh instance.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = transientRetryMaxElapsed
	return backoff.WithContext(bo, ctx)
}

// isRetryableNetError returns true if the error is a transient transport
// error worth another attempt.
func isRetryableNetError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	// Network transient errors (brief blips, not persistent failures)
	if strings.Contains(errStr, "connection reset") {
		return true
	}
	if strings.Contains(errStr, "connection refused") {
		return true
	}
	if strings.Contains(errStr, "broken pipe") {
		return true
	}
	// Go net package timeout on read/write
	if strings.Contains(errStr, "i/o timeout") {
		return true
	}
	// Per-request http.Client timeout, distinct from context cancellation
	if strings.Contains(errStr, "client.timeout exceeded") {
		return true
	}
	if strings.Contains(errStr, "tls handshake timeout") {
		return true
	}
	return false
}

// isRetryableStatus returns true for rate limiting and transient
// server-side failures.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
