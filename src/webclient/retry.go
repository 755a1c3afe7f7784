package webclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = 1500 * time.Millisecond
)

// Policy bounds how an upstream call is retried. Delay is fixed between attempts.
type Policy struct {
	Attempts int
	Delay    time.Duration
	// RetryClientErrors keeps retrying non-5xx failures (4xx) with the same delay
	// instead of failing fast. Defaults to true to match the deployed relay.
	RetryClientErrors bool
	// OnRetry, when set, is called before sleeping ahead of the next attempt.
	OnRetry func(attempt int, err error)
}

// DefaultPolicy is three attempts, 1.5s apart, 4xx included.
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay, RetryClientErrors: true}
}

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Status >= 500 && e.Status < 600 {
		return fmt.Sprintf("upstream HTTP %d", e.Status)
	}
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, body)
}

// StatusCode exposes the upstream status for callers that only know the interface.
func (e *StatusError) StatusCode() int { return e.Status }

// Retryable reports whether the status is a server-side failure.
func (e *StatusError) Retryable() bool { return e.Status >= 500 && e.Status < 600 }

// AttemptFunc performs one request. err is reserved for transport failures;
// an HTTP error status is reported through status and body.
type AttemptFunc func() (status int, body []byte, err error)

// DoWithRetry runs fn until it returns a 2xx status or the policy runs out.
// Transport errors and 5xx are always retried. Other statuses are retried only
// when p.RetryClientErrors is set. The last observed error is returned.
func DoWithRetry(ctx context.Context, p Policy, fn AttemptFunc) (int, []byte, error) {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if p.Delay < 0 {
		p.Delay = 0
	}

	var (
		lastStatus int
		lastErr    error
	)
	for i := 0; i < p.Attempts; i++ {
		status, body, err := fn()
		lastStatus = status
		switch {
		case err != nil:
			lastErr = err
		case status >= 200 && status < 300:
			return status, body, nil
		default:
			serr := &StatusError{Status: status, Body: string(body)}
			lastErr = serr
			if !serr.Retryable() && !p.RetryClientErrors {
				return status, body, serr
			}
		}

		if i == p.Attempts-1 {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(i+1, lastErr)
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return lastStatus, nil, errors.Join(lastErr, err)
		}
	}

	if lastErr == nil {
		lastErr = errors.New("unknown upstream failure")
	}
	return lastStatus, nil, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
