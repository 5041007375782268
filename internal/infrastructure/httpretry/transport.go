package httpretry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Policy describes how many times and how long to wait between attempts.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Statuses       []int
}

// DefaultPolicy is five attempts, 1s doubling up to 30s, on 429 and 5xx gateway errors.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    5,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Statuses: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// Backoff returns the wait after the n-th failed attempt (0-based).
func (p Policy) Backoff(n int) time.Duration {
	if n < 0 {
		n = 0
	}
	delay := p.InitialBackoff
	for i := 0; i < n; i++ {
		delay *= 2
		if p.MaxBackoff > 0 && delay >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	return p.capped(delay)
}

// Retryable reports whether status should be attempted again.
func (p Policy) Retryable(status int) bool {
	for _, s := range p.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (p Policy) capped(d time.Duration) time.Duration {
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// Transport retries requests on transport errors and retryable statuses.
type Transport struct {
	base   http.RoundTripper
	policy Policy
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
}

// NewTransport wraps base (http.DefaultTransport when nil) with policy.
func NewTransport(base http.RoundTripper, policy Policy, log *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Transport{
		base:   base,
		policy: policy,
		logger: log,
		sleep:  sleepContext,
		now:    time.Now,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; attempt < t.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := t.delay(attempt-1, resp)
			if resp != nil {
				drain(resp)
			}
			t.logger.Warn("retrying request",
				"method", req.Method,
				"url", req.URL.Redacted(),
				"attempt", attempt+1,
				"delay", delay,
				"cause", cause(resp, err))
			if sErr := t.sleep(ctx, delay); sErr != nil {
				return nil, sErr
			}
		}

		attemptReq, rErr := rewind(req, attempt)
		if rErr != nil {
			return nil, rErr
		}

		resp, err = t.base.RoundTrip(attemptReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			continue
		}
		if !t.policy.Retryable(resp.StatusCode) {
			return resp, nil
		}
	}

	if err != nil {
		return nil, fmt.Errorf("after %d attempts: %w", t.policy.MaxAttempts, err)
	}
	return resp, nil
}

// delay prefers a Retry-After hint on resp over the computed backoff.
func (t *Transport) delay(n int, resp *http.Response) time.Duration {
	if resp != nil {
		if d, ok := retryAfter(resp.Header.Get("Retry-After"), t.now()); ok {
			return t.policy.capped(d)
		}
	}
	return t.policy.Backoff(n)
}

func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("retry %s %s: request body cannot be replayed", req.Method, req.URL.Redacted())
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("replay body: %w", err)
	}
	clone.Body = body
	return clone, nil
}

func retryAfter(value string, now time.Time) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	at, err := http.ParseTime(value)
	if err != nil {
		return 0, false
	}
	d := at.Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}

func cause(resp *http.Response, err error) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return resp.Status
	}
	return ""
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
