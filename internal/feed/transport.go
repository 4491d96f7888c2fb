package feed

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time        { return time.Now() }
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// SleepContext waits for d or until ctx is done, whichever comes first.
func (RealClock) SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SleepContext pauses on c for d and returns ctx's error if ctx ends first.
// Clocks without their own SleepContext sleep the full duration and report
// the context state afterwards.
func SleepContext(ctx context.Context, c Clock, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	if cs, ok := c.(interface {
		SleepContext(context.Context, time.Duration) error
	}); ok {
		return cs.SleepContext(ctx, d)
	}
	c.Sleep(d)
	return ctx.Err()
}

// Limit defines a simple rate limit: RPS with a burst capacity.
type Limit struct {
	RPS   float64
	Burst int
}

// TransportOptions configures the retrying, rate-limited transport.
type TransportOptions struct {
	RetryMax    int
	BackoffBase time.Duration
	BackoffCap  time.Duration
	JitterFn    func(base time.Duration, attempt int) time.Duration
	Clock       Clock
	Metrics     *Metrics

	// DefaultLimit applies to hosts without an entry in HostLimits.
	DefaultLimit Limit
	HostLimits   map[string]Limit
}

// DefaultTransportOptions suits a handful of static JSON pages on one CDN
// host: a small retry budget and a generous rate ceiling.
func DefaultTransportOptions() TransportOptions {
	return TransportOptions{
		RetryMax:     2,
		BackoffBase:  250 * time.Millisecond,
		BackoffCap:   5 * time.Second,
		Clock:        RealClock{},
		JitterFn:     fullJitter,
		Metrics:      NewMetrics(),
		DefaultLimit: Limit{RPS: 20, Burst: 20},
	}
}

func fullJitter(base time.Duration, _ int) time.Duration {
	if base <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(base.Nanoseconds()))
}

// tokenBucket is a per-host rate limiter with fractional tokens.
type tokenBucket struct {
	mu     sync.Mutex
	rps    float64
	burst  float64
	tokens float64
	last   time.Time
	clock  Clock
}

func newTokenBucket(lim Limit, clock Clock) *tokenBucket {
	burst := float64(max(1, lim.Burst))
	return &tokenBucket{
		rps:    lim.RPS,
		burst:  burst,
		tokens: burst,
		last:   clock.Now(),
		clock:  clock,
	}
}

func (tb *tokenBucket) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tb.mu.Lock()
		now := tb.clock.Now()
		if delta := now.Sub(tb.last).Seconds() * tb.rps; delta > 0 {
			tb.tokens = math.Min(tb.burst, tb.tokens+delta)
			tb.last = now
		}
		if tb.tokens >= 1 {
			tb.tokens--
			tb.mu.Unlock()
			return nil
		}
		wait := 5 * time.Millisecond
		if tb.rps > 0 {
			wait = max(wait, time.Duration((1-tb.tokens)/tb.rps*float64(time.Second)))
		}
		tb.mu.Unlock()
		if err := SleepContext(ctx, tb.clock, wait); err != nil {
			return err
		}
	}
}

// RetryingLimiterTransport wraps a base RoundTripper with host-based rate
// limiting and retries on transient failures. Only idempotent requests are
// retried.
type RetryingLimiterTransport struct {
	Base     http.RoundTripper
	Opts     TransportOptions
	limMu    sync.Mutex
	limiters map[string]*tokenBucket
}

func NewRetryingLimiterTransport(opts TransportOptions) *RetryingLimiterTransport {
	return &RetryingLimiterTransport{Opts: opts, limiters: make(map[string]*tokenBucket)}
}

func (t *RetryingLimiterTransport) limiter(host string) *tokenBucket {
	if host == "" {
		host = "_local_"
	}
	t.limMu.Lock()
	defer t.limMu.Unlock()
	if tb, ok := t.limiters[host]; ok {
		return tb
	}
	lim := t.Opts.DefaultLimit
	if v, ok := t.Opts.HostLimits[host]; ok {
		lim = v
	}
	if lim.RPS <= 0 {
		lim = Limit{RPS: 10, Burst: 10}
	}
	tb := newTokenBucket(lim, t.clock())
	t.limiters[host] = tb
	return tb
}

func (t *RetryingLimiterTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *RetryingLimiterTransport) clock() Clock {
	if t.Opts.Clock != nil {
		return t.Opts.Clock
	}
	return RealClock{}
}

func (t *RetryingLimiterTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	lim := t.limiter(req.URL.Host)
	metrics := t.Opts.Metrics
	if metrics != nil {
		metrics.IncRequest(req.URL.Host)
	}

	attempts := 1
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		attempts = max(1, t.Opts.RetryMax+1)
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := lim.Wait(req.Context()); err != nil {
			return nil, err
		}

		resp, err := t.base().RoundTrip(req)
		if err != nil {
			if metrics != nil {
				metrics.IncFailure()
			}
			if isTransientNetErr(err) && attempt < attempts-1 {
				lastErr = err
				if err := t.retryPause(req.Context(), t.backoff(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		if metrics != nil {
			metrics.IncStatus(resp.StatusCode)
		}
		if shouldRetryStatus(resp.StatusCode) && attempt < attempts-1 {
			wait := t.backoff(attempt)
			if ra := parseRetryAfter(resp.Header.Get("Retry-After"), t.clock().Now()); ra > 0 {
				wait = min(ra, t.backoffCap())
			}
			resp.Body.Close()
			if err := t.retryPause(req.Context(), wait); err != nil {
				return nil, err
			}
			continue
		}
		return resp, nil
	}
	if lastErr == nil {
		lastErr = errors.New("max retries exceeded")
	}
	return nil, lastErr
}

func (t *RetryingLimiterTransport) backoffCap() time.Duration {
	if t.Opts.BackoffCap > 0 {
		return t.Opts.BackoffCap
	}
	return 5 * time.Second
}

// backoff is base * 2^attempt plus jitter, capped.
func (t *RetryingLimiterTransport) backoff(attempt int) time.Duration {
	base := t.Opts.BackoffBase
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	limit := t.backoffCap()
	delay := min(time.Duration(float64(base)*math.Pow(2, float64(attempt))), limit)
	if t.Opts.JitterFn != nil {
		delay += t.Opts.JitterFn(delay, attempt)
	}
	return min(delay, limit)
}

func (t *RetryingLimiterTransport) retryPause(ctx context.Context, d time.Duration) error {
	if m := t.Opts.Metrics; m != nil {
		m.IncRetry()
		m.AddBackoff(d)
	}
	return SleepContext(ctx, t.clock(), d)
}

func isTransientNetErr(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") || strings.Contains(msg, "temporary") || strings.Contains(msg, "timeout")
}

func shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout
}

func parseRetryAfter(h string, now time.Time) time.Duration {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if when, err := http.ParseTime(h); err == nil {
		if d := when.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
