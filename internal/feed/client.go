package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"episodeview/internal/episode"
)

// ErrMalformed is returned when a payload is not valid JSON or does not have
// the expected shape.
var ErrMalformed = errors.New("malformed episode payload")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %s", e.URL, e.Status)
}

// Options configures a Client.
type Options struct {
	Timeout   time.Duration
	Transport TransportOptions
}

// Client fetches episode pages over HTTP. Local files are reachable through
// file:// URLs.
type Client struct {
	http    *http.Client
	metrics *Metrics
}

// New builds a client with a retrying, rate-limited transport.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Transport.Metrics == nil {
		opts.Transport.Metrics = NewMetrics()
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))

	tr := NewRetryingLimiterTransport(opts.Transport)
	tr.Base = base
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout, Transport: tr},
		metrics: opts.Transport.Metrics,
	}
}

// Metrics returns the request counters shared with the transport.
func (c *Client) Metrics() *Metrics { return c.metrics }

// ResolveLocation turns a path or URL into something the client can GET.
// Plain paths become absolute file:// URLs.
func ResolveLocation(loc string) (string, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return "", errors.New("empty location")
	}
	lower := strings.ToLower(loc)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "file://") {
		return loc, nil
	}
	abs, err := filepath.Abs(loc)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", loc, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, Code: res.StatusCode, Status: res.Status}
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}
	return body, nil
}

type pagePayload struct {
	Episodes *[]episode.Episode `json:"episodes"`
}

// FetchPage loads one remote page. The page must be an object with an
// episodes array.
func (c *Client) FetchPage(ctx context.Context, rawURL string) ([]episode.Episode, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	var payload pagePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, rawURL, err)
	}
	if payload.Episodes == nil {
		return nil, fmt.Errorf("%w: %s: no episodes array", ErrMalformed, rawURL)
	}
	return *payload.Episodes, nil
}

// FetchBackup loads the local backup. It accepts a bare array of records or
// an object with an episodes array; an object without one yields no records.
func (c *Client) FetchBackup(ctx context.Context, location string) ([]episode.Episode, error) {
	rawURL, err := ResolveLocation(location)
	if err != nil {
		return nil, err
	}
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return decodeBackup(rawURL, body)
}

func decodeBackup(rawURL string, body []byte) ([]episode.Episode, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: %s: empty body", ErrMalformed, rawURL)
	}
	switch trimmed[0] {
	case '[':
		var eps []episode.Episode
		if err := json.Unmarshal(trimmed, &eps); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, rawURL, err)
		}
		return eps, nil
	case '{':
		var payload pagePayload
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, rawURL, err)
		}
		if payload.Episodes == nil {
			return []episode.Episode{}, nil
		}
		return *payload.Episodes, nil
	}
	return nil, fmt.Errorf("%w: %s: expected array or object", ErrMalformed, rawURL)
}
