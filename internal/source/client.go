package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"hwbot/internal/failure"
	logx "hwbot/pkg/logx"
)

const maxResponseBodySize = 1 << 20 // 1MB

// Failure details for KindSourceUnavailable.
const (
	ReasonRequest    = "request"
	ReasonTransport  = "transport"
	ReasonHTTPStatus = "http_status"
	ReasonDecode     = "decode"
)

// Payload is the decoded, still untrusted response body.
type Payload struct {
	v any
}

// NewPayload wraps an already-decoded value. Used by tests and fakes.
func NewPayload(v any) Payload { return Payload{v: v} }

// Value returns the decoded JSON value (map[string]any, []any, string, ...).
func (p Payload) Value() any { return p.v }

// Fetcher is what the poll loop needs from a source.
type Fetcher interface {
	Fetch(ctx context.Context, since int64) (Payload, error)
}

type Config struct {
	Endpoint string
	Token    string
	// Timeout bounds a single request. Zero leaves the transport default.
	Timeout time.Duration
}

// Client talks to the homework status endpoint.
type Client struct {
	cfg  Config
	http *http.Client
	log  logx.Logger
	now  func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClock overrides time.Now (used when since is not supplied).
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func NewClient(cfg Config, log logx.Logger, opts ...Option) *Client {
	if log.IsZero() {
		log = logx.Nop()
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{},
		log:  log,
		now:  time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch asks for records changed at or after since (Unix seconds). A
// non-positive since means "now".
func (c *Client) Fetch(ctx context.Context, since int64) (Payload, error) {
	if since <= 0 {
		since = c.now().Unix()
	}
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return Payload{}, failure.Wrap(failure.KindSourceUnavailable, "source.fetch", ReasonRequest, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(since, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Payload{}, failure.Wrap(failure.KindSourceUnavailable, "source.fetch", ReasonRequest, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Authorization", "OAuth "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	log := c.log.With(logx.String("request_id", reqID), logx.Int64("from_date", since))
	log.Debug("request sent")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Payload{}, failure.Wrap(failure.KindSourceUnavailable, "source.fetch", ReasonTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Payload{}, failure.Wrap(failure.KindSourceUnavailable, "source.fetch", ReasonTransport,
			fmt.Errorf("read body: %w", err))
	}
	log.Debug("response received", logx.Int("status", resp.StatusCode), logx.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Payload{}, failure.New(failure.KindSourceUnavailable, "source.fetch", ReasonHTTPStatus).
			WithValue(resp.StatusCode)
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return Payload{}, failure.Wrap(failure.KindSourceUnavailable, "source.fetch", ReasonDecode, err)
	}
	if dec.More() {
		return Payload{}, failure.Wrap(failure.KindSourceUnavailable, "source.fetch", ReasonDecode,
			fmt.Errorf("trailing data after JSON value"))
	}
	return Payload{v: v}, nil
}
