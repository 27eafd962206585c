package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-pubcontrol/pkg/interfaces/logger"
	"github.com/goliatone/go-pubcontrol/pkg/transport"
)

const maxErrorBody = 1 << 10

// Transport posts publish requests to a GRIP control endpoint.
type Transport struct {
	publishURI string
	headers    map[string]string
	timeout    time.Duration
	client     *http.Client
	logger     logger.Logger
}

var _ transport.Transport = (*Transport)(nil)

type Option func(*Transport)

// WithClient allows injecting a custom HTTP client.
func WithClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithLogger sets the logger used for delivery diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(t *Transport) {
		t.logger = logger.OrNop(l)
	}
}

// WithHeaders adds static headers to every request. Per-call headers win.
func WithHeaders(headers map[string]string) Option {
	return func(t *Transport) {
		for k, v := range headers {
			t.headers[k] = v
		}
	}
}

// New builds a transport for controlURI; requests go to <controlURI>/publish/.
func New(controlURI string, opts ...Option) *Transport {
	t := &Transport{
		publishURI: PublishURI(controlURI),
		headers:    map[string]string{},
		timeout:    10 * time.Second,
		logger:     &logger.Nop{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: t.timeout}
	}
	return t
}

// PublishURI normalizes a control URI into its publish endpoint.
func PublishURI(controlURI string) string {
	return strings.TrimSuffix(controlURI, "/") + "/publish/"
}

func (t *Transport) PublishURI() string { return t.publishURI }

// Publish sends content as JSON. Request failures and non-2xx responses are
// reported as *Error.
func (t *Transport) Publish(ctx context.Context, headers map[string]string, content transport.Content) error {
	body, err := json.Marshal(content)
	if err != nil {
		return &Error{URI: t.publishURI, Err: fmt.Errorf("encode content: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.publishURI, bytes.NewReader(body))
	if err != nil {
		return &Error{URI: t.publishURI, Err: fmt.Errorf("build request: %w", err)}
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return &Error{URI: t.publishURI, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		io.Copy(io.Discard, resp.Body)
		return &Error{URI: t.publishURI, StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	io.Copy(io.Discard, resp.Body)

	t.logger.Debug("publish request accepted",
		logger.Field{Key: "uri", Value: t.publishURI},
		logger.Field{Key: "status", Value: resp.StatusCode},
		logger.Field{Key: "items", Value: len(content.Items)},
	)
	return nil
}

// Error is returned when a publish request fails or the endpoint rejects it.
type Error struct {
	URI        string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("httptransport: %s returned status %d", e.URI, e.StatusCode)
		if body := strings.TrimSpace(e.Body); body != "" {
			msg += ": " + body
		}
		return msg
	}
	return fmt.Sprintf("httptransport: request to %s failed: %v", e.URI, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
