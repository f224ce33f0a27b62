// Package apiclient is the JSON-over-HTTP client of the rental REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rentalweb/internal/domain"
)

const DefaultBaseURL = "http://localhost:8000/api"

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx answer from the API. Message comes from the body's
// "message" field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rental api: %d %s", e.Status, e.Message)
}

// Observer is told about every finished call.
type Observer func(operation string, status int, elapsed time.Duration)

type Client struct {
	base     *url.URL
	http     *http.Client
	observer Observer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New builds a client for baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must be http or https", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: 15 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type ctxKey int

const (
	tokenKey ctxKey = iota
	requestIDKey
)

// WithToken attaches the caller's API bearer token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	if strings.TrimSpace(token) == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey, token)
}

// WithRequestID forwards the inbound request id to the API.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

type call struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    any
	out     any
	headers map[string]string
}

func (c *Client) do(ctx context.Context, cl call) error {
	// cl.path is already escaped
	u, err := url.Parse(strings.TrimRight(c.base.String(), "/") + cl.path)
	if err != nil {
		return fmt.Errorf("%s: build url: %w", cl.op, err)
	}
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", cl.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok, ok := ctx.Value(tokenKey).(string); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		req.Header.Set("X-Request-ID", rid)
	}
	for k, v := range cl.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(cl.op, 0, start)
		return fmt.Errorf("%s: %w", cl.op, err)
	}
	defer resp.Body.Close()
	c.observe(cl.op, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", cl.op, err)
	}
	if err := decode(raw, cl.out); err != nil {
		return fmt.Errorf("%s: decode body: %w", cl.op, err)
	}
	return nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.observer != nil {
		c.observer(op, status, time.Since(start))
	}
}

// decode unwraps an optional {"data": ...} envelope.
func decode(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err == nil {
			if data, ok := env["data"]; ok && len(bytes.TrimSpace(data)) > 0 && string(data) != "null" {
				return json.Unmarshal(data, out)
			}
		}
	}
	return json.Unmarshal(raw, out)
}

func errorMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if m := strings.TrimSpace(body.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(body.Error); m != "" {
			return m
		}
	}
	return http.StatusText(status)
}

// ToDomain maps a client error onto the domain error kinds.
func ToDomain(err error, resource string) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return domain.SubmissionError{Msg: "rental API is unreachable", Err: err}
	}
	switch apiErr.Status {
	case http.StatusNotFound:
		return domain.NotFoundError{Resource: resource, Err: err}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ValidationError{Msg: apiErr.Message, Err: err}
	case http.StatusConflict:
		return domain.ConflictError{Resource: resource, Msg: apiErr.Message, Err: err}
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.UnauthorizedError{Msg: apiErr.Message}
	default:
		return domain.SubmissionError{Msg: apiErr.Message, Err: err}
	}
}
