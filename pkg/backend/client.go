package backend

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

	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/metrics"
)

const (
	defaultTimeout             = 10 * time.Second
	errorBodyReadLimit   int64 = 4096
	successBodyReadLimit int64 = 4 << 20
)

var errBaseURLRequired = errors.New("backend base url is required")

// Client talks to the book-bean REST API. Every response must use the
// {success, message, data} envelope; anything else is a decode error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.BackendMetrics
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout replaces the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

func WithMetrics(m *metrics.BackendMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) { c.logg = logg }
}

// NewClient builds the API client for the given base URL, e.g. http://localhost:8080/api/v1.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type tokenKey struct{}

// WithAccessToken attaches the shopper's bearer token to outgoing calls made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func accessTokenFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// do executes the call and decodes envelope data into out. A nil out accepts
// responses without data.
func (c *Client) do(ctx context.Context, req call, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+req.op+" request")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+req.op+" request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := accessTokenFrom(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(ctx, req.op, 0, start)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+req.op+" request")
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(ctx, req.op, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(req.op, resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, successBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read "+req.op+" response")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if out == nil {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeUpstreamDecode, req.op+" response is empty")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstreamDecode, err, "decode "+req.op+" envelope")
	}
	if env.Success == nil {
		return pkgerrors.New(pkgerrors.CodeUpstreamDecode, req.op+" response is missing the success flag")
	}
	if !*env.Success {
		return rejected(req.op, env.Message)
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return pkgerrors.New(pkgerrors.CodeUpstreamDecode, req.op+" response has no data")
	}
	decoder := json.NewDecoder(bytes.NewReader(env.Data))
	if err := decoder.Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstreamDecode, err, "decode "+req.op+" data")
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	message := ""
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		message = strings.TrimSpace(env.Message)
	}
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, cause, "session expired, please log in again")
	case resp.StatusCode == http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeForbidden, cause, fallback(message, "access denied"))
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, fallback(message, op+" target not found"))
	case resp.StatusCode >= 500:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, op+" request failed")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeUpstreamRejected, cause, fallback(message, op+" request rejected"))
	}
}

func rejected(op, message string) error {
	return pkgerrors.New(pkgerrors.CodeUpstreamRejected, fallback(strings.TrimSpace(message), op+" request rejected"))
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func (c *Client) observe(ctx context.Context, op string, status int, start time.Time) {
	elapsed := time.Since(start)
	c.metrics.Observe(op, status, elapsed)
	if c.logg != nil {
		c.logg.Debug(c.logg.WithFields(ctx, map[string]any{
			"backend_op":     op,
			"backend_status": status,
			"duration_ms":    elapsed.Milliseconds(),
		}), "backend.call")
	}
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
