// Package graphql executes query documents against a GraphQL endpoint on
// behalf of an auth.Provider.
//
// Usage:
//
//	client, err := graphql.New(endpoint, auth.NewFileStore(path), graphql.WithTimeout(30*time.Second))
//	var out struct{ User []User `json:"user"` }
//	err = client.Execute(ctx, profile.BasicInfoQuery, nil, &out)
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"profiledash/internal/auth"
)

// Client is a GraphQL-over-HTTP client.
type Client struct {
	endpoint   string
	identity   auth.Provider
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

// New creates a Client for endpoint. Every request carries the token from
// identity as a bearer credential.
func New(endpoint string, identity auth.Provider, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("graphql: endpoint is required")
	}
	if identity == nil {
		return nil, fmt.Errorf("graphql: identity provider is required")
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{}
	if cfg.httpClient != nil {
		// Copied so the timeout never leaks into the caller's client.
		hc := *cfg.httpClient
		httpClient = &hc
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		endpoint:   endpoint,
		identity:   identity,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		if d < 0 {
			return fmt.Errorf("graphql: negative timeout %v", d)
		}
		cfg.timeout = d
		return nil
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Execute posts query with vars and decodes the "data" member into dst.
// dst may be nil when only success matters.
//
// It fails with *AuthError when the provider has no token, *TransportError
// on a non-2xx status and *QueryError when the response carries errors.
func (c *Client) Execute(ctx context.Context, query string, vars map[string]any, dst any) error {
	op := OperationName(query)

	token, ok := c.identity.Token()
	if !ok {
		return &AuthError{operation: op, err: auth.ErrNoToken}
	}

	payload, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(token))

	c.logger.InfoContext(ctx, "GraphQL request", "operation", op, "url", c.endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", op, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "GraphQL response", "operation", op, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		c.logger.ErrorContext(ctx, "server response", "operation", op, "status", resp.StatusCode, "body", msg)
		return &TransportError{operation: op, statusCode: resp.StatusCode, message: msg}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if len(out.Errors) > 0 {
		c.logger.ErrorContext(ctx, "GraphQL errors", "operation", op, "errors", len(out.Errors), "first", out.Errors[0].Message)
		return &QueryError{operation: op, errs: out.Errors}
	}

	if dst != nil && len(out.Data) > 0 && string(out.Data) != "null" {
		if err := json.Unmarshal(out.Data, dst); err != nil {
			return fmt.Errorf("%s: decode data: %w", op, err)
		}
	}
	return nil
}

func bearer(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

var opNamePattern = regexp.MustCompile(`^\s*(?:query|mutation|subscription)\s+([_A-Za-z][_0-9A-Za-z]*)`)

// OperationName returns the declared operation name of a document, or
// "anonymous query" for shorthand documents.
func OperationName(query string) string {
	if m := opNamePattern.FindStringSubmatch(query); m != nil {
		return m[1]
	}
	return "anonymous query"
}
