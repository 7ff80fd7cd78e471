package postgrest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const restPath = "/rest/v1"

// Client issues requests against a PostgREST-compatible API. It routes two
// credentials: apiKey is sent as the apikey identity header on every request,
// authKey as the bearer Authorization header. A Client is immutable after
// construction and safe for concurrent use; the builders it hands out are not.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	headers    map[string]string
	baseURL    string
	apiKey     string
	authKey    string
	maxRetries int
	service    bool
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger replaces the default production zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithRetry enables retrying failed requests up to maxRetries times with
// exponential backoff. Only transport errors and 5xx responses are retried.
// Requests are attempted exactly once unless this option is set.
func WithRetry(maxRetries int) Option {
	return func(c *Client) { c.maxRetries = maxRetries }
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// New creates an anonymous client. The single key is used for both the
// identity header and the bearer token, so every request executes under the
// anonymous role's row-level security policies.
func New(baseURL, anonKey string, opts ...Option) (*Client, error) {
	return newClient(baseURL, anonKey, anonKey, false, opts)
}

// NewService creates a privileged client. anonKey identifies the project in
// the apikey header; serviceKey is sent as the bearer token, so every request
// from this client executes with elevated privileges. Callers should hold
// service clients server-side only.
func NewService(baseURL, anonKey, serviceKey string, opts ...Option) (*Client, error) {
	if serviceKey == "" {
		return nil, fmt.Errorf("service key is required")
	}
	return newClient(baseURL, anonKey, serviceKey, true, opts)
}

func newClient(baseURL, apiKey, authKey string, service bool, opts []Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		authKey:    authKey,
		service:    service,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		headers:    map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		c.logger = logger
	}

	return c, nil
}

// IsService reports whether the client was constructed with a separate
// elevated credential.
func (c *Client) IsService() bool {
	return c.service
}

// From starts a request against a table or view.
func (c *Client) From(table string) *RequestBuilder {
	return &RequestBuilder{client: c, table: table}
}

// RequestBuilder selects the operation to perform on a table.
type RequestBuilder struct {
	client *Client
	table  string
}

// Select starts a read. With no arguments all columns are requested.
func (b *RequestBuilder) Select(columns ...string) *SelectBuilder {
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ",")
	}
	return &SelectBuilder{client: b.client, table: b.table, columns: cols}
}

// Insert starts a create. payload is a single record or a slice of records.
func (b *RequestBuilder) Insert(payload any) *InsertBuilder {
	return &InsertBuilder{client: b.client, table: b.table, payload: payload}
}

// Update starts a partial update. payload holds only the columns to change.
func (b *RequestBuilder) Update(payload any) *UpdateBuilder {
	return &UpdateBuilder{client: b.client, table: b.table, payload: payload}
}

// Delete starts a delete.
func (b *RequestBuilder) Delete() *DeleteBuilder {
	return &DeleteBuilder{client: b.client, table: b.table}
}
