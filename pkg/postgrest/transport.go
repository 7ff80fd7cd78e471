package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edgeflare/pgclient/pkg/metrics"
)

// RequestIDHeader is set on every outgoing request with a fresh UUID so
// requests can be correlated in server logs.
const RequestIDHeader = "X-Request-Id"

// clientRequest describes one HTTP round trip against the REST surface.
type clientRequest struct {
	payload  any
	method   string
	resource string // table name or rpc/<function>
	rawQuery string
	prefer   string
}

// do executes the request and returns the raw response body. Every failure
// mode is folded into the returned error: transport failures as-is, non-2xx
// statuses as *APIError carrying status and body text.
func (c *Client) do(ctx context.Context, req clientRequest) ([]byte, error) {
	var payloadBytes []byte
	if req.payload != nil {
		var err error
		switch v := req.payload.(type) {
		case []byte:
			payloadBytes = v
		case string:
			payloadBytes = []byte(v)
		default:
			payloadBytes, err = json.Marshal(req.payload)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal payload: %w", err)
			}
		}
	}

	reqURL := c.baseURL + restPath + "/" + req.resource
	if req.rawQuery != "" {
		reqURL += "?" + req.rawQuery
	}

	start := time.Now()
	var body []byte
	var err error
	if c.maxRetries > 0 {
		operation := func() error {
			var opErr error
			body, opErr = c.attempt(ctx, req, reqURL, payloadBytes)
			if opErr != nil && !retryable(opErr) {
				return backoff.Permanent(opErr)
			}
			return opErr
		}
		b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), ctx)
		err = backoff.Retry(operation, b)
	} else {
		body, err = c.attempt(ctx, req, reqURL, payloadBytes)
	}
	c.observe(req, start, err)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// attempt performs a single HTTP round trip.
func (c *Client) attempt(ctx context.Context, req clientRequest, reqURL string, payloadBytes []byte) ([]byte, error) {
	var reqBody io.Reader
	if payloadBytes != nil {
		reqBody = bytes.NewReader(payloadBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("apikey", c.apiKey)
	httpReq.Header.Set("Authorization", "Bearer "+c.authKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, uuid.New().String())
	if req.prefer != "" {
		httpReq.Header.Set("Prefer", req.prefer)
	}
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// retryable reports whether a failed attempt may be retried: transport
// errors and 5xx responses are, anything the server rejected outright isn't.
func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}

// observe records metrics and a structured log entry for the round trip.
func (c *Client) observe(req clientRequest, start time.Time, err error) {
	latency := time.Since(start)
	metrics.RequestDuration.WithLabelValues(req.method, req.resource).Observe(latency.Seconds())

	if err != nil {
		kind := "transport"
		status := "error"
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			kind = "status"
			status = strconv.Itoa(apiErr.Status)
		}
		metrics.RequestErrors.WithLabelValues(req.method, req.resource, kind).Inc()
		metrics.RequestsTotal.WithLabelValues(req.method, req.resource, status).Inc()
		c.logger.Error("request failed",
			zap.String("method", req.method),
			zap.String("resource", req.resource),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return
	}

	metrics.RequestsTotal.WithLabelValues(req.method, req.resource, "2xx").Inc()
	c.logger.Debug("request completed",
		zap.String("method", req.method),
		zap.String("resource", req.resource),
		zap.Duration("latency", latency),
	)
}

// decodeJSON parses a response body. Empty bodies (204, minimal preference)
// decode to nil.
func decodeJSON(body []byte) (any, error) {
	if len(body) == 0 {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return data, nil
}
