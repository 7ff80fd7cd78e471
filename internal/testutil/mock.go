package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// CapturedRequest is one request observed by the mock server.
type CapturedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// MockServer is a stub PostgREST endpoint. It records every request and
// replies with the configured status and body, so tests can assert both the
// wire shape the client emits and its handling of canned responses.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []CapturedRequest

	// Status and Body are returned for every request unless Handler is set.
	Status  int
	Body    string
	Handler http.HandlerFunc
}

// NewMockServer starts a stub server replying 200 with body "[]".
func NewMockServer() *MockServer {
	m := &MockServer{Status: http.StatusOK, Body: "[]"}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

func (m *MockServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	m.mu.Lock()
	m.requests = append(m.requests, CapturedRequest{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	})
	status, respBody, handler := m.Status, m.Body, m.Handler
	m.mu.Unlock()

	if handler != nil {
		handler(w, r)
		return
	}
	if respBody != "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	if respBody != "" {
		_, _ = w.Write([]byte(respBody))
	}
}

// Respond sets the canned status and body for subsequent requests.
func (m *MockServer) Respond(status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Status = status
	m.Body = body
}

// Requests returns a copy of all captured requests.
func (m *MockServer) Requests() []CapturedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CapturedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent captured request, or nil.
func (m *MockServer) LastRequest() *CapturedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	req := m.requests[len(m.requests)-1]
	return &req
}

// Count returns the number of requests served.
func (m *MockServer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
