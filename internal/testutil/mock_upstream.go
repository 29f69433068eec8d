// Package testutil provides a mock World Bank API server for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock upstream response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockUpstream is a configurable mock World Bank API server.
type MockUpstream struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc
	requests []*url.URL
	headers  []http.Header
}

// NewMockUpstream starts a new mock upstream server.
func NewMockUpstream() *MockUpstream {
	mock := &MockUpstream{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		u := *r.URL
		mock.requests = append(mock.requests, &u)
		mock.headers = append(mock.headers, r.Header.Clone())
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`[{"message":[{"id":"120","key":"Invalid value","value":"The provided parameter value is not valid"}]}]`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockUpstream) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockUpstream) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.headers = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockUpstream) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path, whatever the page.
func (m *MockUpstream) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetPages serves bodies[i] for page=i+1. Requests for pages outside the
// slice get a 400 response.
func (m *MockUpstream) SetPages(path string, bodies ...string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 || page > len(bodies) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"error":"page %q out of range"}`, r.URL.Query().Get("page"))
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(bodies[page-1]))
	})
}

// SetPagedItems splits items into pages of perPage and serves them in the
// World Bank [metadata, results] shape.
func (m *MockUpstream) SetPagedItems(path string, perPage int, items []any) {
	m.SetPages(path, PagedBodies(perPage, items)...)
}

// PagedBodies renders items as World Bank page bodies of perPage items.
func PagedBodies(perPage int, items []any) []string {
	pages := (len(items) + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}

	bodies := make([]string, 0, pages)
	for p := 1; p <= pages; p++ {
		lo := (p - 1) * perPage
		hi := lo + perPage
		if lo > len(items) {
			lo = len(items)
		}
		if hi > len(items) {
			hi = len(items)
		}
		bodies = append(bodies, PageBody(p, pages, perPage, len(items), items[lo:hi]))
	}
	return bodies
}

// PageBody renders one World Bank page.
func PageBody(page, pages, perPage, total int, items []any) string {
	meta := map[string]any{
		"page":     page,
		"pages":    pages,
		"per_page": perPage,
		"total":    total,
	}
	if items == nil {
		items = []any{}
	}
	data, err := json.Marshal([]any{meta, items})
	if err != nil {
		panic(err)
	}
	return string(data)
}

// Requests returns copies of the URLs received so far, in arrival order.
func (m *MockUpstream) Requests() []*url.URL {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*url.URL, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestedPages returns the page query value of every request for path.
func (m *MockUpstream) RequestedPages(path string) []string {
	var pages []string
	for _, u := range m.Requests() {
		if u.Path == path {
			pages = append(pages, u.Query().Get("page"))
		}
	}
	return pages
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockUpstream) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockUpstream) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.headers) == 0 {
		return nil
	}
	return m.headers[len(m.headers)-1]
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMessageResponse creates the single-element error document the API
// returns with status 200 for invalid parameters.
func NewMessageResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `[{"message":[{"id":"120","key":"Invalid value","value":"The provided parameter value is not valid"}]}]`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
