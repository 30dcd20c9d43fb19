package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

// Call is one request seen by MockAPIClient.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	// Body is the JSON encoding of the request body, nil for GET.
	Body json.RawMessage
}

// MockAPIClient is a mock implementation of APIClient for testing.
// Without a hook it serves Responses by path and answers 404 otherwise.
type MockAPIClient struct {
	SimulateErrors      bool
	SimulateLatency     time.Duration
	EmptyListOnNotFound bool

	// Responses maps a path such as "/orders/35558" to the body returned
	// for it, regardless of query.
	Responses map[string]json.RawMessage

	OnDo func(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error)

	mu    sync.Mutex
	calls []Call
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{Responses: map[string]json.RawMessage{}}
}

// Calls returns a copy of every request seen so far.
func (m *MockAPIClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Do records the call and answers it.
func (m *MockAPIClient) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	if method != http.MethodGet && method != http.MethodPut {
		return nil, easytrans.NewError(easytrans.KindAPI, 0, "unsupported HTTP method: "+method)
	}

	call := Call{Method: method, Path: path, Query: url.Values{}}
	for k, v := range query {
		call.Query[k] = append([]string(nil), v...)
	}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, easytrans.NewError(easytrans.KindValidation, 0, "failed to encode request body").WithCause(err)
		}
		call.Body = encoded
	}
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return nil, easytrans.NewError(easytrans.KindAPI, 0, "request cancelled").WithCause(ctx.Err())
		}
	}

	if m.SimulateErrors {
		return nil, easytrans.NewError(easytrans.KindAPI, http.StatusInternalServerError, "simulated API error").
			WithStatusCode(http.StatusInternalServerError)
	}

	if m.OnDo != nil {
		return m.OnDo(ctx, method, path, query, body)
	}

	m.mu.Lock()
	resp, ok := m.Responses[path]
	m.mu.Unlock()
	if !ok {
		return nil, easytrans.NewError(easytrans.KindNotFound, http.StatusNotFound, "REST resource not found: "+path).
			WithStatusCode(http.StatusNotFound)
	}
	return resp, nil
}

// List performs a GET, mapping 404 to an empty page when configured.
func (m *MockAPIClient) List(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	resp, err := m.Do(ctx, http.MethodGet, path, query, nil)
	if m.EmptyListOnNotFound && errors.Is(err, easytrans.ErrNotFound) {
		return emptyList, nil
	}
	return resp, err
}

// Close is a no-op.
func (m *MockAPIClient) Close() error {
	return nil
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
