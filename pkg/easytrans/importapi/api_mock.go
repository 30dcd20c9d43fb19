package importapi

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

// MockAPIClient is a mock implementation of APIClient for testing.
// Without a hook it answers like the backend does in test mode.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnSubmit func(ctx context.Context, req *Request) (json.RawMessage, error)

	mu       sync.Mutex
	requests []Request
	nextNo   int
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{nextNo: 35558}
}

// Requests returns a copy of every request submitted so far.
func (m *MockAPIClient) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// Submit records req and returns a canned success payload.
func (m *MockAPIClient) Submit(ctx context.Context, req *Request) (json.RawMessage, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.requests = append(m.requests, *req)
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		select {
		case <-time.After(m.SimulateLatency):
		case <-ctx.Done():
			return nil, easytrans.NewError(easytrans.KindAPI, 0, "request cancelled").WithCause(ctx.Err())
		}
	}

	if m.SimulateErrors {
		return nil, failure{Code: 10, Description: "Simulated authentication failure"}.err()
	}

	if m.OnSubmit != nil {
		return m.OnSubmit(ctx, req)
	}

	switch req.Type {
	case easytrans.AuthCustomerImport:
		return m.customerResult(req)
	default:
		return m.orderResult(req)
	}
}

// Close is a no-op.
func (m *MockAPIClient) Close() error {
	return nil
}

// count returns the number of elements in a slice payload, or 1.
func count(payload any) int {
	v := reflect.ValueOf(payload)
	if v.Kind() == reflect.Slice {
		return v.Len()
	}
	return 1
}

// allocate hands out n consecutive numbers; test mode allocates none.
func (m *MockAPIClient) allocate(mode easytrans.Mode, n int) []int {
	nos := []int{}
	if mode != easytrans.ModeEffect {
		return nos
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		nos = append(nos, m.nextNo)
		m.nextNo++
	}
	return nos
}

func (m *MockAPIClient) orderResult(req *Request) (json.RawMessage, error) {
	n := count(req.Payload)
	nos := m.allocate(req.Mode, n)

	trackTrace := map[string]any{}
	for _, no := range nos {
		trackTrace[fmt.Sprint(no)] = map[string]any{
			"local_trackingnr":      fmt.Sprintf("ET%d", no),
			"local_tracktrace_url":  fmt.Sprintf("https://mock.easytrans.local/track/%d", no),
			"global_trackingnr":     "",
			"global_tracktrace_url": "",
			"status":                "accepted",
		}
	}

	return json.Marshal(map[string]any{
		"mode":                     req.Mode,
		"total_orders":             n,
		"total_order_destinations": 2 * n,
		"total_order_packages":     n,
		"result_description":       fmt.Sprintf("%d orders processed (%s)", n, req.Mode),
		"new_ordernos":             nos,
		"order_tracktrace":         trackTrace,
	})
}

func (m *MockAPIClient) customerResult(req *Request) (json.RawMessage, error) {
	n := count(req.Payload)
	return json.Marshal(map[string]any{
		"mode":                    req.Mode,
		"total_customers":         n,
		"total_customer_contacts": 0,
		"result_description":      fmt.Sprintf("%d customers processed (%s)", n, req.Mode),
		"new_customernos":         m.allocate(req.Mode, n),
	})
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
