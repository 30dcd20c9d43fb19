package restapi_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/restapi"
)

var testCredentials = easytrans.Credentials{
	ServerURL:   "mytrans.nl",
	Environment: "demo",
	Username:    "user",
	Password:    "secret",
}

func newClient(baseURL string) *restapi.HTTPAPIClient {
	return restapi.NewHTTPAPIClient(restapi.HTTPAPIClientConfig{
		Credentials: testCredentials,
		BaseURL:     baseURL,
	})
}

func respond(status int, body string, headers ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i+1 < len(headers); i += 2 {
			w.Header().Set(headers[i], headers[i+1])
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestDo_Headers(t *testing.T) {
	var got *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer srv.Close()

	c := newClient(srv.URL)

	_, err := c.Do(context.Background(), http.MethodGet, "/orders", url.Values{"page": {"2"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/orders", got.URL.Path)
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "Basic dXNlcjpzZWNyZXQ=", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Empty(t, got.Header.Get("Content-Type"))
	assert.NotEmpty(t, got.Header.Get("User-Agent"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))

	_, err = c.Do(context.Background(), http.MethodPut, "/orders/35558", nil, map[string]int{"carrierNo": 0})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"carrierNo":0}`, string(gotBody))
}

func TestDo_UnsupportedMethod(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Do(context.Background(), http.MethodDelete, "/orders/1", nil, nil)
	require.Error(t, err)
	assert.Equal(t, easytrans.KindAPI, easytrans.KindOf(err))
	assert.False(t, called)
}

func TestDo_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   easytrans.Kind
		msg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Unauthenticated."}`, easytrans.KindAuth, "Unauthenticated."},
		{"not found", http.StatusNotFound, `{"message":"Order not found"}`, easytrans.KindNotFound, "Order not found"},
		{"validation", http.StatusUnprocessableEntity, `{"message":"The given data was invalid."}`, easytrans.KindValidation, "The given data was invalid."},
		{"rate limit", http.StatusTooManyRequests, ``, easytrans.KindRateLimit, "60 requests per minute"},
		{"server error", http.StatusInternalServerError, `{"message":"Server Error"}`, easytrans.KindAPI, "Server Error"},
		{"forbidden", http.StatusForbidden, `not json`, easytrans.KindAPI, "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(respond(tt.status, tt.body))
			defer srv.Close()

			_, err := newClient(srv.URL).Do(context.Background(), http.MethodGet, "/orders/1", nil, nil)
			require.Error(t, err)

			var e *easytrans.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.want, e.Kind)
			assert.Equal(t, tt.status, e.Code)
			assert.Equal(t, tt.status, e.StatusCode)
			assert.Contains(t, e.Message, tt.msg)
		})
	}
}

func TestDo_ValidationDetails(t *testing.T) {
	srv := httptest.NewServer(respond(http.StatusUnprocessableEntity,
		`{"message":"The given data was invalid.","errors":{"carrierNo":["The selected carrier no is invalid."]}}`))
	defer srv.Close()

	_, err := newClient(srv.URL).Do(context.Background(), http.MethodPut, "/orders/1", nil, map[string]int{"carrierNo": 9})
	var e *easytrans.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, easytrans.KindValidation, e.Kind)
	assert.JSONEq(t, `{"carrierNo":["The selected carrier no is invalid."]}`, e.Details)
	assert.Contains(t, e.Error(), "The selected carrier no is invalid.")
}

func TestDo_RetryAfter(t *testing.T) {
	srv := httptest.NewServer(respond(http.StatusTooManyRequests, `{"message":"Too Many Attempts."}`, "Retry-After", "17"))
	defer srv.Close()

	_, err := newClient(srv.URL).Do(context.Background(), http.MethodGet, "/orders", nil, nil)
	var e *easytrans.Error
	require.True(t, errors.As(err, &e))
	assert.True(t, easytrans.IsRateLimited(err))
	assert.True(t, easytrans.IsRetryable(err))
	assert.Equal(t, 17*time.Second, e.RetryAfter)
}

func TestDo_InvalidJSONBody(t *testing.T) {
	srv := httptest.NewServer(respond(http.StatusOK, `<html>`))
	defer srv.Close()

	_, err := newClient(srv.URL).Do(context.Background(), http.MethodGet, "/orders", nil, nil)
	assert.True(t, errors.Is(err, easytrans.ErrAPI))
}

func TestList_EmptyListOnNotFound(t *testing.T) {
	srv := httptest.NewServer(respond(http.StatusNotFound, `{"message":"No query results"}`))
	defer srv.Close()

	_, err := newClient(srv.URL).List(context.Background(), "/fleet", nil)
	assert.True(t, errors.Is(err, easytrans.ErrNotFound))

	c := restapi.NewHTTPAPIClient(restapi.HTTPAPIClientConfig{
		Credentials:         testCredentials,
		BaseURL:             srv.URL,
		EmptyListOnNotFound: true,
	})
	data, err := c.List(context.Background(), "/fleet", nil)
	require.NoError(t, err)

	page, err := easytrans.ParsePage(data, easytrans.ParseRestFleetVehicle)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNext())
	assert.Equal(t, 0, page.Meta.Total)
}

func TestDo_SpanNamedByMethod(t *testing.T) {
	srv := httptest.NewServer(respond(http.StatusNotFound, `{"message":"gone"}`))
	defer srv.Close()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	c := restapi.NewHTTPAPIClient(restapi.HTTPAPIClientConfig{
		Credentials: testCredentials,
		BaseURL:     srv.URL,
		Tracer:      tp.Tracer("test"),
	})

	_, _ = c.Do(context.Background(), http.MethodGet, "/orders/35558", nil, nil)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "easytrans.rest.get", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
