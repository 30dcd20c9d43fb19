package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/tournevent/easytrans/internal/server"
	"github.com/tournevent/easytrans/internal/telemetry"
	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/mock"
)

const delivery = `{
	"companyId": 12,
	"eventTime": "2024-03-01T14:05:00+01:00",
	"order": {
		"orderNo": 35558,
		"customerNo": 1001,
		"status": "finished",
		"destinations": [
			{"addressId": 1, "stopNo": 1, "taskType": "pickup", "taskResult": {"signedBy": "J. Jansen"}}
		]
	}
}`

type harness struct {
	handler  http.Handler
	backend  *mock.Backend
	metrics  *telemetry.Metrics
	received []*easytrans.WebhookPayload
	orders   []*easytrans.RestOrder
}

func newHarness(t *testing.T, cfg server.Config, handlerErr error) *harness {
	t.Helper()

	h := &harness{}
	api, backend := mock.New("")
	t.Cleanup(func() { _ = api.Close() })
	h.backend = backend

	reg := prometheus.NewRegistry()
	h.metrics = telemetry.NewMetrics(reg)

	cfg.Gatherer = reg
	cfg.Handler = func(_ context.Context, p *easytrans.WebhookPayload, o *easytrans.RestOrder) error {
		h.received = append(h.received, p)
		h.orders = append(h.orders, o)
		return handlerErr
	}
	srv := server.New(cfg, api, otelzap.New(zap.NewNop()), h.metrics)
	h.handler = srv.Handler()
	return h
}

func (h *harness) post(body, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	if key != "" {
		req.Header.Set(easytrans.WebhookHeaderAPIKey, key)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) webhooks(status, result string) float64 {
	return testutil.ToFloat64(h.metrics.WebhooksTotal.WithLabelValues(status, result))
}

func TestServer_Health(t *testing.T) {
	h := newHarness(t, server.Config{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Webhook_Accepted(t *testing.T) {
	h := newHarness(t, server.Config{WebhookAPIKey: "s3cr3t-key"}, nil)

	rec := h.post(delivery, "s3cr3t-key")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, h.received, 1)
	p := h.received[0]
	assert.Equal(t, 12, p.CompanyID)
	assert.Equal(t, 35558, p.Order.OrderNo)
	assert.Equal(t, easytrans.WebhookFinished, p.Order.Status)
	assert.Equal(t, "J. Jansen", p.Order.Destinations[0].TaskResult.SignedBy)
	assert.Nil(t, h.orders[0])
	assert.Equal(t, 1.0, h.webhooks("finished", "accepted"))
}

func TestServer_Webhook_WrongKey(t *testing.T) {
	h := newHarness(t, server.Config{WebhookAPIKey: "s3cr3t-key"}, nil)

	for _, key := range []string{"", "other-key"} {
		rec := h.post(delivery, key)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Contains(t, resp["error"], "invalid webhook API key")
		assert.NotContains(t, resp["error"], "s3cr3t-key")
		assert.NotEmpty(t, resp["request_id"])
	}
	assert.Empty(t, h.received)
	assert.Equal(t, 2.0, h.webhooks("", "unauthorized"))
}

func TestServer_Webhook_Malformed(t *testing.T) {
	h := newHarness(t, server.Config{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"companyId":`},
		{"not an object", `[1, 2]`},
		{"missing order", `{"companyId": 12, "eventTime": "2024-03-01T14:05:00+01:00"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.post(tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, h.received)
	assert.Equal(t, 3.0, h.webhooks("", "invalid"))
}

func TestServer_Webhook_MethodNotAllowed(t *testing.T) {
	h := newHarness(t, server.Config{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestServer_Webhook_FetchOrder(t *testing.T) {
	h := newHarness(t, server.Config{FetchOrder: true}, nil)
	h.backend.AddOrders(easytrans.RestOrder{Attributes: easytrans.RestOrderAttributes{
		OrderNo:      35558,
		Status:       "finished",
		TrackHistory: []easytrans.RestTrackHistoryEntry{{Name: "Delivered"}},
	}})

	rec := h.post(delivery, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, h.orders, 1)
	require.NotNil(t, h.orders[0])
	assert.Equal(t, 35558, h.orders[0].Attributes.OrderNo)
	assert.Len(t, h.orders[0].Attributes.TrackHistory, 1)
}

func TestServer_Webhook_FetchOrderFails(t *testing.T) {
	h := newHarness(t, server.Config{FetchOrder: true}, nil)

	rec := h.post(delivery, "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, h.received)
	assert.Equal(t, 1.0, h.webhooks("finished", "fetch_failed"))
}

func TestServer_Webhook_HandlerFails(t *testing.T) {
	h := newHarness(t, server.Config{}, errors.New("queue unavailable"))

	rec := h.post(delivery, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "queue unavailable")
	assert.Equal(t, 1.0, h.webhooks("finished", "handler_failed"))
}

func TestServer_Metrics(t *testing.T) {
	h := newHarness(t, server.Config{}, nil)
	h.post(delivery, "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `easytrans_webhooks_total{result="accepted",status="finished"} 1`)
}

func TestServer_DefaultHandlerLogs(t *testing.T) {
	api, _ := mock.New("")
	srv := server.New(server.Config{Gatherer: prometheus.NewRegistry()}, api, otelzap.New(zap.NewNop()), nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(delivery))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
