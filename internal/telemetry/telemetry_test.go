package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", "easytrans")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewCLILogger("warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRequest("rest", "GET /orders/{no}", "success", 120*time.Millisecond)
	m.RecordRequest("rest", "GET /orders/{no}", "NotFoundError", 80*time.Millisecond)
	m.RecordError("rest", easytrans.KindNotFound)
	m.RecordWebhook("finished", "accepted")
	m.RecordWebhook("finished", "accepted")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("rest", "GET /orders/{no}", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClientErrors.WithLabelValues("rest", "NotFoundError")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebhooksTotal.WithLabelValues("finished", "accepted")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))

	count, err := testutil.GatherAndCount(reg, "easytrans_client_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	// Registering twice on one registry panics; separate registries do not.
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
