// Package transport holds the HTTP plumbing shared by the import and REST
// transports: client construction, request ids, and per-call logging,
// tracing and metrics.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

const (
	// DefaultTimeout applies when a config leaves Timeout at zero.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent applies when a config leaves UserAgent empty.
	DefaultUserAgent = "easytrans-go/1.0"
	// HeaderRequestID carries the per-call correlation id.
	HeaderRequestID = "X-Request-ID"
)

// NewHTTPClient returns a client with its own connection pool, so that
// closing idle connections affects no one else.
func NewHTTPClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	if insecureSkipVerify {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-hosted test servers
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

// Observer reports every backend call to logs, traces and metrics.
type Observer struct {
	Backend string
	Logger  *otelzap.Logger
	Tracer  trace.Tracer
	Metrics easytrans.Recorder
}

// NewObserver fills in no-op defaults for anything left nil.
func NewObserver(backend string, logger *otelzap.Logger, tracer trace.Tracer, metrics easytrans.Recorder) *Observer {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("easytrans")
	}
	return &Observer{Backend: backend, Logger: logger, Tracer: tracer, Metrics: metrics}
}

// Call is one in-flight backend call.
type Call struct {
	obs       *Observer
	span      trace.Span
	operation string
	start     time.Time
	fields    []zap.Field
	// RequestID is sent as X-Request-ID.
	RequestID string
	// StatusCode is the HTTP status once a response arrived.
	StatusCode int
}

// Start opens a span named spanName and logs the call at debug.
func (o *Observer) Start(ctx context.Context, spanName, operation string, fields ...zap.Field) (context.Context, *Call) {
	requestID := uuid.New().String()
	ctx, span := o.Tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("easytrans.backend", o.Backend),
			attribute.String("easytrans.operation", operation),
			attribute.String("easytrans.request_id", requestID),
		),
	)

	fields = append([]zap.Field{
		zap.String("backend", o.Backend),
		zap.String("operation", operation),
		zap.String("request_id", requestID),
	}, fields...)
	o.Logger.Ctx(ctx).Debug("Sending EasyTrans request", fields...)

	return ctx, &Call{
		obs:       o,
		span:      span,
		operation: operation,
		start:     time.Now(),
		fields:    fields,
		RequestID: requestID,
	}
}

// End closes the span and records the outcome of the call.
func (c *Call) End(ctx context.Context, err error) {
	defer c.span.End()

	duration := time.Since(c.start)
	status := "success"
	if c.StatusCode != 0 {
		c.span.SetAttributes(attribute.Int("http.response.status_code", c.StatusCode))
	}

	if err != nil {
		kind := easytrans.KindOf(err)
		if kind == "" {
			kind = easytrans.KindAPI
		}
		status = string(kind)

		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, err.Error())

		fields := append(c.fields,
			zap.Int("status", c.StatusCode),
			zap.String("kind", string(kind)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		var e *easytrans.Error
		if errors.As(err, &e) {
			fields = append(fields, zap.Int("code", e.Code))
		}
		c.obs.Logger.Ctx(ctx).Error("EasyTrans request failed", fields...)

		if c.obs.Metrics != nil {
			c.obs.Metrics.RecordError(c.obs.Backend, kind)
		}
	} else {
		c.span.SetStatus(codes.Ok, "")
	}

	if c.obs.Metrics != nil {
		c.obs.Metrics.RecordRequest(c.obs.Backend, c.operation, status, duration)
	}
}
