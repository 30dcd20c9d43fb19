package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tournevent/easytrans/internal/telemetry"
	"github.com/tournevent/easytrans/pkg/easytrans"
)

// maxWebhookBody bounds the size of a webhook delivery. Signatures are
// embedded as base64, so deliveries can be large.
const maxWebhookBody = 4 << 20

// Webhook handling results, used as the result label of the webhook metric.
const (
	resultAccepted      = "accepted"
	resultUnauthorized  = "unauthorized"
	resultInvalid       = "invalid"
	resultFetchFailed   = "fetch_failed"
	resultHandlerFailed = "handler_failed"
)

// WebhookHandler processes a verified webhook delivery. order is the
// current state of the order when order fetching is enabled, nil
// otherwise.
type WebhookHandler func(ctx context.Context, payload *easytrans.WebhookPayload, order *easytrans.RestOrder) error

// Server receives EasyTrans status-change webhooks.
type Server struct {
	port       int
	api        easytrans.API
	webhookKey string
	fetchOrder bool
	handler    WebhookHandler
	logger     *otelzap.Logger
	metrics    *telemetry.Metrics
	gatherer   prometheus.Gatherer
	tracer     trace.Tracer
}

// Config holds server configuration.
type Config struct {
	Port int
	// WebhookAPIKey is the shared key expected in X-API-Key. Empty accepts
	// every delivery.
	WebhookAPIKey string
	// FetchOrder loads the order from the REST endpoint before calling the
	// handler.
	FetchOrder bool
	Handler    WebhookHandler
	// Gatherer serves /metrics; nil means the default registry.
	Gatherer prometheus.Gatherer
}

// New creates a new server instance.
func New(cfg Config, api easytrans.API, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	s := &Server{
		port:       cfg.Port,
		api:        api,
		webhookKey: cfg.WebhookAPIKey,
		fetchOrder: cfg.FetchOrder,
		handler:    cfg.Handler,
		logger:     logger,
		metrics:    metrics,
		gatherer:   cfg.Gatherer,
		tracer:     otel.Tracer("github.com/tournevent/easytrans/internal/server"),
	}
	if s.handler == nil {
		s.handler = s.logDelivery
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	return s
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// EasyTrans status callbacks
	mux.HandleFunc("/webhook", s.handleWebhook)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

func writeError(w http.ResponseWriter, status int, requestID, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, RequestID: requestID})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed, use POST")
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx, span := s.tracer.Start(r.Context(), "easytrans.webhook",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("request_id", requestID)),
	)
	defer span.End()
	log := s.logger.Ctx(ctx)
	fields := []zap.Field{zap.String("request_id", requestID)}
	withErr := func(err error) []zap.Field {
		return append(fields[:len(fields):len(fields)], zap.Error(err))
	}

	fail := func(status int, result, orderStatus string, err error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.record(orderStatus, result)
		writeError(w, status, requestID, err.Error())
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		log.Warn("Failed to read webhook body", withErr(err)...)
		fail(http.StatusBadRequest, resultInvalid, "", err)
		return
	}

	payload, err := s.api.ParseWebhook(body, s.webhookKey, r.Header)
	if err != nil {
		if errors.Is(err, easytrans.ErrAuth) {
			log.Warn("Rejected webhook", withErr(err)...)
			fail(http.StatusUnauthorized, resultUnauthorized, "", err)
			return
		}
		log.Warn("Malformed webhook", withErr(err)...)
		fail(http.StatusBadRequest, resultInvalid, "", err)
		return
	}

	status := string(payload.Order.Status)
	span.SetAttributes(
		attribute.Int("order_no", payload.Order.OrderNo),
		attribute.String("status", status),
	)
	fields = append(fields, zap.Int("order_no", payload.Order.OrderNo), zap.String("status", status))

	var order *easytrans.RestOrder
	if s.fetchOrder {
		order, err = s.api.GetOrder(ctx, payload.Order.OrderNo, easytrans.OrderIncludes{TrackHistory: true})
		if err != nil {
			log.Error("Failed to fetch webhook order", withErr(err)...)
			fail(http.StatusBadGateway, resultFetchFailed, status, err)
			return
		}
	}

	if err := s.handler(ctx, payload, order); err != nil {
		log.Error("Webhook handler failed", withErr(err)...)
		fail(http.StatusInternalServerError, resultHandlerFailed, status, err)
		return
	}

	s.record(status, resultAccepted)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) record(status, result string) {
	if s.metrics != nil {
		s.metrics.RecordWebhook(status, result)
	}
}

// logDelivery is the default handler: it only logs the event.
func (s *Server) logDelivery(ctx context.Context, p *easytrans.WebhookPayload, order *easytrans.RestOrder) error {
	fields := []zap.Field{
		zap.Int("company_id", p.CompanyID),
		zap.Int("order_no", p.Order.OrderNo),
		zap.String("status", string(p.Order.Status)),
		zap.String("event_time", p.EventTimeText),
		zap.Int("destinations", len(p.Order.Destinations)),
	}
	if p.Order.ExceptionCode != nil {
		fields = append(fields,
			zap.Int("exception_code", *p.Order.ExceptionCode),
			zap.String("exception", p.Order.ExceptionDescription),
		)
	}
	if order != nil {
		fields = append(fields, zap.Int("track_history", len(order.Attributes.TrackHistory)))
	}
	s.logger.Ctx(ctx).Info("EasyTrans order status changed", fields...)
	return nil
}
