// Package client provides the EasyTrans client: one handle over the JSON
// import endpoint and the REST endpoint.
package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/importapi"
	"github.com/tournevent/easytrans/pkg/easytrans/restapi"
)

// Config holds EasyTrans client configuration.
type Config struct {
	Credentials easytrans.Credentials
	// DefaultMode applies to imports that do not pass WithMode.
	DefaultMode        easytrans.Mode
	Timeout            time.Duration
	InsecureSkipVerify bool
	UserAgent          string
	// EmptyListOnNotFound treats a 404 on a list endpoint as no records.
	EmptyListOnNotFound bool
	Metrics             easytrans.Recorder
	UseMock             bool // When true, uses mock API clients
}

// Client is the EasyTrans client. It implements easytrans.API and
// delegates calls to the underlying transports (mock or HTTP).
//
// A Client is safe for concurrent use.
type Client struct {
	config    Config
	importAPI importapi.APIClient
	restAPI   restapi.APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer

	closeOnce sync.Once
	closeErr  error
}

// New creates a new EasyTrans client.
// If cfg.UseMock is true, it uses mock API clients for testing.
// Otherwise, it uses the real HTTP API clients.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*Client, error) {
	cfg = withDefaults(cfg)
	if !cfg.DefaultMode.Valid() {
		return nil, easytrans.NewError(easytrans.KindValidation, 0, "invalid default mode: "+string(cfg.DefaultMode))
	}

	var importAPI importapi.APIClient
	var restAPI restapi.APIClient

	if cfg.UseMock {
		importAPI = importapi.NewMockAPIClient()
		rest := restapi.NewMockAPIClient()
		rest.EmptyListOnNotFound = cfg.EmptyListOnNotFound
		restAPI = rest
	} else {
		if err := cfg.Credentials.Validate(); err != nil {
			return nil, err
		}
		importAPI = importapi.NewHTTPAPIClient(importapi.HTTPAPIClientConfig{
			Credentials:        cfg.Credentials,
			Timeout:            cfg.Timeout,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			UserAgent:          cfg.UserAgent,
			Logger:             logger,
			Tracer:             tracer,
			Metrics:            cfg.Metrics,
		})
		restAPI = restapi.NewHTTPAPIClient(restapi.HTTPAPIClientConfig{
			Credentials:         cfg.Credentials,
			Timeout:             cfg.Timeout,
			InsecureSkipVerify:  cfg.InsecureSkipVerify,
			UserAgent:           cfg.UserAgent,
			EmptyListOnNotFound: cfg.EmptyListOnNotFound,
			Logger:              logger,
			Tracer:              tracer,
			Metrics:             cfg.Metrics,
		})
	}

	return NewWithAPIClients(cfg, importAPI, restAPI, logger, tracer), nil
}

// NewWithAPIClients creates a new client with custom transports.
// This is useful for injecting mock clients in tests.
func NewWithAPIClients(cfg Config, importAPI importapi.APIClient, restAPI restapi.APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}
	return &Client{
		config:    withDefaults(cfg),
		importAPI: importAPI,
		restAPI:   restAPI,
		logger:    logger,
		tracer:    tracer,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = easytrans.ModeTest
	}
	return cfg
}

// Close releases both transports' idle connections. It is safe to call
// more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		importErr := c.importAPI.Close()
		restErr := c.restAPI.Close()
		if importErr != nil {
			c.closeErr = importErr
		} else {
			c.closeErr = restErr
		}
	})
	return c.closeErr
}

// ImportOrders submits orders to the import endpoint. In test mode the
// backend validates and prices them without saving anything.
func (c *Client) ImportOrders(ctx context.Context, orders []easytrans.Order, opts ...easytrans.ImportOption) (*easytrans.OrderResult, error) {
	if len(orders) == 0 {
		return nil, easytrans.NewError(easytrans.KindValidation, 0, "no orders to import")
	}
	for i := range orders {
		if err := orders[i].Validate(); err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
	}

	o := easytrans.ApplyImportOptions(c.config.DefaultMode, opts...)
	authType := o.OrderType
	switch authType {
	case "":
		authType = easytrans.AuthOrderImport
	case easytrans.AuthOrderImport, easytrans.AuthPacksOrderImport, easytrans.AuthGLSOrderImport:
	default:
		return nil, easytrans.NewError(easytrans.KindValidation, 0, "not an order import type: "+string(authType))
	}

	c.logger.Info("Importing EasyTrans orders",
		zap.Int("order_count", len(orders)),
		zap.String("mode", string(o.Mode)),
		zap.String("type", string(authType)),
	)

	payload, err := c.importAPI.Submit(ctx, &importapi.Request{
		Type:            authType,
		PayloadKey:      "orders",
		Payload:         orders,
		Mode:            o.Mode,
		ReturnRates:     o.ReturnRates,
		ReturnDocuments: o.ReturnDocuments,
	})
	if err != nil {
		return nil, err
	}

	result, err := easytrans.ParseOrderResult(payload)
	if err != nil {
		return nil, err
	}

	c.logger.Info("EasyTrans orders imported",
		zap.String("mode", string(result.Mode)),
		zap.Ints("new_ordernos", result.NewOrderNos),
		zap.String("result", result.ResultDescription),
	)
	return result, nil
}

// ImportCustomers submits customers to the import endpoint.
func (c *Client) ImportCustomers(ctx context.Context, customers []easytrans.Customer, opts ...easytrans.ImportOption) (*easytrans.CustomerResult, error) {
	if len(customers) == 0 {
		return nil, easytrans.NewError(easytrans.KindValidation, 0, "no customers to import")
	}
	for i := range customers {
		if err := customers[i].Validate(); err != nil {
			return nil, fmt.Errorf("customer %d: %w", i, err)
		}
	}

	o := easytrans.ApplyImportOptions(c.config.DefaultMode, opts...)

	c.logger.Info("Importing EasyTrans customers",
		zap.Int("customer_count", len(customers)),
		zap.String("mode", string(o.Mode)),
	)

	payload, err := c.importAPI.Submit(ctx, &importapi.Request{
		Type:       easytrans.AuthCustomerImport,
		PayloadKey: "customers",
		Payload:    customers,
		Mode:       o.Mode,
	})
	if err != nil {
		return nil, err
	}

	result, err := easytrans.ParseCustomerResult(payload)
	if err != nil {
		return nil, err
	}

	c.logger.Info("EasyTrans customers imported",
		zap.String("mode", string(result.Mode)),
		zap.Ints("new_customernos", result.NewCustomerNos),
	)
	return result, nil
}

// ParseWebhook verifies and decodes a webhook delivery.
func (c *Client) ParseWebhook(payload []byte, expectedKey string, headers http.Header) (*easytrans.WebhookPayload, error) {
	return easytrans.ParseWebhook(payload, expectedKey, headers)
}

// Ensure Client implements easytrans.API interface
var _ easytrans.API = (*Client)(nil)
