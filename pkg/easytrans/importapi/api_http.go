package importapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/internal/transport"
)

const backend = "import"

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	url         string
	credentials easytrans.Credentials
	userAgent   string
	timeout     time.Duration
	httpClient  *http.Client
	obs         *transport.Observer
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	Credentials easytrans.Credentials
	// URL overrides Credentials.ImportURL(), for tests.
	URL                string
	Timeout            time.Duration
	InsecureSkipVerify bool
	UserAgent          string
	Logger             *otelzap.Logger
	Tracer             trace.Tracer
	Metrics            easytrans.Recorder
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = transport.DefaultTimeout
	}

	url := cfg.URL
	if url == "" {
		url = cfg.Credentials.ImportURL()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = transport.DefaultUserAgent
	}

	return &HTTPAPIClient{
		url:         url,
		credentials: cfg.Credentials,
		userAgent:   userAgent,
		timeout:     timeout,
		httpClient:  transport.NewHTTPClient(timeout, cfg.InsecureSkipVerify),
		obs:         transport.NewObserver(backend, cfg.Logger, cfg.Tracer, cfg.Metrics),
	}
}

// Submit posts req to the import endpoint.
// The backend answers 200 for failures too, so the body decides.
func (c *HTTPAPIClient) Submit(ctx context.Context, req *Request) (payload json.RawMessage, err error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	ctx, call := c.obs.Start(ctx, "easytrans.import.submit", string(req.Type),
		zap.String("mode", string(req.Mode)),
	)
	defer func() { call.End(ctx, err) }()

	body, err := buildBody(c.credentials, req)
	if err != nil {
		return nil, easytrans.NewError(easytrans.KindValidation, 0, "failed to encode import request").WithCause(err)
	}

	respBody, status, err := c.doRequest(ctx, body, call.RequestID)
	call.StatusCode = status
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope(respBody)
	if err != nil {
		return nil, err
	}
	switch e := env.(type) {
	case failure:
		return nil, e.err()
	case success:
		return e.Payload, nil
	default:
		return nil, easytrans.NewError(easytrans.KindAPI, 0, fmt.Sprintf("unexpected import response %T", env))
	}
}

// Close releases idle connections.
func (c *HTTPAPIClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// doRequest performs the POST and returns the body of a 200 response.
func (c *HTTPAPIClient) doRequest(ctx context.Context, body []byte, requestID string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, easytrans.NewError(easytrans.KindAPI, 0, "failed to create request").WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(transport.HeaderRequestID, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, c.networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, c.networkError(err).WithStatusCode(resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, easytrans.NewError(easytrans.KindAPI, 0,
			fmt.Sprintf("HTTP error %d: %s", resp.StatusCode, snippet(respBody))).
			WithStatusCode(resp.StatusCode)
	}
	return respBody, resp.StatusCode, nil
}

// networkError wraps a transport-level failure as an APIError.
func (c *HTTPAPIClient) networkError(err error) *easytrans.Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return easytrans.NewError(easytrans.KindAPI, 0, fmt.Sprintf("request timeout after %s", c.timeout)).WithCause(err)
	}
	return easytrans.NewError(easytrans.KindAPI, 0, "connection error").WithCause(err)
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
