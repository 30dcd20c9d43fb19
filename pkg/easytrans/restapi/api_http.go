package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/internal/transport"
)

const backend = "rest"

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL             string
	authorization       string
	userAgent           string
	timeout             time.Duration
	emptyListOnNotFound bool
	httpClient          *http.Client
	obs                 *transport.Observer
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	Credentials easytrans.Credentials
	// BaseURL overrides Credentials.RESTBaseURL(), for tests.
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
	UserAgent          string
	// EmptyListOnNotFound makes List answer a 404 with an empty page.
	// Some environments 404 on list endpoints that have no records.
	EmptyListOnNotFound bool
	Logger              *otelzap.Logger
	Tracer              trace.Tracer
	Metrics             easytrans.Recorder
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = transport.DefaultTimeout
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = cfg.Credentials.RESTBaseURL()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = transport.DefaultUserAgent
	}

	return &HTTPAPIClient{
		baseURL:             strings.TrimRight(baseURL, "/"),
		authorization:       cfg.Credentials.BasicAuth(),
		userAgent:           userAgent,
		timeout:             timeout,
		emptyListOnNotFound: cfg.EmptyListOnNotFound,
		httpClient:          transport.NewHTTPClient(timeout, cfg.InsecureSkipVerify),
		obs:                 transport.NewObserver(backend, cfg.Logger, cfg.Tracer, cfg.Metrics),
	}
}

// Do performs one GET or PUT against the REST endpoint.
func (c *HTTPAPIClient) Do(ctx context.Context, method, path string, query url.Values, body any) (payload json.RawMessage, err error) {
	if method != http.MethodGet && method != http.MethodPut {
		return nil, easytrans.NewError(easytrans.KindAPI, 0, "unsupported HTTP method: "+method)
	}

	ctx, call := c.obs.Start(ctx, "easytrans.rest."+strings.ToLower(method), method+" "+operationPath(path),
		zap.String("path", path),
	)
	defer func() { call.End(ctx, err) }()

	payload, call.StatusCode, err = c.doRequest(ctx, method, path, query, body, call.RequestID)
	return payload, err
}

// List performs a GET on a list endpoint.
func (c *HTTPAPIClient) List(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	payload, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if c.emptyListOnNotFound && errors.Is(err, easytrans.ErrNotFound) {
		c.obs.Logger.Ctx(ctx).Debug("Treating 404 as an empty list", zap.String("path", path))
		return emptyList, nil
	}
	return payload, err
}

// Close releases idle connections.
func (c *HTTPAPIClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// doRequest performs the request and returns the body of a 2xx response.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path string, query url.Values, body any, requestID string) (json.RawMessage, int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, 0, easytrans.NewError(easytrans.KindValidation, 0, "failed to encode request body").WithCause(err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, 0, easytrans.NewError(easytrans.KindAPI, 0, "failed to create request").WithCause(err)
	}

	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}
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

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, parseError(resp, respBody)
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
		return nil, resp.StatusCode, nil
	}
	if !json.Valid(respBody) {
		return nil, resp.StatusCode, easytrans.NewError(easytrans.KindAPI, resp.StatusCode,
			"invalid JSON in REST response: "+snippet(respBody)).WithStatusCode(resp.StatusCode)
	}
	return respBody, resp.StatusCode, nil
}

// parseError maps a non-2xx response onto the taxonomy.
func parseError(resp *http.Response, body []byte) *easytrans.Error {
	status := resp.StatusCode
	kind := easytrans.HTTPErrorKind(status)

	var parsed struct {
		Message string          `json:"message"`
		Errors  json.RawMessage `json:"errors"`
	}
	message := snippet(body)
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
	}

	var e *easytrans.Error
	switch kind {
	case easytrans.KindAuth:
		e = easytrans.NewError(kind, status, "REST authentication failed: "+message)
	case easytrans.KindNotFound:
		e = easytrans.NewError(kind, status, "REST resource not found: "+message)
	case easytrans.KindValidation:
		e = easytrans.NewError(kind, status, "REST validation error: "+message)
		if len(parsed.Errors) > 0 && string(parsed.Errors) != "null" {
			var compact bytes.Buffer
			if json.Compact(&compact, parsed.Errors) == nil {
				e = e.WithDetails(compact.String())
			} else {
				e = e.WithDetails(string(parsed.Errors))
			}
		}
	case easytrans.KindRateLimit:
		if parsed.Message == "" {
			message = "max 60 requests per minute"
		}
		e = easytrans.NewError(kind, status, "REST rate limit exceeded: "+message).
			WithRetryAfter(retryAfter(resp.Header.Get("Retry-After")))
	default:
		e = easytrans.NewError(kind, status, fmt.Sprintf("REST API error (HTTP %d): %s", status, message))
	}
	return e.WithStatusCode(status)
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP
// date. Unparseable or past values yield zero.
func retryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// networkError wraps a transport-level failure as an APIError.
func (c *HTTPAPIClient) networkError(err error) *easytrans.Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return easytrans.NewError(easytrans.KindAPI, 0, fmt.Sprintf("REST request timeout after %s", c.timeout)).WithCause(err)
	}
	return easytrans.NewError(easytrans.KindAPI, 0, "REST connection error").WithCause(err)
}

// operationPath collapses numeric path segments so metric labels stay
// bounded: /orders/35558 becomes /orders/{no}.
func operationPath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if s == "" {
			continue
		}
		if _, err := strconv.Atoi(s); err == nil {
			segments[i] = "{no}"
		}
	}
	return strings.Join(segments, "/")
}

// snippet returns at most the first 200 bytes of body for messages.
func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
