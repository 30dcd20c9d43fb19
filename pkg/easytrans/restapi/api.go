// Package restapi is the transport for the paginated REST endpoint
// (/api/v1). Errors are signalled by HTTP status and mapped onto the
// easytrans taxonomy here; nothing above this package inspects statuses.
package restapi

import (
	"context"
	"encoding/json"
	"net/url"
)

// APIClient defines the interface for REST endpoint operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// Do performs one request. Only GET and PUT are supported; any other
	// method fails with an APIError before any I/O. path is relative to
	// the REST base URL, e.g. "/orders/35558".
	Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error)

	// List performs a GET on a list endpoint. Depending on configuration
	// a 404 is answered with an empty page instead of a NotFoundError.
	List(ctx context.Context, path string, query url.Values) (json.RawMessage, error)

	// Close releases idle connections.
	Close() error
}

// emptyList is the body List returns in place of a 404.
var emptyList = json.RawMessage(`{"data":[],"links":{"first":null,"last":null,"prev":null,"next":null},"meta":{"current_page":1,"last_page":1,"per_page":100,"total":0}}`)
