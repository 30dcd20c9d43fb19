// Package importapi is the transport for the JSON import endpoint
// (import_json.php). Every request is a POST carrying an authentication
// block next to the payload; the backend answers 200 and signals failure
// inside the body.
package importapi

import (
	"context"
	"encoding/json"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

// APIClient defines the interface for import endpoint operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// Submit sends one import batch and returns the success payload.
	Submit(ctx context.Context, req *Request) (json.RawMessage, error)

	// Close releases idle connections.
	Close() error
}

// Request is one import call.
type Request struct {
	Type AuthType
	// PayloadKey is the top-level member holding Payload, e.g. "orders".
	PayloadKey      string
	Payload         any
	Mode            easytrans.Mode
	ReturnRates     bool
	ReturnDocuments easytrans.ReturnDocumentType
}

// AuthType aliases the domain type so callers of this package need not
// import both.
type AuthType = easytrans.AuthType

// Version is the import protocol version sent with every request.
const Version = 2

// authentication is the wire form of the authentication block.
type authentication struct {
	Username        string                       `json:"username"`
	Password        string                       `json:"password"`
	Type            AuthType                     `json:"type"`
	Mode            easytrans.Mode               `json:"mode"`
	Version         int                          `json:"version"`
	ReturnRates     bool                         `json:"return_rates,omitempty"`
	ReturnDocuments easytrans.ReturnDocumentType `json:"return_documents,omitempty"`
}

// buildBody renders the request body for creds.
func buildBody(creds easytrans.Credentials, req *Request) ([]byte, error) {
	body := map[string]any{
		"authentication": authentication{
			Username:        creds.Username,
			Password:        creds.Password,
			Type:            req.Type,
			Mode:            req.Mode,
			Version:         Version,
			ReturnRates:     req.ReturnRates,
			ReturnDocuments: req.ReturnDocuments,
		},
		req.PayloadKey: req.Payload,
	}
	return json.Marshal(body)
}

// validateRequest rejects requests that cannot be sent.
func validateRequest(req *Request) error {
	switch {
	case req == nil:
		return easytrans.NewError(easytrans.KindValidation, 0, "import request is nil")
	case req.Type == "":
		return easytrans.NewError(easytrans.KindValidation, 0, "import request has no type")
	case req.PayloadKey == "" || req.PayloadKey == "authentication":
		return easytrans.NewError(easytrans.KindValidation, 0, "import request has an invalid payload key: "+req.PayloadKey)
	case !req.Mode.Valid():
		return easytrans.NewError(easytrans.KindValidation, 0, "invalid mode: "+string(req.Mode))
	}
	return nil
}
