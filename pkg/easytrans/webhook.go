package easytrans

import (
	"encoding/json"
	"net/http"
	"time"
)

// WebhookHeaderAPIKey carries the shared key of webhook calls.
const WebhookHeaderAPIKey = "X-API-Key"

// TaskResult is the proof of delivery of a destination.
type TaskResult struct {
	Date                   string      `json:"date,omitempty"`
	ArrivalTime            string      `json:"arrivalTime,omitempty"`
	DepartureTime          string      `json:"departureTime,omitempty"`
	SignedBy               string      `json:"signedBy,omitempty"`
	Base64EncodedSignature string      `json:"base64EncodedSignature,omitempty"`
	Latitude               LooseString `json:"latitude,omitempty"`
	Longitude              LooseString `json:"longitude,omitempty"`
}

// WebhookDestination is a destination of a webhook order.
type WebhookDestination struct {
	AddressID         int        `json:"addressId"`
	StopNo            int        `json:"stopNo"`
	CustomerReference string     `json:"customerReference"`
	WaybillNo         string     `json:"waybillNo"`
	Notes             string     `json:"notes"`
	TaskType          TaskType   `json:"taskType"`
	TaskResult        TaskResult `json:"taskResult"`
}

// WebhookOrder is the order whose status changed. The exception fields
// are only set for parcel-network exceptions.
type WebhookOrder struct {
	OrderNo              int                  `json:"orderNo"`
	CustomerNo           int                  `json:"customerNo"`
	Status               WebhookStatus        `json:"status"`
	SubStatusID          *int                 `json:"subStatusId,omitempty"`
	SubStatusName        string               `json:"subStatusName,omitempty"`
	Destinations         []WebhookDestination `json:"destinations"`
	ExternalID           string               `json:"externalId,omitempty"`
	ExceptionCode        *int                 `json:"exceptionCode,omitempty"`
	ExceptionDescription string               `json:"exceptionDescription,omitempty"`
}

// WebhookPayload is the body of a status-change callback.
type WebhookPayload struct {
	CompanyID     int          `json:"companyId"`
	EventTimeText string       `json:"eventTime"`
	Order         WebhookOrder `json:"order"`
}

// EventTime parses the event time, an RFC 3339 timestamp.
func (p *WebhookPayload) EventTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, p.EventTimeText)
	if err != nil {
		return time.Time{}, NewError(KindValidation, 0, "invalid webhook eventTime "+p.EventTimeText).WithCause(err)
	}
	return t, nil
}

var webhookRequired = []string{"companyId", "eventTime", "order"}

// ParseWebhook authenticates and decodes a webhook body. When expectedKey
// is set, the X-API-Key header must match it exactly.
func ParseWebhook(payload []byte, expectedKey string, headers http.Header) (*WebhookPayload, error) {
	if err := CheckWebhookKey(expectedKey, headers); err != nil {
		return nil, err
	}

	fields, err := decodeObject("webhook payload", payload)
	if err != nil {
		return nil, err
	}
	if err := requireFields("webhook payload", fields, webhookRequired...); err != nil {
		return nil, err
	}

	var p WebhookPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, NewError(KindValidation, 0, "invalid webhook payload structure").WithCause(err)
	}
	return &p, nil
}

// ParseWebhookMap is ParseWebhook for a body that was already decoded.
func ParseWebhookMap(payload map[string]any, expectedKey string, headers http.Header) (*WebhookPayload, error) {
	if payload == nil {
		return nil, NewError(KindValidation, 0, "webhook payload is not a JSON object")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, NewError(KindValidation, 0, "invalid webhook payload").WithCause(err)
	}
	return ParseWebhook(data, expectedKey, headers)
}

// CheckWebhookKey verifies the X-API-Key header. An empty expectedKey
// accepts any request.
func CheckWebhookKey(expectedKey string, headers http.Header) error {
	if expectedKey == "" {
		return nil
	}
	got := headers.Get(WebhookHeaderAPIKey)
	if got == expectedKey {
		return nil
	}
	shown := "none"
	if got != "" {
		shown = keyPrefix(got) + "..."
	}
	return NewError(KindAuth, 0, "invalid webhook API key: expected key starting with "+keyPrefix(expectedKey)+"..., got "+shown)
}

func keyPrefix(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
