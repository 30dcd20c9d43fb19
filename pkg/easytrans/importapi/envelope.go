package importapi

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

// envelope is the decoded body of an import response: either a failure
// or a success, never both.
type envelope interface {
	isEnvelope()
}

// failure is a body carrying an "error" member.
type failure struct {
	Code        int
	Description string
}

// success is any other JSON object. Payload is the "result" member, or
// the whole body when there is none.
type success struct {
	Payload json.RawMessage
}

func (failure) isEnvelope() {}
func (success) isEnvelope() {}

// err converts the failure into the taxonomy.
func (f failure) err() *easytrans.Error {
	return easytrans.NewError(easytrans.ImportErrorKind(f.Code), f.Code, f.Description)
}

const unknownError = "Unknown error"

// decodeEnvelope classifies a 200 response body.
func decodeEnvelope(body []byte) (envelope, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		e := easytrans.NewError(easytrans.KindAPI, 0, "invalid JSON response from import endpoint: "+snippet(body))
		if err != nil {
			e = e.WithCause(err)
		}
		return nil, e
	}

	if raw, ok := fields["error"]; ok && !isNull(raw) {
		return decodeFailure(raw), nil
	}
	if raw, ok := fields["result"]; ok {
		return success{Payload: raw}, nil
	}
	return success{Payload: json.RawMessage(body)}, nil
}

// decodeFailure reads an "error" member. The backend sends an object with
// errorno and error_description; anything else keeps its text and code 0.
func decodeFailure(raw json.RawMessage) failure {
	var obj struct {
		ErrorNo     easytrans.LooseString `json:"errorno"`
		Description *string               `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		var text string
		if json.Unmarshal(raw, &text) == nil && text != "" {
			return failure{Description: text}
		}
		return failure{Description: string(raw)}
	}

	f := failure{Description: unknownError}
	if code, err := strconv.Atoi(strings.TrimSpace(string(obj.ErrorNo))); err == nil {
		f.Code = code
	}
	if obj.Description != nil {
		f.Description = *obj.Description
	}
	return f
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// snippet returns at most the first 200 bytes of body for messages.
func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
