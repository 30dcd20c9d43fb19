package easytrans

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies every failure the client can report. The set is closed:
// each error returned by this module resolves to exactly one Kind.
type Kind string

const (
	KindAuth        Kind = "AuthError"
	KindValidation  Kind = "ValidationError"
	KindOrder       Kind = "OrderError"
	KindDestination Kind = "DestinationError"
	KindPackage     Kind = "PackageError"
	KindCustomer    Kind = "CustomerError"
	KindNotFound    Kind = "NotFoundError"
	KindRateLimit   Kind = "RateLimitError"
	KindAPI         Kind = "APIError"
)

// Kinds lists every Kind in the taxonomy.
var Kinds = []Kind{
	KindAuth, KindValidation, KindOrder, KindDestination, KindPackage,
	KindCustomer, KindNotFound, KindRateLimit, KindAPI,
}

// Sentinel errors, one per Kind. errors.Is(err, ErrRateLimit) reports
// whether err is an *Error of KindRateLimit.
var (
	ErrAuth        = errors.New("authentication failed")
	ErrValidation  = errors.New("validation failed")
	ErrOrder       = errors.New("order rejected")
	ErrDestination = errors.New("destination rejected")
	ErrPackage     = errors.New("package rejected")
	ErrCustomer    = errors.New("customer rejected")
	ErrNotFound    = errors.New("resource not found")
	ErrRateLimit   = errors.New("rate limit exceeded")
	ErrAPI         = errors.New("api request failed")
)

var sentinels = map[Kind]error{
	KindAuth:        ErrAuth,
	KindValidation:  ErrValidation,
	KindOrder:       ErrOrder,
	KindDestination: ErrDestination,
	KindPackage:     ErrPackage,
	KindCustomer:    ErrCustomer,
	KindNotFound:    ErrNotFound,
	KindRateLimit:   ErrRateLimit,
	KindAPI:         ErrAPI,
}

// Error is the normalized failure returned by both backends.
type Error struct {
	Kind Kind
	// Code is the import endpoint's errorno or the REST endpoint's HTTP
	// status. Zero for failures raised locally (network, validation).
	Code    int
	Message string
	// StatusCode is the HTTP status of the response, when there was one.
	StatusCode int
	// Details holds the REST 422 "errors" object, verbatim.
	Details    string
	RetryAfter time.Duration
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s [%d]: %s", e.Kind, e.Code, e.Message)
	if e.Details != "" {
		msg += " " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same Kind, or the Kind's sentinel.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// NewError creates a new Error.
func NewError(kind Kind, code int, message string) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *Error) WithStatusCode(code int) *Error {
	e.StatusCode = code
	return e
}

// WithDetails attaches backend-supplied structured detail.
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// WithRetryAfter records how long the backend asked callers to wait.
func (e *Error) WithRetryAfter(d time.Duration) *Error {
	e.RetryAfter = d
	return e
}

// ImportErrorKind maps an import endpoint errorno to a Kind.
func ImportErrorKind(errorno int) Kind {
	switch {
	case errorno == 5:
		return KindValidation
	case errorno >= 10 && errorno <= 19:
		return KindAuth
	case errorno >= 20 && errorno <= 29:
		return KindOrder
	case errorno >= 30 && errorno <= 39:
		return KindDestination
	case errorno >= 40 && errorno <= 45:
		return KindPackage
	case errorno >= 50 && errorno <= 65:
		return KindCustomer
	default:
		return KindValidation
	}
}

// HTTPErrorKind maps a non-2xx REST status to a Kind.
func HTTPErrorKind(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindAPI
	}
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRateLimited reports whether err is a rate-limit rejection.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimit)
}

// IsRetryable returns true if the error is worth retrying after a pause:
// rate limits and server-side (5xx) or network failures. Nothing in this
// module retries on its own.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindRateLimit:
		return true
	case KindAPI:
		return e.StatusCode == 0 || e.StatusCode >= 500
	default:
		return false
	}
}
