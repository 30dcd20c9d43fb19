package easytrans_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

func TestError_Error(t *testing.T) {
	err := easytrans.NewError(easytrans.KindOrder, 21, "Unknown productno")
	assert.Equal(t, "OrderError [21]: Unknown productno", err.Error())
}

func TestError_ErrorWithDetailsAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := easytrans.NewError(easytrans.KindValidation, 422, "The given data was invalid.").
		WithDetails(`{"carrierNo":["invalid"]}`).
		WithCause(cause)
	assert.Contains(t, err.Error(), "ValidationError [422]")
	assert.Contains(t, err.Error(), `{"carrierNo":["invalid"]}`)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("network timeout")
	err := easytrans.NewError(easytrans.KindAPI, 0, "request failed").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestError_IsSameKind(t *testing.T) {
	err1 := easytrans.NewError(easytrans.KindAuth, 10, "Invalid username")
	err2 := easytrans.NewError(easytrans.KindAuth, 401, "Unauthenticated.")
	assert.True(t, errors.Is(err1, err2))
}

func TestError_IsOtherKind(t *testing.T) {
	err1 := easytrans.NewError(easytrans.KindAuth, 10, "Invalid username")
	err2 := easytrans.NewError(easytrans.KindOrder, 20, "Invalid order")
	assert.False(t, errors.Is(err1, err2))
}

func TestError_IsSentinel(t *testing.T) {
	for _, kind := range easytrans.Kinds {
		err := fmt.Errorf("wrapped: %w", easytrans.NewError(kind, 1, "x"))
		assert.Equal(t, kind, easytrans.KindOf(err), kind)
	}

	err := easytrans.NewError(easytrans.KindRateLimit, 429, "Too Many Attempts.")
	assert.True(t, errors.Is(err, easytrans.ErrRateLimit))
	assert.False(t, errors.Is(err, easytrans.ErrAPI))
}

func TestKindOf_Foreign(t *testing.T) {
	assert.Equal(t, easytrans.Kind(""), easytrans.KindOf(errors.New("plain")))
}

func TestImportErrorKind(t *testing.T) {
	tests := []struct {
		code int
		want easytrans.Kind
	}{
		{5, easytrans.KindValidation},
		{10, easytrans.KindAuth},
		{15, easytrans.KindAuth},
		{19, easytrans.KindAuth},
		{20, easytrans.KindOrder},
		{29, easytrans.KindOrder},
		{30, easytrans.KindDestination},
		{39, easytrans.KindDestination},
		{40, easytrans.KindPackage},
		{45, easytrans.KindPackage},
		{46, easytrans.KindValidation},
		{50, easytrans.KindCustomer},
		{65, easytrans.KindCustomer},
		{66, easytrans.KindValidation},
		{0, easytrans.KindValidation},
		{9, easytrans.KindValidation},
		{210, easytrans.KindValidation},
		{999, easytrans.KindValidation},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, easytrans.ImportErrorKind(tt.code))
		})
	}
}

func TestHTTPErrorKind(t *testing.T) {
	tests := []struct {
		status int
		want   easytrans.Kind
	}{
		{401, easytrans.KindAuth},
		{404, easytrans.KindNotFound},
		{422, easytrans.KindValidation},
		{429, easytrans.KindRateLimit},
		{400, easytrans.KindAPI},
		{403, easytrans.KindAPI},
		{500, easytrans.KindAPI},
		{503, easytrans.KindAPI},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, easytrans.HTTPErrorKind(tt.status))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	rateLimited := easytrans.NewError(easytrans.KindRateLimit, 429, "Too Many Attempts.").
		WithStatusCode(429).
		WithRetryAfter(30 * time.Second)
	assert.True(t, easytrans.IsRetryable(rateLimited))
	assert.True(t, easytrans.IsRateLimited(rateLimited))
	assert.Equal(t, 30*time.Second, rateLimited.RetryAfter)

	serverError := easytrans.NewError(easytrans.KindAPI, 502, "Bad Gateway").WithStatusCode(502)
	assert.True(t, easytrans.IsRetryable(serverError))

	network := easytrans.NewError(easytrans.KindAPI, 0, "request failed")
	assert.True(t, easytrans.IsRetryable(network))

	badRequest := easytrans.NewError(easytrans.KindAPI, 400, "Bad Request").WithStatusCode(400)
	assert.False(t, easytrans.IsRetryable(badRequest))

	assert.False(t, easytrans.IsRetryable(easytrans.NewError(easytrans.KindAuth, 10, "bad login")))
	assert.False(t, easytrans.IsRetryable(errors.New("plain")))
}
