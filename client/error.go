package client

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/melodio/melodio-go/common/gerror"
)

// errorEnvelope is the wire shape of an API error response. The API wraps
// error documents in a single-key object, mirroring how paged responses may
// arrive wrapped.
type errorEnvelope struct {
	Error *ErrorDocument `json:"error"`
}

// ErrorDocument describes an error returned by the Melodio REST API.
type ErrorDocument struct {
	Status  int         `json:"status"`
	Code    gerror.Code `json:"code,omitempty"`
	Message string      `json:"message"`
}

// codeForHTTPStatus maps an HTTP status code to an error code, for responses
// whose error document does not carry an explicit code.
func codeForHTTPStatus(statusCode int) gerror.Code {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return gerror.ErrCodeUnauthorized
	case http.StatusNotFound:
		return gerror.ErrCodeNotFound
	case http.StatusTooManyRequests:
		return gerror.ErrCodeRateLimited
	default:
		return gerror.ErrHttpOperationFailed
	}
}

// makeDecodeError normalizes an error from decoding a response body. Structured
// decode errors pass through unchanged so callers can inspect their code and
// field path; anything else is reported as a malformed response.
func makeDecodeError(err error) error {
	var gErr gerror.Error
	if errors.As(err, &gErr) {
		return err
	}
	return gerror.NewErrMalformedResponse("Failed to decode response body", err)
}
