package gerror

import (
	"errors"
	"fmt"
	"strings"
)

const (
	AudienceInternal Audience = "internal"
	AudienceExternal Audience = "external"
)

type Audience string
type Code string
type DetailKey string
type Details map[DetailKey]Detail

// FieldPath locates a value within a decoded response body, as a sequence
// of steps from the top level. A step is either a field name ("href") or an
// indexed field ("items[3]"). An empty path means the error is not tied to
// a position in the body.
type FieldPath []string

// IndexedStep formats a step that addresses one element of an array field,
// e.g. IndexedStep("items", 3) == "items[3]".
func IndexedStep(field string, index int) string {
	return fmt.Sprintf("%s[%d]", field, index)
}

func (p FieldPath) String() string {
	return strings.Join(p, ".")
}

// Depth returns the number of steps in the path. A depth of 1 identifies a
// field of the top-level object.
func (p FieldPath) Depth() int {
	return len(p)
}

// Prefixed returns a copy of the path with step prepended.
func (p FieldPath) Prefixed(step string) FieldPath {
	path := make(FieldPath, 0, len(p)+1)
	path = append(path, step)
	path = append(path, p...)
	return path
}

type Error struct {
	innerErr error
	// errorText is the internal error chain suitable for logging and debugging
	errorText string
	// message is the human friendly error message suitable for display to an end user
	message string
	// path locates the error within a response body, when known
	path           FieldPath
	details        Details
	audience       Audience
	code           Code
	httpStatusCode int
}

func NewError(message string, audience Audience, code Code, httpStatusCode int, inner error) Error {
	return NewErrorWithDetails(message, nil, audience, code, httpStatusCode, inner)
}

func NewErrorWithDetails(message string, details Details, audience Audience, code Code, httpStatusCode int, inner error) Error {
	return Error{
		message:        message,
		errorText:      makeErrorText(message, nil, details, inner),
		innerErr:       inner,
		details:        details,
		audience:       audience,
		code:           code,
		httpStatusCode: httpStatusCode,
	}
}

func (e Error) Error() string {
	if e.errorText != "" {
		return e.errorText
	} else {
		// If errorText not set, return the message
		return e.message
	}
}

func (e Error) Unwrap() error {
	return e.innerErr
}

func (e Error) Message() string {
	return e.message
}

func (e Error) Details() map[DetailKey]Detail {
	m := make(Details, len(e.details))
	for k, v := range e.details {
		m[k] = v
	}
	return m
}

func (e Error) Audience() Audience {
	return e.audience
}

func (e Error) Code() Code {
	return e.code
}

func (e Error) HTTPStatusCode() int {
	return e.httpStatusCode
}

// Path returns the location of the error within a response body, or an
// empty path if the error is not positional.
func (e Error) Path() FieldPath {
	path := make(FieldPath, len(e.path))
	copy(path, e.path)
	return path
}

// HasHTTPStatusCode returns true iff the supplied error chain contains a
// gerror.Error with the specified HTTP status code.
func HasHTTPStatusCode(err error, statusCode int) bool {
	var gErr Error
	if !errors.As(err, &gErr) {
		return false
	}
	return gErr.HTTPStatusCode() == statusCode
}

// PathOf returns the FieldPath of the first gerror.Error in the chain, or an
// empty path if there isn't one.
func PathOf(err error) FieldPath {
	var gErr Error
	if !errors.As(err, &gErr) {
		return nil
	}
	return gErr.Path()
}

// Wrap returns a copy of the error with the inner error set to the specified err.
func (e Error) Wrap(innerErr error) Error {
	return Error{
		innerErr:       innerErr,
		errorText:      makeErrorText(e.message, e.path, e.details, innerErr),
		message:        e.message,
		path:           e.Path(),
		details:        e.Details(),
		audience:       e.audience,
		code:           e.code,
		httpStatusCode: e.httpStatusCode,
	}
}

// AtPath returns a copy of the error with the path replaced.
func (e Error) AtPath(path FieldPath) Error {
	return Error{
		innerErr:       e.innerErr,
		errorText:      makeErrorText(e.message, path, e.details, e.innerErr),
		message:        e.message,
		path:           path,
		details:        e.Details(),
		audience:       e.audience,
		code:           e.code,
		httpStatusCode: e.httpStatusCode,
	}
}

// WithPathPrefix returns a copy of the error with step prepended to the path.
// Container decoders use this to locate an element error within the document
// that holds the element.
func (e Error) WithPathPrefix(step string) Error {
	return e.AtPath(e.path.Prefixed(step))
}

// WithPathPrefix locates the first gerror.Error in the chain and returns a
// copy of it with step prepended to its path. Errors that do not contain a
// gerror.Error are returned unchanged.
func WithPathPrefix(err error, step string) error {
	var gErr Error
	if !errors.As(err, &gErr) {
		return err
	}
	return gErr.WithPathPrefix(step)
}

// IDetail returns a copy of the error with a new internal detail appended to it.
func (e Error) IDetail(key DetailKey, value interface{}) Error {
	return e.withDetail(AudienceInternal, key, value)
}

// EDetail returns a copy of the error with a new external detail appended to it.
func (e Error) EDetail(key DetailKey, value interface{}) Error {
	return e.withDetail(AudienceExternal, key, value)
}

// withDetail returns a copy of the error with a new detail appended to it.
func (e *Error) withDetail(audience Audience, key DetailKey, value interface{}) Error {
	details := e.Details()
	details[key] = NewDetail(audience, key, value)
	return Error{
		details:        details,
		errorText:      makeErrorText(e.message, e.path, details, e.innerErr),
		innerErr:       e.innerErr,
		message:        e.message,
		path:           e.Path(),
		audience:       e.audience,
		code:           e.code,
		httpStatusCode: e.httpStatusCode,
	}
}

func makeErrorText(message string, path FieldPath, details Details, inner error) string {
	var pathStr string
	if len(path) > 0 {
		pathStr = fmt.Sprintf(" at %s", path)
	}
	var detailsStr string
	if len(details) > 0 {
		detailsStr = " ["
		for k, v := range details {
			if detailsStr == " [" {
				detailsStr += fmt.Sprintf("%s=%v", k, v.value)
			} else {
				detailsStr += fmt.Sprintf(", %s=%v", k, v.value)
			}
		}
		detailsStr += "]"
	}
	var errStr string
	if inner != nil {
		errStr = fmt.Sprintf(": %v", inner)
	}
	return fmt.Sprintf("%s%s%s%s", message, pathStr, detailsStr, errStr)
}

type Detail struct {
	audience Audience
	key      DetailKey
	value    interface{}
}

func NewDetail(audience Audience, key DetailKey, value interface{}) Detail {
	return Detail{
		audience: audience,
		key:      key,
		value:    value,
	}
}

func (a Detail) Audience() Audience {
	return a.audience
}

func (a Detail) Key() DetailKey {
	return a.key
}

func (a Detail) Value() interface{} {
	return a.value
}
