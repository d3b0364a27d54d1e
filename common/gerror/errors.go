package gerror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	ErrCodeInternal             Code = "Internal"
	ErrCodeValidationFailed     Code = "ValidationFailed"
	ErrCodeInvalidConfig        Code = "InvalidConfig"
	ErrCodeMalformedResponse    Code = "MalformedResponse"
	ErrCodeMissingRequiredField Code = "MissingRequiredField"
	ErrCodeEmptyWrappedObject   Code = "EmptyWrappedObject"
	ErrCodeIndexOutOfRange      Code = "IndexOutOfRange"
	ErrCodeNotFound             Code = "NotFound"
	ErrCodeUnauthorized         Code = "Unauthorized"
	ErrCodeRateLimited          Code = "RateLimited"
	ErrHttpOperationFailed      Code = "HttpOperationFailed"
)

// ToError locates an Error in the provided error chain and returns it if it
// matches the provided code. Otherwise, returns nil.
func ToError(err error, code Code) *Error {
	if err == nil {
		return nil
	}
	var gErr Error
	if errors.As(err, &gErr) && gErr.Code() == code {
		return &gErr
	}
	return nil
}

func NewErrInternal() Error {
	return NewError(
		"An internal error occurred",
		AudienceExternal,
		ErrCodeInternal,
		http.StatusInternalServerError,
		nil,
	)
}

func ToInternal(err error) *Error {
	return ToError(err, ErrCodeInternal)
}

func IsInternal(err error) bool {
	return ToInternal(err) != nil
}

func NewErrValidationFailed(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeValidationFailed, http.StatusBadRequest, nil)
}

func ToValidationFailed(err error) *Error {
	return ToError(err, ErrCodeValidationFailed)
}

func IsValidationFailed(err error) bool {
	return ToValidationFailed(err) != nil
}

func NewErrInvalidConfig(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeInvalidConfig, 0, nil)
}

func ToInvalidConfig(err error) *Error {
	return ToError(err, ErrCodeInvalidConfig)
}

func IsInvalidConfig(err error) bool {
	return ToInvalidConfig(err) != nil
}

// NewErrMalformedResponse reports a response body that is not valid JSON or
// that violates a basic type expectation. These errors are never recovered
// from internally.
func NewErrMalformedResponse(message string, inner error) Error {
	return NewError(message, AudienceInternal, ErrCodeMalformedResponse, 0, inner)
}

func ToMalformedResponse(err error) *Error {
	return ToError(err, ErrCodeMalformedResponse)
}

func IsMalformedResponse(err error) bool {
	return ToMalformedResponse(err) != nil
}

// NewErrMissingRequiredField reports a required key absent from a decoded
// object, located by path. Decoders inspect the path depth to distinguish a
// missing key on the top-level envelope from one inside a nested element.
func NewErrMissingRequiredField(path FieldPath) Error {
	return NewError("Required field is missing", AudienceInternal, ErrCodeMissingRequiredField, 0, nil).
		AtPath(path)
}

func ToMissingRequiredField(err error) *Error {
	return ToError(err, ErrCodeMissingRequiredField)
}

func IsMissingRequiredField(err error) bool {
	return ToMissingRequiredField(err) != nil
}

// NewErrEmptyWrappedObject reports a wrapped paging envelope that contained
// no entries. The path attributes the original top-level failure that
// triggered the reinterpretation, for debuggability.
func NewErrEmptyWrappedObject(path FieldPath) Error {
	return NewError("Wrapped object is empty", AudienceInternal, ErrCodeEmptyWrappedObject, 0, nil).
		AtPath(path)
}

func ToEmptyWrappedObject(err error) *Error {
	return ToError(err, ErrCodeEmptyWrappedObject)
}

func IsEmptyWrappedObject(err error) bool {
	return ToEmptyWrappedObject(err) != nil
}

// NewErrIndexOutOfRange reports an indexed access outside [0, length).
// This is a caller error, not a data error.
func NewErrIndexOutOfRange(index int, length int) Error {
	return NewError(
		fmt.Sprintf("Index %d out of range for sequence of length %d", index, length),
		AudienceExternal,
		ErrCodeIndexOutOfRange,
		0,
		nil,
	).EDetail("index", index).EDetail("length", length)
}

func ToIndexOutOfRange(err error) *Error {
	return ToError(err, ErrCodeIndexOutOfRange)
}

func IsIndexOutOfRange(err error) bool {
	return ToIndexOutOfRange(err) != nil
}

func NewErrNotFound(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeNotFound, http.StatusNotFound, nil)
}

func ToNotFound(err error) *Error {
	return ToError(err, ErrCodeNotFound)
}

func IsNotFound(err error) bool {
	return ToNotFound(err) != nil
}

func NewErrUnauthorized(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeUnauthorized, http.StatusUnauthorized, nil)
}

func ToUnauthorized(err error) *Error {
	return ToError(err, ErrCodeUnauthorized)
}

func IsUnauthorized(err error) bool {
	return ToUnauthorized(err) != nil
}

func NewErrRateLimited(message string) Error {
	return NewError(message, AudienceExternal, ErrCodeRateLimited, http.StatusTooManyRequests, nil)
}

func ToRateLimited(err error) *Error {
	return ToError(err, ErrCodeRateLimited)
}

func IsRateLimited(err error) bool {
	return ToRateLimited(err) != nil
}

func NewErrHttpOperationFailed(statusCode int, message string) Error {
	return NewError(message, AudienceExternal, ErrHttpOperationFailed, statusCode, nil)
}

func ToHttpOperationFailed(err error) *Error {
	return ToError(err, ErrHttpOperationFailed)
}

func IsHttpOperationFailed(err error) bool {
	return ToHttpOperationFailed(err) != nil
}
