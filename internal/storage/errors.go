package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// Kind is the fixed classification every upstream failure is reduced to.
type Kind string

const (
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindRateLimited  Kind = "RATE_LIMITED"
	KindInternal     Kind = "INTERNAL"
)

// JSON-RPC error codes. The -32602 and -32603 values are the protocol's
// own; the rest sit in the implementation-defined server error range.
const (
	CodeInvalidParams = -32602
	CodeInternal      = -32603
	CodeUnauthorized  = -32001
	CodeForbidden     = -32003
	CodeNotFound      = -32004
	CodeRateLimited   = -32029
)

// KindForStatus classifies an HTTP status code. It is total: anything not
// explicitly listed is INTERNAL.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}

// Code maps the kind into the JSON-RPC error code space.
func (k Kind) Code() int {
	switch k {
	case KindUnauthorized:
		return CodeUnauthorized
	case KindForbidden:
		return CodeForbidden
	case KindNotFound:
		return CodeNotFound
	case KindRateLimited:
		return CodeRateLimited
	default:
		return CodeInternal
	}
}

// APIError is a classified upstream failure.
type APIError struct {
	Kind    Kind
	Status  int // 0 when no response was received
	Message string
	// Details is the raw upstream error body, or {} when there was none or it
	// was not JSON.
	Details json.RawMessage
	Cause   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

var emptyDetails = json.RawMessage(`{}`)

// newStatusError classifies a non-2xx response. The upstream error message is
// preferred; otherwise a generic "API error: <status> <text>" is used.
func newStatusError(status int, body []byte) *APIError {
	details := emptyDetails
	if json.Valid(body) {
		details = json.RawMessage(body)
	}

	msg := fmt.Sprintf("API error: %d %s", status, http.StatusText(status))
	var errResp openai.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	return &APIError{
		Kind:    KindForStatus(status),
		Status:  status,
		Message: msg,
		Details: details,
	}
}

// newNetworkError covers failures where no usable response was obtained,
// including a success body that is not valid JSON.
func newNetworkError(cause error) *APIError {
	details, err := json.Marshal(map[string]string{"cause": cause.Error()})
	if err != nil {
		details = emptyDetails
	}
	return &APIError{
		Kind:    KindInternal,
		Message: fmt.Sprintf("Network error: %v", cause),
		Details: details,
		Cause:   cause,
	}
}

// NewInternalError builds an INTERNAL error that did not come from the
// upstream, such as an operation refused before any request is made.
func NewInternalError(msg string, details map[string]string) *APIError {
	raw, err := json.Marshal(details)
	if err != nil || details == nil {
		raw = emptyDetails
	}
	return &APIError{Kind: KindInternal, Message: msg, Details: raw}
}

// KindOf returns the kind of a classified error, or INTERNAL for anything
// else.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
