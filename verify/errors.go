package verify

import (
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a terminal verification failure. The names follow the
// structured-error vocabulary the storefront's callable clients already
// understand.
type Kind string

const (
	KindInvalidArgument    Kind = "invalid-argument"
	KindFailedPrecondition Kind = "failed-precondition"
	KindUnavailable        Kind = "unavailable"
	KindInternal           Kind = "internal"
)

// Error is a terminal verification failure. Code is the wire error string
// clients match on; Fields carries extra response context (status, currency,
// amounts) keyed exactly as it should appear in the JSON body.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]any

	// original is whatever the gateway handed back on the failing path, kept
	// for the audit log only.
	original any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Code
}

// HTTPStatus maps the failure onto the relay's HTTP surface. A missing
// credential is a deployment problem, not a client or gateway one, so it
// reports 500 even though its kind is failed-precondition.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusBadGateway
	case KindFailedPrecondition:
		if strings.HasPrefix(e.Code, "missing-env:") {
			return http.StatusInternalServerError
		}
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func invalidArgument(code string) *Error {
	return &Error{Kind: KindInvalidArgument, Code: code}
}

func failedPrecondition(code string, fields map[string]any, original any) *Error {
	return &Error{Kind: KindFailedPrecondition, Code: code, Fields: fields, original: original}
}

func unavailable(message string, original any) *Error {
	return &Error{Kind: KindUnavailable, Code: "paystack-verify-failed", Message: message, original: original}
}

func internal(message string) *Error {
	return &Error{Kind: KindInternal, Code: "server-error", Message: message}
}
