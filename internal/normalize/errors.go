// Package normalize maps failed attempts to *core.APIError values.
//
// None of these functions fail: malformed input degrades to a less specific
// message, never to a second error.
package normalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/synapsai-cloud/synapsai-go/core"
)

// RequestIDHeader carries the per-call request ID in both directions.
const RequestIDHeader = "X-Request-Id"

// FromOutcome maps the last outcome of a call to its final error.
func FromOutcome(o core.Outcome) *core.APIError {
	switch o.Kind {
	case core.OutcomeTransportFailure:
		return TransportError(o.Err)
	case core.OutcomeHTTPFailure:
		return HTTPError(o.Status, o.Header, o.Body)
	case core.OutcomeFailure:
		return Failure(o.Err)
	default:
		return Unknown("request finished without an error outcome")
	}
}

// HTTPError maps an error response. The kind follows the status code; the
// message is taken from the body when it is a recognised JSON envelope.
func HTTPError(status int, header http.Header, body []byte) *core.APIError {
	kind := KindForStatus(status)
	message, code := messageFromBody(status, body)
	return &core.APIError{
		Kind:      kind,
		Status:    status,
		RequestID: header.Get(RequestIDHeader),
		Code:      code,
		Message:   message,
		Body:      body,
		Err:       core.SentinelForKind(kind),
	}
}

// KindForStatus maps an HTTP status code to an error kind.
func KindForStatus(status int) core.ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.KindAuthentication
	case status == http.StatusTooManyRequests:
		return core.KindRateLimit
	case status >= 500 && status < 600:
		return core.KindServer
	default:
		return core.KindUnknown
	}
}

// TransportError wraps a failure below the HTTP layer. The kind is always KindTransport.
func TransportError(err error) *core.APIError {
	return &core.APIError{
		Kind:    core.KindTransport,
		Message: errMessage(err, "transport failure"),
		Err:     core.ErrNetwork,
		Cause:   err,
	}
}

// Failure wraps a non-network error that ended a call, such as a request
// that could not be built or a cancelled context.
func Failure(err error) *core.APIError {
	kind := core.KindUnknown
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		kind = core.KindTransport
	}
	return &core.APIError{
		Kind:    kind,
		Message: errMessage(err, "request failed"),
		Err:     core.SentinelForKind(kind),
		Cause:   err,
	}
}

// DecodeError wraps a failure to parse a successful response body.
func DecodeError(err error, requestID string) *core.APIError {
	return &core.APIError{
		Kind:      core.KindUnknown,
		RequestID: requestID,
		Message:   "decode response: " + errMessage(err, "invalid body"),
		Err:       core.ErrDecode,
		Cause:     err,
	}
}

// ValidationError reports a caller argument that violates a precondition.
func ValidationError(err error) *core.APIError {
	return &core.APIError{
		Kind:    core.KindValidation,
		Message: errMessage(err, "invalid argument"),
		Err:     core.ErrValidation,
		Cause:   err,
	}
}

// AuthenticationError reports a missing or unusable credential detected locally.
func AuthenticationError(err error) *core.APIError {
	return &core.APIError{
		Kind:    core.KindAuthentication,
		Message: errMessage(err, "authentication failed"),
		Err:     core.ErrUnauthorized,
		Cause:   err,
	}
}

// Unknown reports a call that ended without any classifiable outcome.
func Unknown(message string) *core.APIError {
	return &core.APIError{
		Kind:    core.KindUnknown,
		Message: message,
		Err:     core.ErrUnknown,
	}
}

func errMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}

// messageFromBody extracts a human-readable message and optional code.
//
// Recognised shapes, in order:
//
//	{"error": {"message": "...", "code": "..."}}
//	{"error": {"error": "..."}}
//	{"error": {...}}            -> the error object as JSON
//	{"error": "..."}
//	{"error": <anything else>}  -> "HTTP <status>: <body>"
//	{"message": "..."}
//	any other JSON value        -> the value as JSON
//
// Bodies that are not JSON yield "HTTP <status>: <body>".
func messageFromBody(status int, body []byte) (message, code string) {
	fallback := fmt.Sprintf("HTTP %d: %s", status, strings.TrimSpace(string(body)))

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fallback, ""
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return compactJSON(parsed, fallback), ""
	}

	if raw, ok := obj["error"]; ok {
		switch e := raw.(type) {
		case map[string]any:
			code = firstString(e, "code", "type")
			if msg := firstString(e, "message", "error"); msg != "" {
				return msg, code
			}
			return compactJSON(e, fallback), code
		case string:
			if e != "" {
				return e, firstString(obj, "code")
			}
		}
		return fallback, ""
	}

	if msg := firstString(obj, "message"); msg != "" {
		return msg, firstString(obj, "code")
	}
	return compactJSON(obj, fallback), ""
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func compactJSON(v any, fallback string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}
