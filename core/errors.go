package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an APIError by what went wrong.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindAuthentication
	KindRateLimit
	KindServer
	KindValidation
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindRateLimit:
		return "rate_limit"
	case KindServer:
		return "server"
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// APIError is the single error type surfaced by a logical call.
type APIError struct {
	Kind      ErrorKind
	Status    int
	RequestID string
	Code      string
	Message   string

	// Body holds the raw response body when the error came from an HTTP response.
	Body []byte

	// Err is the classification sentinel (ErrUnauthorized, ErrServer, ...).
	Err error

	// Cause is the underlying transport or decode error, if any.
	Cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("synapsai: %s (kind=%s", e.Message, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(", status=%d", e.Status)
	}
	if e.Code != "" {
		msg += ", code=" + e.Code
	}
	if e.RequestID != "" {
		msg += ", request_id=" + e.RequestID
	}
	return msg + ")"
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *APIError) Unwrap() []error {
	var errs []error
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// KindOf reports the ErrorKind of err, or KindUnknown if err is not an APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// Sentinel errors for classification.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrServer       = errors.New("server error")
	ErrValidation   = errors.New("validation error")
	ErrNetwork      = errors.New("network error")
	ErrDecode       = errors.New("decode error")
	ErrUnknown      = errors.New("unknown error")
)

// Validation errors raised before any request is sent.
var (
	ErrAPIKeyMissing    = errors.New("no API key provided: set SYNAPSAI_API_KEY or pass a key to synapsai.New")
	ErrModelRequired    = errors.New("model required")
	ErrNoMessages       = errors.New("no messages: add at least one chat message")
	ErrEmptySentences   = errors.New("`sentences` must be a non-empty list")
	ErrMediaRequired    = errors.New("media input required")
	ErrUnsupportedMedia = errors.New("media must be a file path, bytes, URL, or base64 string")
)

// SentinelForKind returns the classification sentinel for k.
func SentinelForKind(k ErrorKind) error {
	switch k {
	case KindAuthentication:
		return ErrUnauthorized
	case KindRateLimit:
		return ErrRateLimited
	case KindServer:
		return ErrServer
	case KindValidation:
		return ErrValidation
	case KindTransport:
		return ErrNetwork
	default:
		return ErrUnknown
	}
}
