package core

import (
	"net/http"
)

// OutcomeKind tags the result of a single attempt.
type OutcomeKind int

const (
	// OutcomeSuccess is a response with status below 400.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeTransportFailure is a network, timeout, or connection failure.
	OutcomeTransportFailure
	// OutcomeHTTPFailure is a response with status 400 or above.
	OutcomeHTTPFailure
	// OutcomeFailure is any other error (request construction, encoding, cancellation).
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeTransportFailure:
		return "transport_failure"
	case OutcomeHTTPFailure:
		return "http_failure"
	default:
		return "failure"
	}
}

// Outcome is the result of one attempt. Only the fields relevant to Kind are set.
type Outcome struct {
	Kind   OutcomeKind
	Status int
	Header http.Header
	Body   []byte
	Err    error
}

// Success builds a success outcome.
func Success(status int, header http.Header) Outcome {
	return Outcome{Kind: OutcomeSuccess, Status: status, Header: header}
}

// TransportFailure builds an outcome for a failure below the HTTP layer.
func TransportFailure(err error) Outcome {
	return Outcome{Kind: OutcomeTransportFailure, Err: err}
}

// HTTPFailure builds an outcome for an error status.
func HTTPFailure(status int, header http.Header, body []byte) Outcome {
	return Outcome{Kind: OutcomeHTTPFailure, Status: status, Header: header, Body: body}
}

// Failure builds an outcome for a non-network error.
func Failure(err error) Outcome {
	return Outcome{Kind: OutcomeFailure, Err: err}
}
