package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/synapsai-cloud/synapsai-go/core"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCodeFor maps an API error kind to a process exit code.
func exitCodeFor(err error) int {
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) {
		return ExitAPI
	}
	switch apiErr.Kind {
	case core.KindValidation:
		return ExitValidation
	case core.KindTransport:
		return ExitNetwork
	default:
		return ExitAPI
	}
}

// handleError reports err on stderr and wraps it with its exit code.
func (a *App) handleError(err error) error {
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	return a.fail(exitCodeFor(err), err)
}

// fail reports err on stderr and wraps it with code.
func (a *App) fail(code int, err error) error {
	a.printError(err)
	return exitWithCode(code, err)
}

func (a *App) printError(err error) {
	var apiErr *core.APIError
	isAPI := errors.As(err, &apiErr)

	if a.jsonOutput {
		body := map[string]any{"message": err.Error(), "type": "error"}
		if isAPI {
			body["type"] = apiErr.Kind.String()
			body["message"] = apiErr.Message
			if apiErr.Status != 0 {
				body["status"] = apiErr.Status
			}
			if apiErr.Code != "" {
				body["code"] = apiErr.Code
			}
			if apiErr.RequestID != "" {
				body["request_id"] = apiErr.RequestID
			}
		}
		enc := json.NewEncoder(a.stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{"error": body})
		return
	}

	if !isAPI {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(a.stderr, "Error: %s\n", apiErr.Message)
	if apiErr.RequestID != "" {
		fmt.Fprintf(a.stderr, "  Kind: %s, Status: %d, Request ID: %s\n", apiErr.Kind, apiErr.Status, apiErr.RequestID)
	}
}

// writeJSON pretty-prints v on stdout.
func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
