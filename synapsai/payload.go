package synapsai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"

	"github.com/synapsai-cloud/synapsai-go/core"
	"github.com/synapsai-cloud/synapsai-go/internal/normalize"
)

// Ptr returns a pointer to v, for optional parameters.
//
//	params.Temperature = synapsai.Ptr(0.2)
func Ptr[T any](v T) *T {
	return &v
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// payload is a JSON request body with absent values dropped.
type payload map[string]any

// buildPayload merges known fields with caller extras. Known fields win over
// extras of the same name. Nil values, including typed nil pointers, maps
// and slices, are left out.
func buildPayload(fields map[string]any, extra map[string]any) payload {
	out := make(payload, len(fields)+len(extra))
	for k, v := range extra {
		if !isNil(v) {
			out[k] = v
		}
	}
	for k, v := range fields {
		if !isNil(v) {
			out[k] = v
		}
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// optString maps "" to nil so buildPayload drops it.
func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireModel(model string) error {
	if model == "" {
		return normalize.ValidationError(core.ErrModelRequired)
	}
	return nil
}

func postJSON[T any](ctx context.Context, c *Client, path string, body payload) (*T, error) {
	return doJSON[T](ctx, c, &Request{Method: http.MethodPost, Path: path, JSON: body})
}

func getJSON[T any](ctx context.Context, c *Client, path string) (*T, error) {
	return doJSON[T](ctx, c, &Request{Method: http.MethodGet, Path: path})
}

func doJSON[T any](ctx context.Context, c *Client, req *Request) (*T, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var out T
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// streamEvents opens an event stream and decodes each event into T.
// Events that do not fit T are logged and skipped.
func streamEvents[T any](ctx context.Context, c *Client, path string, body payload) (*core.Stream[T], error) {
	opened, err := c.OpenStream(ctx, &Request{Method: http.MethodPost, Path: path, JSON: body})
	if err != nil {
		return nil, err
	}

	logger := c.config.Logger
	return core.NewStream(ctx, func(ctx context.Context, emit func(T) bool) error {
		defer opened.Body.Close()
		// Unblock a pending read when the consumer goes away.
		stop := context.AfterFunc(ctx, func() { opened.Body.Close() })
		defer stop()

		dec := core.NewDecoder(opened.Body, logger)
		for {
			ev, err := dec.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				if ctx.Err() != nil {
					return normalize.Failure(ctx.Err())
				}
				return err
			}

			var v T
			if err := ev.Decode(&v); err != nil {
				logger.Warn("skipping stream chunk", "path", path, "request_id", opened.RequestID, "error", err)
				continue
			}
			if !emit(v) {
				return nil
			}
		}
	}), nil
}
