package synapsai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/synapsai-cloud/synapsai-go/core"
	"github.com/synapsai-cloud/synapsai-go/internal/normalize"
)

const (
	// maxErrorBodyBytes caps how much of an error response is kept.
	maxErrorBodyBytes = 1 << 20
	// maxDrainBytes caps how much more is read and discarded so the
	// connection can go back to the pool. Larger bodies lose the connection.
	maxDrainBytes = 8 << 20
)

// Request is one logical API call. JSON and Multipart are mutually exclusive;
// Multipart wins if both are set. The body is encoded once and replayed on
// every attempt.
type Request struct {
	Method    string
	Path      string
	JSON      any
	Multipart *Multipart

	// Header is merged over the client headers for this call only.
	Header http.Header
}

// Multipart is a multipart/form-data body.
type Multipart struct {
	Fields map[string]string
	Files  []MultipartFile
}

// MultipartFile is one file part of a Multipart body.
type MultipartFile struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Response is a completed, fully read response with status below 400.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
	Attempts   int
}

// Decode unmarshals the response body into v. Failures are *core.APIError with ErrDecode.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return normalize.DecodeError(err, r.RequestID)
	}
	return nil
}

// callSeq numbers calls across every client in the process.
var callSeq atomic.Uint64

// call holds the state shared by the attempts of one logical call.
type call struct {
	id          uint64
	req         *Request
	body        []byte
	contentType string
	requestID   string
	stream      bool
	start       time.Time
	attempts    int
	status      int
}

// Do executes req, retrying transport failures, 429 and 5xx under the
// configured budget, and returns the response once its body is fully read.
// It blocks the calling goroutine for the whole retry loop, including backoff
// waits. Cancelling ctx abandons the call.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	cl, err := c.begin(req, false)
	if err != nil {
		return nil, err
	}

	var result *Response
	err = c.execute(ctx, cl, func(ctx context.Context) core.Outcome {
		actx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()

		httpReq, err := c.newHTTPRequest(actx, cl)
		if err != nil {
			return core.Failure(err)
		}

		resp, err := c.config.HTTPClient.Do(httpReq)
		if err != nil {
			return transportOutcome(ctx, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return httpFailure(resp)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return transportOutcome(ctx, err)
		}

		result = &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
			RequestID:  responseRequestID(resp.Header, cl.requestID),
		}
		return core.Success(resp.StatusCode, resp.Header)
	})

	c.finish(cl, err)
	if err != nil {
		return nil, err
	}
	result.Attempts = cl.attempts
	return result, nil
}

// Go runs Do on its own goroutine. Backoff waits and I/O observe ctx and
// Future.Cancel, so many calls can be in flight without one goroutine each
// blocking on the others.
func (c *Client) Go(ctx context.Context, req *Request) *core.Future[*Response] {
	return core.Go(ctx, func(ctx context.Context) (*Response, error) {
		return c.Do(ctx, req)
	})
}

// StreamResponse is an open response body with status below 400.
type StreamResponse struct {
	StatusCode int
	Header     http.Header
	RequestID  string
	Attempts   int

	// Body yields the raw bytes. Read errors are *core.APIError of KindTransport.
	// Body must be closed.
	Body io.ReadCloser
}

// OpenStream executes req and returns as soon as response headers with a
// status below 400 arrive. Only opening is retried; once bytes flow, a read
// failure is returned to the reader and the call is not repeated. A retried
// open starts the stream over from the beginning.
func (c *Client) OpenStream(ctx context.Context, req *Request) (*StreamResponse, error) {
	cl, err := c.begin(req, true)
	if err != nil {
		return nil, err
	}

	var opened *StreamResponse
	err = c.execute(ctx, cl, func(ctx context.Context) core.Outcome {
		actx, cancel := context.WithCancel(ctx)
		timer := time.AfterFunc(c.config.Timeout, cancel)
		abort := func() {
			timer.Stop()
			cancel()
		}

		httpReq, err := c.newHTTPRequest(actx, cl)
		if err != nil {
			abort()
			return core.Failure(err)
		}

		resp, err := c.config.HTTPClient.Do(httpReq)
		if err != nil {
			abort()
			return transportOutcome(ctx, err)
		}

		if resp.StatusCode >= 400 {
			o := httpFailure(resp)
			resp.Body.Close()
			abort()
			return o
		}

		// The open timeout no longer applies once headers are in.
		if !timer.Stop() {
			resp.Body.Close()
			cancel()
			return transportOutcome(ctx, context.DeadlineExceeded)
		}

		requestID := responseRequestID(resp.Header, cl.requestID)
		opened = &StreamResponse{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			RequestID:  requestID,
			Body: &streamBody{
				body:      resp.Body,
				cancel:    cancel,
				requestID: requestID,
				onClose:   func(err error) { c.finish(cl, err) },
			},
		}
		return core.Success(resp.StatusCode, resp.Header)
	})

	if err != nil {
		c.finish(cl, err)
		return nil, err
	}
	opened.Attempts = cl.attempts
	return opened, nil
}

// streamBody wraps an open response body. It converts read failures into
// transport errors and reports the end of the call when closed.
type streamBody struct {
	body      io.ReadCloser
	cancel    context.CancelFunc
	requestID string
	onClose   func(err error)

	mu      sync.Mutex
	readErr error
	once    sync.Once
}

func (s *streamBody) Read(p []byte) (int, error) {
	n, err := s.body.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		apiErr := normalize.TransportError(err)
		apiErr.RequestID = s.requestID
		s.mu.Lock()
		if s.readErr == nil {
			s.readErr = apiErr
		}
		s.mu.Unlock()
		return n, apiErr
	}
	return n, err
}

func (s *streamBody) Close() error {
	var err error
	s.once.Do(func() {
		err = s.body.Close()
		s.cancel()
		s.mu.Lock()
		readErr := s.readErr
		s.mu.Unlock()
		s.onClose(readErr)
	})
	return err
}

// begin encodes the body and emits the start event.
func (c *Client) begin(req *Request, stream bool) (*call, error) {
	if req == nil {
		return nil, normalize.ValidationError(errors.New("nil request"))
	}

	cl := &call{
		id:        callSeq.Add(1),
		req:       req,
		requestID: req.Header.Get(normalize.RequestIDHeader),
		stream:    stream,
		start:     time.Now(),
	}
	if cl.requestID == "" {
		cl.requestID = c.newRequestID()
	}

	body, contentType, err := req.encode()
	if err != nil {
		return nil, normalize.ValidationError(err)
	}
	cl.body = body
	cl.contentType = contentType

	c.config.Telemetry.OnRequestStart(core.RequestStartEvent{
		CallID:    cl.id,
		Method:    req.Method,
		Path:      req.Path,
		RequestID: cl.requestID,
		Stream:    stream,
		Start:     cl.start,
	})
	return cl, nil
}

// execute runs attempts until one succeeds, the classifier rejects a
// failure, or the attempt budget is spent. It returns nil on success and the
// mapped last outcome otherwise.
func (c *Client) execute(ctx context.Context, cl *call, try func(ctx context.Context) core.Outcome) error {
	var last core.Outcome
	observed := false

	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		o := try(ctx)
		cl.attempts = attempt + 1
		cl.status = o.Status
		if o.Kind == core.OutcomeSuccess {
			return nil
		}
		last, observed = o, true

		delay, retry := c.config.RetryPolicy.NextDelay(attempt, o)
		if !retry || attempt >= c.config.MaxRetries-1 {
			break
		}

		c.config.Logger.Debug("retrying request",
			"method", cl.req.Method,
			"path", cl.req.Path,
			"request_id", cl.requestID,
			"attempt", attempt,
			"outcome", o.Kind.String(),
			"status", o.Status,
			"delay", delay,
		)
		c.config.Telemetry.OnRetry(core.RetryEvent{
			CallID:    cl.id,
			Method:    cl.req.Method,
			Path:      cl.req.Path,
			RequestID: cl.requestID,
			Attempt:   attempt,
			Delay:     delay,
			Status:    o.Status,
			Kind:      o.Kind,
		})

		if err := c.sleep(ctx, delay); err != nil {
			last = core.Failure(err)
			break
		}
	}

	if !observed {
		return normalize.Unknown("request finished without any attempt")
	}
	apiErr := normalize.FromOutcome(last)
	if apiErr.RequestID == "" {
		apiErr.RequestID = cl.requestID
	}
	return apiErr
}

// finish emits the end event for a call.
func (c *Client) finish(cl *call, err error) {
	end := time.Now()
	if err != nil {
		c.config.Logger.Debug("request failed",
			"method", cl.req.Method,
			"path", cl.req.Path,
			"request_id", cl.requestID,
			"attempts", cl.attempts,
			"kind", core.KindOf(err).String(),
			"duration", end.Sub(cl.start),
		)
	}
	c.config.Telemetry.OnRequestEnd(core.RequestEndEvent{
		CallID:    cl.id,
		Method:    cl.req.Method,
		Path:      cl.req.Path,
		RequestID: cl.requestID,
		Stream:    cl.stream,
		Start:     cl.start,
		End:       end,
		Attempts:  cl.attempts,
		Status:    cl.status,
		Err:       err,
	})
}

func (c *Client) newHTTPRequest(ctx context.Context, cl *call) (*http.Request, error) {
	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, cl.req.Method, core.JoinURL(c.config.BaseURL, cl.req.Path), body)
	if err != nil {
		return nil, err
	}

	headers := c.buildHeaders()
	if cl.contentType != "" {
		headers.Set("Content-Type", cl.contentType)
	}
	for key, values := range cl.req.Header {
		headers[http.CanonicalHeaderKey(key)] = slices.Clone(values)
	}
	headers.Set(normalize.RequestIDHeader, cl.requestID)
	httpReq.Header = headers

	return httpReq, nil
}

// encode serialises the request body once. A nil body is sent without payload.
func (r *Request) encode() ([]byte, string, error) {
	if r.Multipart != nil {
		return r.Multipart.encode()
	}
	if r.JSON == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(r.JSON)
	if err != nil {
		return nil, "", err
	}
	return data, "application/json", nil
}

func (m *Multipart) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", multipart.FileContentDisposition(f.Field, f.Filename))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// transportOutcome classifies a failed round trip. Cancellation of the
// caller's context is final; anything else, including the per-attempt
// timeout, is a transport failure.
func transportOutcome(parent context.Context, err error) core.Outcome {
	if parent.Err() != nil {
		return core.Failure(parent.Err())
	}
	return core.TransportFailure(err)
}

// httpFailure reads a bounded copy of an error body and drains the rest.
// The caller closes it.
func httpFailure(resp *http.Response) core.Outcome {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
	return core.HTTPFailure(resp.StatusCode, resp.Header, body)
}

func responseRequestID(h http.Header, fallback string) string {
	if id := h.Get(normalize.RequestIDHeader); id != "" {
		return id
	}
	return fallback
}
