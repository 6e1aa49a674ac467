package core

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// DoneSentinel is the data payload that ends an event stream.
const DoneSentinel = "[DONE]"

const dataPrefix = "data: "

// Event is one decoded server-sent event payload.
type Event struct {
	Data json.RawMessage
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

// Decoder reads "data: <json>" lines from a server-sent event body.
//
// Blank lines and lines without the data prefix are skipped. A payload of
// [DONE] ends the stream and nothing further is read. Payloads that are not
// valid JSON are logged at warn level and skipped. Decoder is not safe for
// concurrent use.
type Decoder struct {
	r      *bufio.Reader
	logger *slog.Logger
	err    error
}

// NewDecoder returns a Decoder reading from r. A nil logger discards warnings.
func NewDecoder(r io.Reader, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Decoder{r: bufio.NewReader(r), logger: logger}
}

// Next returns the next event. It returns io.EOF once the sentinel is seen or
// the source ends, and the underlying read error if the source fails.
func (d *Decoder) Next() (Event, error) {
	for {
		if d.err != nil {
			return Event{}, d.err
		}

		line, err := d.r.ReadString('\n')
		if err != nil {
			d.err = err
		}

		ev, ok, done := d.parseLine(line)
		if done {
			d.err = io.EOF
			return Event{}, io.EOF
		}
		if ok {
			return ev, nil
		}
	}
}

func (d *Decoder) parseLine(line string) (ev Event, ok bool, done bool) {
	line = strings.TrimSpace(line)
	if line == "" || !strings.HasPrefix(line, dataPrefix) {
		return Event{}, false, false
	}

	payload := line[len(dataPrefix):]
	if payload == DoneSentinel {
		return Event{}, false, true
	}

	if !json.Valid([]byte(payload)) {
		d.logger.Warn("skipping malformed stream frame", "data", truncate(payload, 100))
		return Event{}, false, false
	}
	return Event{Data: json.RawMessage(payload)}, true, false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Stream is a lazy, forward-only sequence of values produced by a goroutine.
//
// Channel rules:
//   - Ch is unbuffered, so the producer advances only as the consumer reads
//   - Ch is closed when the sequence ends
//   - Err emits at most one error and is closed after Ch
//
// Consumers range over Ch, then receive from Err. Close abandons the stream early.
type Stream[T any] struct {
	Ch  <-chan T
	Err <-chan error

	cancel context.CancelFunc
}

// NewStream starts run in a goroutine. run calls emit for every value and
// stops when emit returns false, which happens once the stream is closed or
// ctx is done. A non-nil error returned by run is delivered on Err.
func NewStream[T any](ctx context.Context, run func(ctx context.Context, emit func(T) bool) error) *Stream[T] {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan T)
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		defer close(ch)

		emit := func(v T) bool {
			select {
			case ch <- v:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if err := run(ctx, emit); err != nil {
			errCh <- err
		}
	}()

	return &Stream[T]{Ch: ch, Err: errCh, cancel: cancel}
}

// Close stops the producer and releases its resources. It is safe to call
// more than once and after the stream has ended.
func (s *Stream[T]) Close() error {
	if s == nil || s.cancel == nil {
		return nil
	}
	s.cancel()
	for range s.Ch {
	}
	return nil
}

// Collect drains the stream and returns every value in order, or the first error.
// Blocks until the stream ends or ctx is done.
func Collect[T any](ctx context.Context, s *Stream[T]) ([]T, error) {
	if s == nil {
		return nil, errors.New("nil stream")
	}
	defer s.Close()

	var out []T
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case v, ok := <-s.Ch:
			if !ok {
				if err := <-s.Err; err != nil {
					return out, err
				}
				return out, nil
			}
			out = append(out, v)
		}
	}
}
