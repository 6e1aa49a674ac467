package core

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/iotest"
	"time"
)

func decodeAll(t *testing.T, src string) ([]string, error) {
	t.Helper()
	d := NewDecoder(strings.NewReader(src), nil)
	var out []string
	for {
		ev, err := d.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, string(ev.Data))
	}
}

func TestDecoderDoneStopsStream(t *testing.T) {
	got, err := decodeAll(t, "data: {\"a\":1}\n\ndata: [DONE]\n\ndata: {\"b\":2}\n")
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(got) != 1 || got[0] != `{"a":1}` {
		t.Errorf("events = %v, want [{\"a\":1}]", got)
	}
}

func TestDecoderSkipsMalformedFrames(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	d := NewDecoder(strings.NewReader("data: {bad json\ndata: {\"ok\":true}\n"), logger)

	ev, err := d.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(ev.Data) != `{"ok":true}` {
		t.Errorf("Data = %s, want {\"ok\":true}", ev.Data)
	}
	if _, err := d.Next(); err != io.EOF {
		t.Errorf("second Next() error = %v, want io.EOF", err)
	}
	if !strings.Contains(logBuf.String(), "malformed") {
		t.Errorf("expected a warning for the malformed frame, log = %q", logBuf.String())
	}
}

func TestDecoderSkipsBlankAndForeignLines(t *testing.T) {
	src := "\n   \n: keep-alive\nevent: message\nid: 7\ndata:{\"nospace\":1}\n  data: {\"x\":1}  \n"
	got, err := decodeAll(t, src)
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(got) != 1 || got[0] != `{"x":1}` {
		t.Errorf("events = %v, want [{\"x\":1}]", got)
	}
}

func TestDecoderEOFWithoutSentinel(t *testing.T) {
	got, err := decodeAll(t, "data: {\"a\":1}\ndata: {\"a\":2}")
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(events) = %d, want 2", len(got))
	}
}

func TestDecoderEmptySource(t *testing.T) {
	got, err := decodeAll(t, "")
	if err != nil || len(got) != 0 {
		t.Errorf("decodeAll(\"\") = %v, %v, want no events and no error", got, err)
	}
}

func TestDecoderIsIdempotent(t *testing.T) {
	src := "data: {\"i\":0}\n\ndata: nope\ndata: {\"i\":1}\ndata: [DONE]\n"
	first, err1 := decodeAll(t, src)
	second, err2 := decodeAll(t, src)
	if err1 != nil || err2 != nil {
		t.Fatalf("errors = %v, %v", err1, err2)
	}
	if strings.Join(first, "|") != strings.Join(second, "|") {
		t.Errorf("decoding twice gave %v and %v", first, second)
	}
}

func TestDecoderReadErrorPropagates(t *testing.T) {
	readErr := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader("data: {\"a\":1}\n"), iotest.ErrReader(readErr))
	d := NewDecoder(r, nil)

	if _, err := d.Next(); err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	if _, err := d.Next(); !errors.Is(err, readErr) {
		t.Errorf("second Next() error = %v, want %v", err, readErr)
	}
}

func TestDecoderDoesNotReadPastSentinel(t *testing.T) {
	r := io.MultiReader(strings.NewReader("data: [DONE]\n"), iotest.ErrReader(errors.New("should not be read")))
	d := NewDecoder(r, nil)

	for i := 0; i < 2; i++ {
		if _, err := d.Next(); err != io.EOF {
			t.Fatalf("Next() #%d error = %v, want io.EOF", i, err)
		}
	}
}

func TestEventDecode(t *testing.T) {
	ev := Event{Data: []byte(`{"id":"c1","n":3}`)}
	var v struct {
		ID string `json:"id"`
		N  int    `json:"n"`
	}
	if err := ev.Decode(&v); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if v.ID != "c1" || v.N != 3 {
		t.Errorf("Decode() = %+v", v)
	}
}

func TestStreamCollect(t *testing.T) {
	s := NewStream(context.Background(), func(ctx context.Context, emit func(int) bool) error {
		for i := 0; i < 3; i++ {
			if !emit(i) {
				return ctx.Err()
			}
		}
		return nil
	})

	got, err := Collect(context.Background(), s)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("Collect() = %v, want [0 1 2]", got)
	}
}

func TestStreamErrorAfterValues(t *testing.T) {
	streamErr := errors.New("mid-stream failure")
	s := NewStream(context.Background(), func(ctx context.Context, emit func(string) bool) error {
		emit("a")
		return streamErr
	})

	got, err := Collect(context.Background(), s)
	if !errors.Is(err, streamErr) {
		t.Errorf("Collect() error = %v, want %v", err, streamErr)
	}
	if len(got) != 1 {
		t.Errorf("Collect() values = %v, want [a]", got)
	}
}

func TestStreamIsLazy(t *testing.T) {
	produced := make(chan int, 10)
	s := NewStream(context.Background(), func(ctx context.Context, emit func(int) bool) error {
		for i := 0; ; i++ {
			produced <- i
			if !emit(i) {
				return nil
			}
		}
	})
	defer s.Close()

	<-s.Ch
	time.Sleep(20 * time.Millisecond)
	// One value consumed, at most one more staged on the unbuffered channel.
	if n := len(produced); n > 2 {
		t.Errorf("producer ran ahead: %d values produced", n)
	}
}

func TestStreamCloseStopsProducer(t *testing.T) {
	stopped := make(chan struct{})
	s := NewStream(context.Background(), func(ctx context.Context, emit func(int) bool) error {
		defer close(stopped)
		for i := 0; emit(i); i++ {
		}
		return ctx.Err()
	})

	<-s.Ch
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("producer did not stop after Close")
	}

	// Closing twice is fine.
	_ = s.Close()
}

func TestCollectContextCancel(t *testing.T) {
	s := NewStream(context.Background(), func(ctx context.Context, emit func(int) bool) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Collect(ctx, s); !errors.Is(err, context.Canceled) {
		t.Errorf("Collect() error = %v, want context.Canceled", err)
	}
}
