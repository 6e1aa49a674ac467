package synapsai

import (
	"reflect"
	"testing"
)

func TestBuildPayload(t *testing.T) {
	var nilPtr *int
	var nilMap map[string]float64
	var nilSlice []string

	got := buildPayload(map[string]any{
		"model":      "m",
		"max_tokens": nilPtr,
		"logit_bias": nilMap,
		"stop":       nilSlice,
		"seed":       Ptr(7),
		"empty":      []string{},
		"zero":       0,
		"absent":     nil,
	}, map[string]any{
		"model":  "overridden",
		"custom": "x",
		"gone":   nil,
	})

	want := map[string]any{
		"model":  "m",
		"seed":   Ptr(7),
		"empty":  []string{},
		"zero":   0,
		"custom": "x",
	}
	if len(got) != len(want) {
		t.Fatalf("payload = %v, want keys %v", got, want)
	}
	for k, v := range want {
		g, ok := got[k]
		if !ok {
			t.Errorf("missing key %q", k)
			continue
		}
		if p, ok := g.(*int); ok {
			if *p != *v.(*int) {
				t.Errorf("%s = %d, want %d", k, *p, *v.(*int))
			}
			continue
		}
		if !reflect.DeepEqual(g, v) {
			t.Errorf("%s = %#v, want %#v", k, g, v)
		}
	}
}

func TestValueOr(t *testing.T) {
	if got := valueOr[float64](nil, 1.5); got != 1.5 {
		t.Errorf("valueOr(nil) = %v, want 1.5", got)
	}
	if got := valueOr(Ptr(0.0), 1.5); got != 0 {
		t.Errorf("valueOr(&0) = %v, want 0", got)
	}
	if got := stringOr("", "d"); got != "d" {
		t.Errorf("stringOr(\"\") = %q, want d", got)
	}
}

func TestBuildChatPayload(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := buildChatPayload(&ChatCompletionParams{
			Model:    "m",
			Messages: []ChatMessage{UserMessage("hi")},
		}, false)
		if err != nil {
			t.Fatalf("buildChatPayload() error = %v", err)
		}
		checks := map[string]any{
			"temperature":       1.0,
			"top_p":             1.0,
			"n":                 1,
			"presence_penalty":  0.0,
			"frequency_penalty": 0.0,
			"stream":            false,
		}
		for k, want := range checks {
			if p[k] != want {
				t.Errorf("%s = %v, want %v", k, p[k], want)
			}
		}
		for _, k := range []string{"max_tokens", "tools", "stop", "seed", "response_format"} {
			if _, ok := p[k]; ok {
				t.Errorf("%s should be omitted when unset", k)
			}
		}
	})

	t.Run("explicit values and extras", func(t *testing.T) {
		p, err := buildChatPayload(&ChatCompletionParams{
			Model:       "m",
			Messages:    []ChatMessage{UserMessage("hi")},
			Temperature: Ptr(0.0),
			Extra:       map[string]any{"temperature": 9.0, "guided_json": "{}"},
		}, true)
		if err != nil {
			t.Fatalf("buildChatPayload() error = %v", err)
		}
		if p["temperature"] != 0.0 {
			t.Errorf("temperature = %v, want 0", p["temperature"])
		}
		if p["guided_json"] != "{}" {
			t.Errorf("guided_json = %v, want {}", p["guided_json"])
		}
		if p["stream"] != true {
			t.Errorf("stream = %v, want true", p["stream"])
		}
	})

	t.Run("validation", func(t *testing.T) {
		if _, err := buildChatPayload(&ChatCompletionParams{Messages: []ChatMessage{UserMessage("x")}}, false); err == nil {
			t.Error("missing model should fail")
		}
		if _, err := buildChatPayload(&ChatCompletionParams{Model: "m"}, false); err == nil {
			t.Error("missing messages should fail")
		}
		if _, err := buildChatPayload(nil, false); err == nil {
			t.Error("nil params should fail")
		}
	})
}

func TestBuildCompletionPayloadDefaults(t *testing.T) {
	p, err := buildCompletionPayload(&CompletionParams{Model: "m", Prompt: "Once"}, false)
	if err != nil {
		t.Fatalf("buildCompletionPayload() error = %v", err)
	}
	if p["max_completion_tokens"] != 128 {
		t.Errorf("max_completion_tokens = %v, want 128", p["max_completion_tokens"])
	}
	stop, ok := p["stop"].([]string)
	if !ok || len(stop) != 0 {
		t.Errorf("stop = %#v, want empty list", p["stop"])
	}
}
