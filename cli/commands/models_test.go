package commands

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/synapsai-cloud/synapsai-go/synapsai"
)

func TestModelsList(t *testing.T) {
	t.Setenv(synapsai.APIKeyEnvVar, "env-key")
	srv := newJSONServer(t, http.StatusOK, synapsai.ModelList{
		Object: "list",
		Data: []synapsai.Model{
			{ID: "llama-3", OwnedBy: "meta", Status: "ready"},
			{ID: "e5-large", OwnedBy: "intfloat", Status: "loading"},
		},
	})

	t.Run("table", func(t *testing.T) {
		ta := newTestApp(t, srv.URL, testAppOptions{})
		if err := ta.run(t, "models", "list"); err != nil {
			t.Fatalf("run() error = %v", err)
		}

		out := ta.stdout.String()
		for _, want := range []string{"ID", "llama-3", "meta", "loading"} {
			if !strings.Contains(out, want) {
				t.Errorf("stdout missing %q:\n%s", want, out)
			}
		}
		if got := srv.last().path; got != "/models" {
			t.Errorf("path = %q, want /models", got)
		}
	})

	t.Run("json", func(t *testing.T) {
		ta := newTestApp(t, srv.URL, testAppOptions{})
		if err := ta.run(t, "models", "list", "--json"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		var got synapsai.ModelList
		if err := json.Unmarshal(ta.stdout.Bytes(), &got); err != nil {
			t.Fatalf("stdout is not JSON: %v", err)
		}
		if len(got.Data) != 2 {
			t.Errorf("len(Data) = %d, want 2", len(got.Data))
		}
	})
}

func TestModelsGet(t *testing.T) {
	t.Setenv(synapsai.APIKeyEnvVar, "env-key")
	srv := newJSONServer(t, http.StatusOK, synapsai.Model{ID: "llama-3", OwnedBy: "meta", Status: "ready", Created: 1700000000})
	ta := newTestApp(t, srv.URL, testAppOptions{})

	if err := ta.run(t, "models", "get", "llama-3"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if got := srv.last().path; got != "/models/llama-3" {
		t.Errorf("path = %q, want /models/llama-3", got)
	}
	out := ta.stdout.String()
	if !strings.Contains(out, "id:       llama-3") || !strings.Contains(out, "created:  2023-11-14T22:13:20Z") {
		t.Errorf("stdout = %q", out)
	}
}
