package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/synapsai-cloud/synapsai-go/cli/config"
	"github.com/synapsai-cloud/synapsai-go/synapsai"
)

func TestVersionVariables(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
	if BuildDate == "" {
		t.Error("BuildDate should not be empty")
	}
}

func TestVersionCommand(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		ta := newTestApp(t, "http://unused", testAppOptions{})
		if err := ta.run(t, "version"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		out := ta.stdout.String()
		if !strings.HasPrefix(out, "synapsai "+Version+"\n") {
			t.Errorf("stdout = %q", out)
		}
		if !strings.Contains(out, "sdk:        "+synapsai.Version) {
			t.Errorf("stdout missing sdk version: %q", out)
		}
	})

	t.Run("json", func(t *testing.T) {
		ta := newTestApp(t, "http://unused", testAppOptions{})
		if err := ta.run(t, "version", "--json"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		var got map[string]string
		if err := json.Unmarshal(ta.stdout.Bytes(), &got); err != nil {
			t.Fatalf("stdout is not JSON: %v", err)
		}
		if got["goVersion"] != runtime.Version() {
			t.Errorf("goVersion = %q, want %q", got["goVersion"], runtime.Version())
		}
		if got["sdkVersion"] != synapsai.Version {
			t.Errorf("sdkVersion = %q, want %q", got["sdkVersion"], synapsai.Version)
		}
	})

	t.Run("ignores broken config", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		app := NewApp(
			WithIO(strings.NewReader(""), stdout, &bytes.Buffer{}),
			WithConfigLoader(func(string) (*config.Config, error) { return nil, errors.New("bad yaml") }),
		)
		app.root.SetArgs([]string{"version"})
		if err := app.ExecuteContext(t.Context()); err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if stdout.Len() == 0 {
			t.Error("version printed nothing")
		}
	})
}
