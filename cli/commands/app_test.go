package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/synapsai-cloud/synapsai-go/cli/config"
	"github.com/synapsai-cloud/synapsai-go/cli/keystore"
	"github.com/synapsai-cloud/synapsai-go/synapsai"
)

type memKeystore struct {
	mu   sync.Mutex
	keys map[string]string
}

func newMemKeystore(kv ...string) *memKeystore {
	ks := &memKeystore{keys: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		ks.keys[kv[i]] = kv[i+1]
	}
	return ks
}

func (m *memKeystore) Set(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[name] = value
	return nil
}

func (m *memKeystore) Get(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.keys[name]
	if !ok {
		return "", &keystore.ErrKeyNotFound{Name: name}
	}
	return v, nil
}

func (m *memKeystore) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[name]; !ok {
		return &keystore.ErrKeyNotFound{Name: name}
	}
	delete(m.keys, name)
	return nil
}

func (m *memKeystore) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.keys))
	for k := range m.keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

type testApp struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	ks     *memKeystore
}

type testAppOptions struct {
	cfg   *config.Config
	stdin string
	ks    *memKeystore
}

// newTestApp wires an App to baseURL with a single attempt per request.
func newTestApp(t *testing.T, baseURL string, o testAppOptions) *testApp {
	t.Helper()

	if o.cfg == nil {
		o.cfg = &config.Config{}
	}
	if o.ks == nil {
		o.ks = newMemKeystore()
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app := NewApp(
		WithIO(strings.NewReader(o.stdin), stdout, stderr),
		WithConfigLoader(func(string) (*config.Config, error) { return o.cfg, nil }),
		WithKeystoreFactory(func() (keystore.Keystore, error) { return o.ks, nil }),
		WithClientFactory(func(apiKey string, opts ...synapsai.Option) (*synapsai.Client, error) {
			opts = append(opts, synapsai.WithBaseURL(baseURL), synapsai.WithMaxRetries(1))
			return synapsai.New(apiKey, opts...)
		}),
	)
	return &testApp{app: app, stdout: stdout, stderr: stderr, ks: o.ks}
}

func (ta *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	ta.app.root.SetArgs(args)
	return ta.app.ExecuteContext(t.Context())
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		t.Fatalf("error %v is not an exit error", err)
	}
	return ee.ExitCode()
}

// jsonServer answers every request with reply and records the last request.
type jsonServer struct {
	*httptest.Server

	mu   sync.Mutex
	seen serverRequest
}

type serverRequest struct {
	count  int
	path   string
	header http.Header
	body   map[string]any
}

func (js *jsonServer) last() serverRequest {
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.seen
}

func newJSONServer(t *testing.T, status int, reply any) *jsonServer {
	t.Helper()
	js := &jsonServer{}
	js.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		js.mu.Lock()
		js.seen.count++
		js.seen.path = r.URL.Path
		js.seen.header = r.Header.Clone()
		js.seen.body = nil
		_ = json.Unmarshal(raw, &js.seen.body)
		js.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Request-Id", "req-abc")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(js.Close)
	return js
}

func TestAPIKeyResolution(t *testing.T) {
	reply := synapsai.ModelList{Object: "list"}

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv(synapsai.APIKeyEnvVar, "env-key")
		srv := newJSONServer(t, http.StatusOK, reply)
		ta := newTestApp(t, srv.URL, testAppOptions{ks: newMemKeystore("default", "ks-key")})

		if err := ta.run(t, "models", "list"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if got := srv.last().header.Get("Authorization"); got != "Bearer env-key" {
			t.Errorf("Authorization = %q, want Bearer env-key", got)
		}
	})

	t.Run("keystore fallback uses configured key name", func(t *testing.T) {
		t.Setenv(synapsai.APIKeyEnvVar, "")
		srv := newJSONServer(t, http.StatusOK, reply)
		ta := newTestApp(t, srv.URL, testAppOptions{
			cfg: &config.Config{APIKeyRef: "work"},
			ks:  newMemKeystore("default", "ks-default", "work", "ks-work"),
		})

		if err := ta.run(t, "models", "list"); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if got := srv.last().header.Get("Authorization"); got != "Bearer ks-work" {
			t.Errorf("Authorization = %q, want Bearer ks-work", got)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		t.Setenv(synapsai.APIKeyEnvVar, "")
		srv := newJSONServer(t, http.StatusOK, reply)
		ta := newTestApp(t, srv.URL, testAppOptions{})

		err := ta.run(t, "models", "list")
		if code := exitCode(t, err); code != ExitValidation {
			t.Errorf("exit code = %d, want %d", code, ExitValidation)
		}
		if !strings.Contains(ta.stderr.String(), "synapsai keys set default") {
			t.Errorf("stderr = %q, want keys set hint", ta.stderr.String())
		}
		if n := srv.last().count; n != 0 {
			t.Errorf("requests = %d, want 0", n)
		}
	})
}

func TestConfigLoadFailure(t *testing.T) {
	t.Setenv(synapsai.APIKeyEnvVar, "env-key")
	stderr := &bytes.Buffer{}
	app := NewApp(
		WithIO(strings.NewReader(""), &bytes.Buffer{}, stderr),
		WithConfigLoader(func(string) (*config.Config, error) { return nil, errors.New("bad yaml") }),
	)
	app.root.SetArgs([]string{"models", "list"})

	err := app.ExecuteContext(t.Context())
	if code := exitCode(t, err); code != ExitValidation {
		t.Errorf("exit code = %d, want %d", code, ExitValidation)
	}
	if !strings.Contains(stderr.String(), "bad yaml") {
		t.Errorf("stderr = %q, want config error", stderr.String())
	}
}

func TestConfigSuppliesClientSettings(t *testing.T) {
	t.Setenv(synapsai.APIKeyEnvVar, "env-key")
	srv := newJSONServer(t, http.StatusOK, synapsai.ModelList{Object: "list"})

	app := NewApp(
		WithIO(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}),
		WithConfigLoader(func(string) (*config.Config, error) {
			return &config.Config{BaseURL: srv.URL, Headers: map[string]string{"X-Team": "ml"}}, nil
		}),
	)
	app.root.SetArgs([]string{"models", "list"})

	if err := app.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := srv.last().header.Get("X-Team"); got != "ml" {
		t.Errorf("X-Team = %q, want ml", got)
	}
}

func configWithModel(model string) *config.Config {
	return &config.Config{DefaultModel: model}
}
