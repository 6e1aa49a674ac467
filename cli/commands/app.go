// Package commands implements the synapsai command line using Cobra.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/synapsai-cloud/synapsai-go/cli/config"
	"github.com/synapsai-cloud/synapsai-go/cli/keystore"
	"github.com/synapsai-cloud/synapsai-go/synapsai"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// ClientFactory creates an API client.
type ClientFactory func(apiKey string, opts ...synapsai.Option) (*synapsai.Client, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig  ConfigLoader
	newClient   ClientFactory
	newKeystore KeystoreFactory
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer

	// global flags
	cfgFile    string
	baseURL    string
	model      string
	maxRetries int
	timeout    time.Duration
	jsonOutput bool
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithClientFactory injects a client factory dependency.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newClient = factory
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:  config.LoadConfig,
		newClient:   synapsai.New,
		newKeystore: keystore.NewKeystore,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "synapsai",
		Short: "Command-line client for the SynapsAI inference API",
		Long: `synapsai talks to the SynapsAI inference API.

The API key is read from SYNAPSAI_API_KEY (a .env file in the working
directory is honoured) or from the encrypted keystore managed with
'synapsai keys'.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ~/.synapsai/config.yaml)")
	flags.StringVar(&a.baseURL, "base-url", "", "API base URL")
	flags.StringVar(&a.model, "model", "", "model ID")
	flags.IntVar(&a.maxRetries, "max-retries", 0, "attempts per request including the first (0 = default)")
	flags.DurationVar(&a.timeout, "timeout", 0, "per-attempt timeout (0 = default)")
	flags.BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	flags.BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newChatCommand())
	root.AddCommand(a.newCompleteCommand())
	root.AddCommand(a.newEmbedCommand())
	root.AddCommand(a.newModelsCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

func (a *App) initConfig() error {
	// Missing .env files are fine.
	_ = godotenv.Load()

	if a.verbose {
		a.logger = slog.New(tint.NewHandler(a.stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}))
	}

	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return a.fail(ExitValidation, fmt.Errorf("load config: %w", err))
	}
	a.cfg = cfg
	a.logger.Debug("config loaded", "path", path)
	return nil
}

// client builds an API client from flags, config and the stored key.
func (a *App) client() (*synapsai.Client, error) {
	apiKey, err := a.apiKey()
	if err != nil {
		return nil, err
	}

	opts := []synapsai.Option{synapsai.WithLogger(a.logger)}

	baseURL := a.baseURL
	if baseURL == "" {
		baseURL = a.cfg.BaseURL
	}
	if baseURL != "" {
		opts = append(opts, synapsai.WithBaseURL(baseURL))
	}

	maxRetries := a.maxRetries
	if maxRetries == 0 {
		maxRetries = a.cfg.MaxRetries
	}
	if maxRetries > 0 {
		opts = append(opts, synapsai.WithMaxRetries(maxRetries))
	}

	timeout := a.timeout
	if timeout == 0 {
		// Validated when the config was loaded.
		timeout, _ = a.cfg.TimeoutDuration()
	}
	if timeout > 0 {
		opts = append(opts, synapsai.WithTimeout(timeout))
	}

	for k, v := range a.cfg.Headers {
		opts = append(opts, synapsai.WithHeader(k, v))
	}

	client, err := a.newClient(apiKey, opts...)
	if err != nil {
		return nil, a.handleError(err)
	}
	return client, nil
}

// apiKey prefers the environment over the keystore.
func (a *App) apiKey() (string, error) {
	if key := os.Getenv(synapsai.APIKeyEnvVar); key != "" {
		return key, nil
	}

	ks, err := a.newKeystore()
	if err != nil {
		return "", a.fail(ExitValidation, fmt.Errorf("open keystore: %w", err))
	}

	name := a.cfg.KeyName()
	key, err := ks.Get(name)
	if err != nil {
		var nf *keystore.ErrKeyNotFound
		if errors.As(err, &nf) {
			return "", a.fail(ExitValidation, fmt.Errorf("no API key: set %s or run 'synapsai keys set %s'", synapsai.APIKeyEnvVar, name))
		}
		return "", a.fail(ExitValidation, fmt.Errorf("read API key: %w", err))
	}
	return key, nil
}

// requireModel returns the --model flag, else the first non-empty
// fallback, or fails with a validation exit.
func (a *App) requireModel(fallbacks ...string) (string, error) {
	if a.model != "" {
		return a.model, nil
	}
	for _, m := range fallbacks {
		if m != "" {
			return m, nil
		}
	}
	return "", a.fail(ExitValidation, errors.New("model required: use --model or set default_model in config"))
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}

// ExecuteContext runs the default app root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return defaultApp.ExecuteContext(ctx)
}
