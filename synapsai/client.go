package synapsai

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synapsai-cloud/synapsai-go/core"
	"github.com/synapsai-cloud/synapsai-go/internal/normalize"
)

// Client is a SynapsAI API client. It is safe for concurrent use.
//
// Resource services hang off the client:
//
//	client, err := synapsai.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Chat.Completions.Create(ctx, &synapsai.ChatCompletionParams{
//	    Model:    "llama-3.1-8b-instruct",
//	    Messages: []synapsai.ChatMessage{synapsai.UserMessage("Hello!")},
//	})
type Client struct {
	config   Config
	ownsHTTP bool

	// Seams for tests.
	sleep        func(ctx context.Context, d time.Duration) error
	newRequestID func() string

	Chat              *ChatService
	Completions       *CompletionsService
	Embeddings        *EmbeddingsService
	Images            *ImagesService
	Audio             *AudioService
	Classifications   *ClassificationsService
	QuestionAnswering *QuestionAnsweringService
	FillMask          *FillMaskService
	Models            *ModelsService
}

// New creates a client. An empty apiKey falls back to SYNAPSAI_API_KEY; if
// neither is set New fails with a KindAuthentication error and no request is made.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnvVar)
	}
	if apiKey == "" {
		return nil, normalize.AuthenticationError(core.ErrAPIKeyMissing)
	}

	cfg := Config{
		APIKey:     core.NewSecret(apiKey),
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv(BaseURLEnvVar)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Telemetry == nil {
		cfg.Telemetry = core.NoopTelemetryHook{}
	}
	if cfg.RetryPolicy == nil {
		cfg.RetryPolicy = core.DefaultRetryPolicy()
	}

	ownsHTTP := cfg.HTTPClient == nil
	if ownsHTTP {
		cfg.HTTPClient = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	cfg.Headers = cfg.Headers.Clone()

	c := &Client{
		config:       cfg,
		ownsHTTP:     ownsHTTP,
		sleep:        sleepContext,
		newRequestID: uuid.NewString,
	}
	c.Chat = &ChatService{Completions: &ChatCompletionsService{client: c}}
	c.Completions = &CompletionsService{client: c}
	c.Embeddings = &EmbeddingsService{client: c}
	c.Images = &ImagesService{client: c}
	c.Audio = &AudioService{
		Speech:         &SpeechService{client: c},
		Transcriptions: &TranscriptionsService{client: c},
	}
	c.Classifications = &ClassificationsService{client: c, ZeroShot: &ZeroShotService{client: c}}
	c.QuestionAnswering = &QuestionAnsweringService{client: c}
	c.FillMask = &FillMaskService{client: c}
	c.Models = &ModelsService{client: c}
	return c, nil
}

// NewFromEnv creates a client from SYNAPSAI_API_KEY and SYNAPSAI_API_BASE.
func NewFromEnv(opts ...Option) (*Client, error) {
	return New("", opts...)
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	cfg := c.config
	cfg.Headers = cfg.Headers.Clone()
	return cfg
}

// Close releases idle connections held by a client-owned transport.
// Open streams stay usable until they are closed. A transport supplied with
// WithHTTPClient is left alone.
func (c *Client) Close() error {
	if c.ownsHTTP {
		c.config.HTTPClient.CloseIdleConnections()
	}
	return nil
}

// buildHeaders constructs the headers shared by every request.
func (c *Client) buildHeaders() http.Header {
	headers := make(http.Header)

	headers.Set("Content-Type", "application/json")
	headers.Set("User-Agent", "synapsai-go/"+Version)
	headers.Set("Authorization", c.config.APIKey.Bearer())

	// Caller headers win over the defaults.
	for key, values := range c.config.Headers {
		headers[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	return headers
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
