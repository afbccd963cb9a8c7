package ai

import (
	"net/http"
	"time"

	"whiteboard2web/internal/ai/images"
	"whiteboard2web/internal/ai/prompts"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is the OpenAI-compatible endpoint used for completions.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is the completion model used when none is configured.
	DefaultModel = "deepseek/deepseek-chat"
	// DefaultTimeout bounds a single completion request.
	DefaultTimeout = 30 * time.Second

	defaultReferer = "https://whiteboard2web.com"
	defaultTitle   = "Whiteboard2Web Functional Generator"
)

// Sampling parameters sent with every completion request.
const (
	maxTokens   = 6000
	temperature = 0.5
	topP        = 0.9
)

// Config holds everything the generator needs. An empty APIKey is valid:
// every request is then answered with the fallback site.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	MaxImageBytes int
	ImageDir      string
	Style         prompts.Style
	Referer       string
	Title         string
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxImageBytes <= 0 {
		c.MaxImageBytes = images.DefaultMaxBytes
	}
	if c.Style == "" {
		c.Style = prompts.StyleFunctional
	}
	if c.Referer == "" {
		c.Referer = defaultReferer
	}
	if c.Title == "" {
		c.Title = defaultTitle
	}
	return c
}

// Generator turns whiteboard designs into websites. It holds no per-request
// state and is safe for concurrent use.
type Generator struct {
	client *openai.Client
	cfg    Config
}

func NewGenerator(cfg Config) *Generator {
	cfg = cfg.withDefaults()

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	config.HTTPClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &attributionTransport{
			base:    http.DefaultTransport,
			referer: cfg.Referer,
			title:   cfg.Title,
		},
	}

	return &Generator{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
	}
}

// attributionTransport adds the app attribution headers OpenRouter uses for its rankings.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("HTTP-Referer", t.referer)
	req.Header.Set("X-Title", t.title)
	return t.base.RoundTrip(req)
}
