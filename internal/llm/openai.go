package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	kitllm "github.com/anatolykoptev/go-kit/llm"
)

type OpenAIConfig struct {
	BaseURL      string
	APIKey       string
	FallbackKeys []string
	Model        string
	MaxTokens    int
	Temperature  float64
	HTTPTimeout  time.Duration
}

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint.
type OpenAIProvider struct {
	model    string
	complete func(ctx context.Context, prompt string) (string, error)
}

func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: base URL and API key are required")
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2048
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}

	client := kitllm.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model,
		kitllm.WithFallbackKeys(cfg.FallbackKeys),
		kitllm.WithMaxTokens(cfg.MaxTokens),
		kitllm.WithTemperature(cfg.Temperature),
		kitllm.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)

	return &OpenAIProvider{
		model: cfg.Model,
		complete: func(ctx context.Context, prompt string) (string, error) {
			return client.Complete(ctx, "", prompt,
				kitllm.WithChatTemperature(cfg.Temperature),
				kitllm.WithChatMaxTokens(cfg.MaxTokens),
			)
		},
	}, nil
}

func (o *OpenAIProvider) Name() string { return "openai" }

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := o.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) == "" {
		return "", errors.New("openai: empty completion")
	}
	return out, nil
}
