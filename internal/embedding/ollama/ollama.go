// Package ollama embeds texts with a model served by a local Ollama instance.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"lightrag/internal/embedding/batch"
)

const (
	DefaultBaseURL   = "http://localhost:11434"
	DefaultModel     = "nomic-embed-text"
	DefaultDimension = 768
	defaultTimeout   = 60 * time.Second
)

// Config describes the Ollama server and model; zero fields take defaults.
type Config struct {
	BaseURL   string
	Model     string
	Dimension int
	Timeout   time.Duration
}

type Client struct {
	client    *api.Client
	model     string
	dimension int
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ollama base url %q", cfg.BaseURL)
	}

	return &Client{
		client:    api.NewClient(u, &http.Client{Timeout: cfg.Timeout}),
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}, nil
}

func (c *Client) Name() string   { return "ollama" }
func (c *Client) Dimension() int { return c.dimension }

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	inputs, positions := batch.Prepare(texts)
	if len(inputs) == 0 {
		return batch.Scatter(len(texts), nil, nil)
	}

	res, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: c.model,
		Input: inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	return batch.Scatter(len(texts), positions, res.Embeddings)
}
