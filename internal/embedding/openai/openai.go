// Package openai embeds texts through an OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"lightrag/internal/embedding/batch"
)

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	DefaultModel     = string(goopenai.SmallEmbedding3)
	defaultTimeout   = 30 * time.Second
)

// Config describes how to reach an OpenAI-compatible embeddings endpoint.
type Config struct {
	BaseURL string
	// APIKey wins over APIKeyEnv when both are set.
	APIKey    string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// Client is an embedding backend backed by the embeddings API.
type Client struct {
	client    *goopenai.Client
	model     string
	dimension int
}

// New fails when no API key can be found; callers treat that as a signal to
// fall back to a local backend.
func New(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	oc := goopenai.DefaultConfig(key)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client:    goopenai.NewClientWithConfig(oc),
		model:     cfg.Model,
		dimension: ModelDimension(cfg.Model),
	}, nil
}

// ModelDimension reports the vector size of the known embedding models.
func ModelDimension(model string) int {
	switch model {
	case string(goopenai.LargeEmbedding3):
		return 3072
	case string(goopenai.SmallEmbedding3), string(goopenai.AdaEmbeddingV2):
		return 1536
	default:
		return 1536
	}
}

func (c *Client) Name() string   { return "openai" }
func (c *Client) Dimension() int { return c.dimension }
func (c *Client) Model() string  { return c.model }

// Embed sends every non-blank text in a single request.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	inputs, positions := batch.Prepare(texts)
	if len(inputs) == 0 {
		return batch.Scatter(len(texts), nil, nil)
	}

	resp, err := c.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: inputs,
		Model: goopenai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(inputs))
	}

	ordered := make([][]float32, len(inputs))
	filled := make([]bool, len(inputs))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(inputs) {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
		}
		if filled[d.Index] {
			return nil, fmt.Errorf("openai embeddings: duplicate index %d", d.Index)
		}
		filled[d.Index] = true
		ordered[d.Index] = d.Embedding
	}
	return batch.Scatter(len(texts), positions, ordered)
}
