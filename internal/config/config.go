package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"lightrag/internal/embedding"
	"lightrag/internal/embedding/ollama"
	"lightrag/internal/embedding/openai"
	"lightrag/internal/service"
)

// ErrUnknownType is returned by Validate for an unsupported type name.
var ErrUnknownType = errors.New("unknown type")

// RetrieverConfig mirrors service.Config.
type RetrieverConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	VectorTopK   int `yaml:"vector_top_k"`
	GraphDepth   int `yaml:"graph_depth"`
	EmbeddingDim int `yaml:"embedding_dim"`
}

// ChunkerConfig picks the chunking strategy. The word chunker takes its
// window from RetrieverConfig.
type ChunkerConfig struct {
	Type              string `yaml:"type"`
	SentencesPerChunk int    `yaml:"sentences_per_chunk"`
	OverlapSentences  int    `yaml:"overlap_sentences"`
}

// OpenAIEmbedderConfig configures the OpenAI-compatible backend. The key is
// read from the environment variable named by APIKeyEnv.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// OllamaEmbedderConfig configures the Ollama backend.
type OllamaEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	Dimension   int    `yaml:"dimension"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects the backend: auto, local, openai or ollama.
type EmbedderConfig struct {
	Type       string               `yaml:"type"`
	MaxRetries int                  `yaml:"max_retries"`
	OpenAI     OpenAIEmbedderConfig `yaml:"openai"`
	Ollama     OllamaEmbedderConfig `yaml:"ollama"`
}

// SQLiteConfig names the database and the query returning (source, text) rows.
type SQLiteConfig struct {
	Path  string `yaml:"path"`
	Query string `yaml:"query"`
}

// LoaderConfig selects where documents come from: files or sqlite.
type LoaderConfig struct {
	Type      string       `yaml:"type"`
	BatchSize int          `yaml:"batch_size"`
	SQLite    SQLiteConfig `yaml:"sqlite"`
}

// DigestConfig limits the extractive digest shown with results.
type DigestConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// LogConfig controls console logging.
type LogConfig struct {
	Debug bool `yaml:"debug"`
}

// AppConfig is the root of the YAML file.
type AppConfig struct {
	Retriever RetrieverConfig `yaml:"retriever"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Loader    LoaderConfig    `yaml:"loader"`
	Digest    DigestConfig    `yaml:"digest"`
	Log       LogConfig       `yaml:"log"`
}

// Load reads a config file over the defaults, so keys absent from the file
// keep their default values and explicit zeros survive. A missing file yields
// the defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./lightrag.yaml first, then ~/.config/lightrag/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "lightrag.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lightrag", "config.yaml"), nil
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{
		Retriever: RetrieverConfig{ChunkOverlap: service.DefaultConfig().ChunkOverlap},
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills fields whose zero value is not meaningful. A zero
// chunk overlap is valid and is left as is.
func applyDefaults(cfg *AppConfig) {
	d := service.DefaultConfig()
	r := &cfg.Retriever
	if r.ChunkSize == 0 {
		r.ChunkSize = d.ChunkSize
	}
	if r.VectorTopK == 0 {
		r.VectorTopK = d.VectorTopK
	}
	if r.GraphDepth == 0 {
		r.GraphDepth = d.GraphDepth
	}
	if r.EmbeddingDim == 0 {
		r.EmbeddingDim = d.EmbeddingDim
	}

	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "word"
	}
	if cfg.Chunker.SentencesPerChunk == 0 {
		cfg.Chunker.SentencesPerChunk = 5
	}

	e := &cfg.Embedder
	if e.Type == "" {
		e.Type = string(embedding.KindAuto)
	}
	if e.OpenAI.BaseURL == "" {
		e.OpenAI.BaseURL = openai.DefaultBaseURL
	}
	if e.OpenAI.APIKeyEnv == "" {
		e.OpenAI.APIKeyEnv = openai.DefaultAPIKeyEnv
	}
	if e.OpenAI.Model == "" {
		e.OpenAI.Model = openai.DefaultModel
	}
	if e.OpenAI.TimeoutSecs == 0 {
		e.OpenAI.TimeoutSecs = 30
	}
	if e.Ollama.BaseURL == "" {
		e.Ollama.BaseURL = ollama.DefaultBaseURL
	}
	if e.Ollama.Model == "" {
		e.Ollama.Model = ollama.DefaultModel
	}
	if e.Ollama.Dimension == 0 {
		e.Ollama.Dimension = ollama.DefaultDimension
	}
	if e.Ollama.TimeoutSecs == 0 {
		e.Ollama.TimeoutSecs = 60
	}

	if cfg.Loader.Type == "" {
		cfg.Loader.Type = "files"
	}
	if cfg.Loader.BatchSize == 0 {
		cfg.Loader.BatchSize = service.DefaultBatchSize
	}
	if cfg.Digest.MaxSentences == 0 {
		cfg.Digest.MaxSentences = 3
	}
}

// Validate rejects type names no component understands.
func (c *AppConfig) Validate() error {
	if c.Retriever.ChunkOverlap < 0 {
		return fmt.Errorf("retriever: negative chunk_overlap %d", c.Retriever.ChunkOverlap)
	}
	switch c.Chunker.Type {
	case "word", "sentence":
	default:
		return fmt.Errorf("chunker: %w %q", ErrUnknownType, c.Chunker.Type)
	}
	switch embedding.Kind(c.Embedder.Type) {
	case embedding.KindAuto, embedding.KindLocal, embedding.KindOpenAI, embedding.KindOllama:
	default:
		return fmt.Errorf("embedder: %w %q", ErrUnknownType, c.Embedder.Type)
	}
	switch c.Loader.Type {
	case "files", "sqlite":
	default:
		return fmt.Errorf("loader: %w %q", ErrUnknownType, c.Loader.Type)
	}
	return nil
}

// ServiceConfig converts the retriever section for service.New.
func (c *AppConfig) ServiceConfig() service.Config {
	r := c.Retriever
	return service.Config{
		ChunkSize:    r.ChunkSize,
		ChunkOverlap: r.ChunkOverlap,
		VectorTopK:   r.VectorTopK,
		GraphDepth:   r.GraphDepth,
		EmbeddingDim: r.EmbeddingDim,
	}
}

// EmbeddingConfig converts the embedder section for embedding.New.
func (c *AppConfig) EmbeddingConfig() embedding.Config {
	e := c.Embedder
	return embedding.Config{
		Kind:       embedding.Kind(e.Type),
		Dimension:  c.Retriever.EmbeddingDim,
		MaxRetries: e.MaxRetries,
		OpenAI: openai.Config{
			BaseURL:   e.OpenAI.BaseURL,
			APIKeyEnv: e.OpenAI.APIKeyEnv,
			Model:     e.OpenAI.Model,
			Timeout:   time.Duration(e.OpenAI.TimeoutSecs) * time.Second,
		},
		Ollama: ollama.Config{
			BaseURL:   e.Ollama.BaseURL,
			Model:     e.Ollama.Model,
			Dimension: e.Ollama.Dimension,
			Timeout:   time.Duration(e.Ollama.TimeoutSecs) * time.Second,
		},
	}
}
