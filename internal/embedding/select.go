package embedding

import (
	"errors"
	"fmt"

	"lightrag/internal/embedding/local"
	"lightrag/internal/embedding/ollama"
	"lightrag/internal/embedding/openai"
	"lightrag/internal/logger"
)

// Kind names a backend choice. KindAuto prefers OpenAI and falls back to the
// local backend when no credentials are available.
type Kind string

const (
	KindAuto   Kind = "auto"
	KindLocal  Kind = "local"
	KindOpenAI Kind = "openai"
	KindOllama Kind = "ollama"
)

// ErrUnknownKind is returned by New for a Kind it does not recognise.
var ErrUnknownKind = errors.New("unknown embedding backend")

// Config is the backend choice plus the settings of every candidate backend.
type Config struct {
	Kind       Kind
	Dimension  int // local backend only
	MaxRetries int // extra attempts for remote backends; 0 disables retries
	OpenAI     openai.Config
	Ollama     ollama.Config
}

// New builds the configured backend once. A remote backend that cannot be
// constructed is replaced by the local one and the reason is logged.
func New(cfg Config) (Backend, error) {
	var (
		remote Backend
		err    error
	)
	switch cfg.Kind {
	case KindLocal:
		return local.New(cfg.Dimension), nil
	case KindAuto, "", KindOpenAI:
		var c *openai.Client
		c, err = openai.New(cfg.OpenAI)
		if err == nil {
			remote = c
		}
	case KindOllama:
		var c *ollama.Client
		c, err = ollama.New(cfg.Ollama)
		if err == nil {
			remote = c
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}

	if err != nil {
		fallback := local.New(cfg.Dimension)
		logger.Warn("remote embeddings unavailable, using local backend",
			"requested", kindOrAuto(cfg.Kind), "err", err, "dimension", fallback.Dimension())
		return fallback, nil
	}

	logger.Info("embedding backend ready", "backend", remote.Name(), "dimension", remote.Dimension())
	return WithRetry(remote, cfg.MaxRetries+1), nil
}

func kindOrAuto(k Kind) Kind {
	if k == "" {
		return KindAuto
	}
	return k
}
