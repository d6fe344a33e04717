package services

import (
	"context"
	"fmt"
	"io"

	"github.com/lukeperry/ssu-career-connect/internal/clients/embedding"
	"github.com/lukeperry/ssu-career-connect/internal/clients/gemini"
	"github.com/lukeperry/ssu-career-connect/internal/config"
	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	log "github.com/sirupsen/logrus"
)

// TextModel is the configured similarity model. Model is nil for the lexical
// provider, which leaves the text scorer on keyword coverage alone.
type TextModel struct {
	Model  scoring.SimilarityModel
	closer io.Closer
}

// healthChecker is implemented by models served by a process with a health endpoint.
type healthChecker interface {
	Health(ctx context.Context) (string, error)
}

// Health asks the model service which model it serves. checked is false when the
// provider has no service to ask.
func (m TextModel) Health(ctx context.Context) (model string, checked bool, err error) {
	checker, ok := m.Model.(healthChecker)
	if !ok {
		return "", false, nil
	}
	model, err = checker.Health(ctx)
	return model, true, err
}

func (m TextModel) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

func NewTextModel(ctx context.Context, cfg config.TextModelConfig) (TextModel, error) {
	switch cfg.Provider {
	case config.ProviderLexical, "":
		log.Info("text model: lexical overlap only")
		return TextModel{}, nil

	case config.ProviderEmbedding:
		client := embedding.NewClient(cfg.URL)
		if cfg.MaxRequestsPerMinute > 0 {
			client.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
		}
		log.Infof("text model: embedding service at %v", cfg.URL)
		return TextModel{Model: client}, nil

	case config.ProviderGemini:
		model := gemini.ModelTextEmbedding004
		if cfg.Model != "" {
			model = gemini.Model(cfg.Model)
		}
		client, err := gemini.NewClient(ctx, cfg.APIKey, model)
		if err != nil {
			return TextModel{}, fmt.Errorf("can't create gemini client: %w", err)
		}
		if cfg.MaxRequestsPerMinute > 0 {
			client.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
		}
		if cfg.MaxRequestsPerDay > 0 {
			client.SetDayRateLimit(cfg.MaxRequestsPerDay)
		}
		log.Infof("text model: gemini %v", model)
		return TextModel{Model: client, closer: client}, nil
	}

	return TextModel{}, fmt.Errorf("unknown text model provider %q", cfg.Provider)
}
