package main

import (
	"context"

	"github.com/matsen/arxiv-search/internal/config"
	"github.com/matsen/arxiv-search/internal/embedding"
)

// newProvider builds the Ollama provider from configuration.
func newProvider(cfg *config.Config) *embedding.OllamaProvider {
	var opts []embedding.OllamaOption
	if cfg.OllamaURL != "" {
		opts = append(opts, embedding.WithBaseURL(cfg.OllamaURL))
	}
	if cfg.Model != "" {
		opts = append(opts, embedding.WithModel(cfg.Model))
	}
	if cfg.Dimensions > 0 {
		opts = append(opts, embedding.WithDimensions(cfg.Dimensions))
	}
	return embedding.NewOllamaProvider(opts...)
}

// mustCheckProvider verifies Ollama is reachable and has the model, exiting
// with a helpful message otherwise.
func mustCheckProvider(ctx context.Context, provider *embedding.OllamaProvider) {
	if err := provider.IsAvailable(ctx); err != nil {
		exitWithError(ExitDataError, "Ollama is not running\n\nStart Ollama with 'ollama serve' or install from https://ollama.ai")
	}

	hasModel, err := provider.HasModel(ctx)
	if err != nil {
		exitWithError(ExitError, "checking model availability: %v", err)
	}
	if !hasModel {
		exitWithError(ExitModelNotFound, "Embedding model '%s' not found\n\nRun 'ollama pull %s' to download it.", provider.ModelName(), provider.ModelName())
	}
}
