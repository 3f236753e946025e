// Package ai provides the text-completion providers used to extract medicine
// names from OCR output, and the startup-time selection between them.
package ai

import (
	"github.com/rs/zerolog/log"

	"github.com/medshelf/backend/internal/domain"
)

// ProviderConfig carries the credentials and model overrides read from the
// environment at process start. It is computed once and never re-read; the
// selected provider is fixed for the life of the process.
type ProviderConfig struct {
	GeminiAPIKey string
	OpenAIAPIKey string
	GeminiModel  string
	OpenAIModel  string
}

// Configured reports whether at least one provider credential is present.
func (c ProviderConfig) Configured() bool {
	return c.GeminiAPIKey != "" || c.OpenAIAPIKey != ""
}

// SelectProvider chooses the AI backend from the configured credentials.
// Gemini is preferred when both keys are present. When neither is present it
// returns ErrNoAIProvider so the pipeline fails fast with a configuration
// error instead of attempting a network call.
func SelectProvider(cfg ProviderConfig) (domain.AIProvider, error) {
	switch {
	case cfg.GeminiAPIKey != "":
		log.Info().Str("component", "ai").Str("provider", "gemini").Str("model", cfg.GeminiModel).Msg("AI provider selected")
		return NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case cfg.OpenAIAPIKey != "":
		log.Info().Str("component", "ai").Str("provider", "openai").Str("model", cfg.OpenAIModel).Msg("AI provider selected")
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, domain.ErrNoAIProvider
	}
}
