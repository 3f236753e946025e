package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medshelf/backend/internal/domain"
)

func TestSelectProvider(t *testing.T) {
	t.Run("selects gemini when only gemini key present", func(t *testing.T) {
		provider, err := SelectProvider(ProviderConfig{GeminiAPIKey: "g-key"})
		require.NoError(t, err)
		assert.Equal(t, "gemini", provider.Name())
	})

	t.Run("selects openai when only openai key present", func(t *testing.T) {
		provider, err := SelectProvider(ProviderConfig{OpenAIAPIKey: "sk-key"})
		require.NoError(t, err)
		assert.Equal(t, "openai", provider.Name())
	})

	t.Run("prefers gemini when both keys present", func(t *testing.T) {
		provider, err := SelectProvider(ProviderConfig{
			GeminiAPIKey: "g-key",
			OpenAIAPIKey: "sk-key",
		})
		require.NoError(t, err)
		assert.Equal(t, "gemini", provider.Name())
	})

	t.Run("fails fast when neither key present", func(t *testing.T) {
		provider, err := SelectProvider(ProviderConfig{})
		assert.Nil(t, provider)
		assert.True(t, errors.Is(err, domain.ErrNoAIProvider))
	})
}

func TestProviderConfigConfigured(t *testing.T) {
	assert.False(t, ProviderConfig{}.Configured())
	assert.True(t, ProviderConfig{GeminiAPIKey: "g"}.Configured())
	assert.True(t, ProviderConfig{OpenAIAPIKey: "o"}.Configured())
}
