package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medshelf/backend/config"
	httpDelivery "github.com/medshelf/backend/internal/delivery/http"
	"github.com/medshelf/backend/internal/domain"
	"github.com/medshelf/backend/internal/infrastructure/ai"
	"github.com/medshelf/backend/internal/infrastructure/cache"
	"github.com/medshelf/backend/internal/infrastructure/ocr"
	"github.com/medshelf/backend/internal/infrastructure/store"
	"github.com/medshelf/backend/internal/usecase"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("store", cfg.Store.Driver).
		Str("ocr", cfg.OCR.Backend).
		Msg("starting medshelf backend v1.0.0")

	ctx := context.Background()

	// Inventory store
	medicines, err := newMedicineStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize inventory store")
	}

	// OCR backend
	ocrClient, err := ocr.NewClient(ctx, ocr.Config{
		Backend:         ocr.Backend(cfg.OCR.Backend),
		CredentialsFile: cfg.OCR.CredentialsFile,
		Languages:       cfg.OCR.Languages,
		Timeout:         cfg.OCR.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OCR backend")
	}

	// AI provider: selected once at startup, Gemini preferred when both keys
	// are present. A missing credential is not fatal; the analyze endpoint
	// reports the configuration error instead.
	providerCfg := ai.ProviderConfig{
		GeminiAPIKey: cfg.AI.GeminiAPIKey,
		OpenAIAPIKey: cfg.AI.OpenAIAPIKey,
		GeminiModel:  cfg.AI.GeminiModel,
		OpenAIModel:  cfg.AI.OpenAIModel,
	}

	matchingService := usecase.NewMatchingService(medicines, usecase.MatchConfig{
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})

	var prescriptionService *usecase.PrescriptionService
	diagnostics := httpDelivery.DiagnosticsInfo{OCRBackend: ocrClient.Name()}

	provider, err := ai.SelectProvider(providerCfg)
	switch {
	case err == nil:
		prescriptionService = usecase.NewPrescriptionService(
			ocrClient,
			usecase.NewExtractorService(provider),
			matchingService,
			cache.NewMemoryCache(),
			usecase.PrescriptionServiceConfig{CacheTTL: cfg.Cache.TTL},
		)
		diagnostics.AIConfigured = true
		diagnostics.AIProvider = provider.Name()
		diagnostics.CredentialActive = keyPreview(activeKey(providerCfg))
	case errors.Is(err, domain.ErrNoAIProvider):
		log.Warn().Msg("no AI provider configured; prescription analysis disabled until GEMINI_API_KEY or OPENAI_API_KEY is set")
	default:
		log.Fatal().Err(err).Msg("failed to select AI provider")
	}

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(prescriptionService, matchingService, medicines, diagnostics)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newMedicineStore builds the configured inventory store implementation.
func newMedicineStore(cfg *config.Config) (domain.MedicineRepository, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgresStore(cfg.Store.DSN)
	default:
		log.Warn().Msg("using in-memory inventory store; data will not survive restarts")
		return store.NewMemoryStore(), nil
	}
}

// activeKey returns the credential the selector ends up using.
func activeKey(cfg ai.ProviderConfig) string {
	if cfg.GeminiAPIKey != "" {
		return cfg.GeminiAPIKey
	}
	return cfg.OpenAIAPIKey
}

// keyPreview truncates a credential for diagnostics output.
func keyPreview(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:8] + "..."
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
