package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medshelf/backend/internal/domain"
)

// PrescriptionServiceConfig holds configuration for the prescription service
type PrescriptionServiceConfig struct {
	CacheTTL time.Duration
}

// PrescriptionService runs the upload-to-availability pipeline:
// OCR -> AI name extraction -> inventory matching. Each upload is processed
// end to end within one request; there is no background work and the only
// shared state is the read-only inventory snapshot and the response cache.
type PrescriptionService struct {
	ocr      domain.OCRClient
	extract  *ExtractorService
	matching *MatchingService
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewPrescriptionService creates a prescription service with dependencies
func NewPrescriptionService(
	ocr domain.OCRClient,
	extractor *ExtractorService,
	matching *MatchingService,
	cache domain.CacheRepository,
	config PrescriptionServiceConfig,
) *PrescriptionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	return &PrescriptionService{
		ocr:      ocr,
		extract:  extractor,
		matching: matching,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.With().Str("component", "prescription").Logger(),
	}
}

// AnalyzePrescription extracts medicine names from a prescription image and
// checks each against the inventory.
// Flow: check cache -> OCR -> AI extraction -> match -> cache -> return.
// OCR and extraction failures abort the whole request (no partial results);
// once candidates exist, each resolves independently to none at worst.
func (s *PrescriptionService) AnalyzePrescription(ctx context.Context, image []byte) (*domain.PrescriptionAnalysis, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := analysisCacheKey(image)

	// Re-uploading the same image skips the OCR and AI calls
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		cached.Source = "Cache"
		return cached, nil
	}

	analysisID := uuid.New().String()
	logger := s.logger.With().Str("analysis_id", analysisID).Logger()

	rawText, err := s.ocr.ExtractText(ctx, image)
	if err != nil {
		logger.Error().Err(err).Str("stage", "ocr").Str("backend", s.ocr.Name()).Msg("pipeline aborted")
		return nil, err
	}
	logger.Info().Str("stage", "ocr").Int("chars", len(rawText)).Msg("text extracted")

	analysis := &domain.PrescriptionAnalysis{
		AnalysisID: analysisID,
		RawText:    rawText,
		Medicines:  []domain.MatchResult{},
		Source:     "Pipeline",
	}

	// No recognized text means nothing to extract; an empty result, not an error
	if rawText != "" {
		candidates, err := s.extract.ExtractMedicineNames(ctx, rawText)
		if err != nil {
			logger.Error().Err(err).Str("stage", "extraction").Msg("pipeline aborted")
			return nil, err
		}

		if len(candidates) == 0 {
			logger.Info().Str("stage", "extraction").Msg("no medicines found")
		} else {
			results, err := s.matching.Match(ctx, candidates)
			if err != nil {
				logger.Error().Err(err).Str("stage", "matching").Msg("pipeline aborted")
				return nil, err
			}
			analysis.Medicines = results
		}
	}

	// Empty analyses are cached too: a blank or medicine-free image re-upload
	// should skip the OCR and AI calls just like any other repeat.
	if err := s.setInCache(ctx, cacheKey, analysis); err != nil {
		// A cache write failure never fails the request
		logger.Warn().Err(err).Msg("failed to cache analysis")
	}

	return analysis, nil
}

// analysisCacheKey derives a cache key from the image content itself, so
// the same prescription photo always hits the same entry.
func analysisCacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return fmt.Sprintf("analysis:%x", sum)
}

// getFromCache retrieves and deserializes an analysis from cache
func (s *PrescriptionService) getFromCache(ctx context.Context, key string) (*domain.PrescriptionAnalysis, error) {
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// Cache stores generic JSON structures; round-trip back into the type
	jsonData, err := json.Marshal(cached)
	if err != nil {
		return nil, err
	}

	var analysis domain.PrescriptionAnalysis
	if err := json.Unmarshal(jsonData, &analysis); err != nil {
		return nil, err
	}

	return &analysis, nil
}

// setInCache stores an analysis in the cache with the configured TTL
func (s *PrescriptionService) setInCache(ctx context.Context, key string, analysis *domain.PrescriptionAnalysis) error {
	analysis.CachedAt = time.Now()
	return s.cache.Set(ctx, key, analysis, s.cacheTTL)
}
