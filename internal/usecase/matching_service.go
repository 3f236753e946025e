package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medshelf/backend/internal/domain"
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	EnableDebugLogging bool
}

// MatchingService resolves extracted candidate names against the medicine
// inventory. It is a pure read-only query layer: it never writes to the
// store and never mutates stock levels.
type MatchingService struct {
	repo               domain.MedicineRepository
	enableDebugLogging bool
	logger             zerolog.Logger
}

// NewMatchingService creates a new matching service over the given inventory
func NewMatchingService(repo domain.MedicineRepository, config MatchConfig) *MatchingService {
	return &MatchingService{
		repo:               repo,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             log.With().Str("component", "matcher").Logger(),
	}
}

// Match resolves each candidate, in input order, to exactly one MatchResult.
// Lookup order per candidate: case-insensitive exact match first, then
// partial (substring either direction) only when no exact match exists
// anywhere in the store, else none. Ties break to the record with the
// lowest ID (insertion order). Candidates are not deduplicated.
func (s *MatchingService) Match(ctx context.Context, candidates []string) ([]domain.MatchResult, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	// Snapshot of normalized names, index-aligned with records. The store
	// returns records ordered by ID, so a linear scan gives the tie-break
	// for free.
	normalized := make([]string, len(records))
	for i := range records {
		normalized[i] = Normalize(records[i].Name)
	}

	results := make([]domain.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		results = append(results, s.matchOne(candidate, records, normalized))
	}

	return results, nil
}

// matchOne resolves a single candidate against the inventory snapshot.
// Individual candidates never fail: the worst outcome is MatchNone.
func (s *MatchingService) matchOne(candidate string, records []domain.MedicineRecord, normalized []string) domain.MatchResult {
	query := Normalize(candidate)

	if query == "" {
		return domain.MatchResult{
			CandidateName: candidate,
			Matched:       false,
			MatchType:     domain.MatchNone,
		}
	}

	// Pass 1: exact match on normalized names
	for i := range records {
		if normalized[i] == query {
			if s.enableDebugLogging {
				s.logger.Debug().Str("candidate", candidate).Str("record", records[i].Name).Msg("exact match")
			}
			return domain.MatchResult{
				CandidateName: candidate,
				Matched:       true,
				MatchType:     domain.MatchExact,
				Record:        &records[i],
			}
		}
	}

	// Pass 2: partial match, substring in either direction
	for i := range records {
		if strings.Contains(normalized[i], query) || strings.Contains(query, normalized[i]) {
			if s.enableDebugLogging {
				s.logger.Debug().Str("candidate", candidate).Str("record", records[i].Name).Msg("partial match")
			}
			return domain.MatchResult{
				CandidateName: candidate,
				Matched:       true,
				MatchType:     domain.MatchPartial,
				Record:        &records[i],
			}
		}
	}

	if s.enableDebugLogging {
		s.logger.Debug().Str("candidate", candidate).Msg("no match")
	}
	return domain.MatchResult{
		CandidateName: candidate,
		Matched:       false,
		MatchType:     domain.MatchNone,
	}
}

// CheckAvailability resolves a single name against the inventory, used by
// the customer-facing availability endpoint.
func (s *MatchingService) CheckAvailability(ctx context.Context, name string) (*domain.MatchResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidRequest
	}

	results, err := s.Match(ctx, []string{name})
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}
