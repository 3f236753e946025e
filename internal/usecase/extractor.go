package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medshelf/backend/internal/domain"
)

// extractionSystemPrompt instructs the model to answer with names only, one
// per line, so the response parser can stay a simple line splitter.
const extractionSystemPrompt = `You are a pharmacist's assistant reading text extracted from a handwritten or printed medical prescription.`

const extractionUserPromptFormat = `From the prescription text below, list ONLY the medicine names.
One name per line. Do not include dosage, frequency, duration or instructions.
Do not add any explanation or heading. If no medicines are found, reply with exactly: NONE

Prescription text:
%s`

// Package-level compiled regex patterns for response parsing
var (
	// List markers the model may prepend despite instructions: "- ", "* ", "1. ", "2) "
	listMarkerRegex = regexp.MustCompile(`^\s*(?:[-*\x{2022}]|\d+[.)])\s*`)
	// Markdown emphasis wrapping like **Paracetamol**
	emphasisRegex = regexp.MustCompile(`\*+`)
)

// boilerplatePrefixes are instructional echoes the model sometimes returns
// even when told not to. Lines starting with any of these are discarded.
var boilerplatePrefixes = []string{
	"here are",
	"here is",
	"the medicine",
	"medicine names",
	"medicines found",
	"based on",
	"sure",
	"okay",
	"note:",
	"i cannot",
	"i'm unable",
	"sorry",
}

// ExtractorService turns raw OCR text into a list of candidate medicine
// names using the AI provider selected at startup.
type ExtractorService struct {
	provider domain.AIProvider
	logger   zerolog.Logger
}

// NewExtractorService creates an extractor bound to one provider. The
// provider is fixed for the process lifetime; callers must not pass nil.
func NewExtractorService(provider domain.AIProvider) *ExtractorService {
	return &ExtractorService{
		provider: provider,
		logger:   log.With().Str("component", "extractor").Logger(),
	}
}

// ExtractMedicineNames sends the OCR text to the provider and parses the
// response into candidate names, order of appearance preserved. An empty
// slice with nil error means the model found no medicines.
func (s *ExtractorService) ExtractMedicineNames(ctx context.Context, rawText string) ([]string, error) {
	if strings.TrimSpace(rawText) == "" {
		return []string{}, nil
	}

	prompt := fmt.Sprintf(extractionUserPromptFormat, rawText)

	response, err := s.provider.Complete(ctx, extractionSystemPrompt, prompt)
	if err != nil {
		s.logger.Error().Err(err).Str("provider", s.provider.Name()).Msg("completion request failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrAIProvider, err)
	}

	names, err := ParseNameList(response)
	if err != nil {
		s.logger.Error().Err(err).Str("provider", s.provider.Name()).Msg("unparseable completion")
		return nil, err
	}

	s.logger.Info().Str("provider", s.provider.Name()).Int("candidates", len(names)).Msg("extraction complete")
	return names, nil
}

// ParseNameList decomposes a provider response into medicine names.
// The response is expected to be newline- or list-formatted; list markers,
// markdown emphasis, empty lines and echoed boilerplate are discarded.
// A bare "NONE" (or equivalent) yields an empty list.
func ParseNameList(response string) ([]string, error) {
	if strings.TrimSpace(response) == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrAIParse)
	}

	names := []string{}
	for _, line := range strings.Split(response, "\n") {
		line = listMarkerRegex.ReplaceAllString(line, "")
		line = emphasisRegex.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}
		if isNoneMarker(line) {
			return []string{}, nil
		}
		if isBoilerplate(line) {
			continue
		}

		names = append(names, line)
	}

	return names, nil
}

// isNoneMarker reports whether a line is the model's "nothing found" answer.
func isNoneMarker(line string) bool {
	switch strings.ToLower(strings.TrimRight(line, ".!")) {
	case "none", "none found", "no medicines", "no medicines found", "no medicine names found":
		return true
	}
	return false
}

// isBoilerplate reports whether a line is instructional echo rather than a name.
func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	if strings.HasSuffix(lower, ":") {
		return true
	}
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
