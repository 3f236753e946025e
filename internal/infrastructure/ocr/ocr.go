// Package ocr provides pluggable backends for extracting raw text from
// uploaded prescription images: Google Cloud Vision or a local Tesseract
// engine.
package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/medshelf/backend/internal/domain"
)

// Backend identifies an OCR implementation.
type Backend string

const (
	BackendVision    Backend = "vision"
	BackendTesseract Backend = "tesseract"
)

// Config holds OCR adapter configuration.
type Config struct {
	Backend Backend
	// CredentialsFile is the path to a Google service-account JSON file.
	// Only used by the vision backend; empty means application default
	// credentials.
	CredentialsFile string
	// Languages are Tesseract language codes, e.g. ["eng"].
	Languages []string
	// Timeout bounds a single extraction call.
	Timeout time.Duration
}

// NewClient creates the OCR backend named by the configuration.
func NewClient(ctx context.Context, cfg Config) (domain.OCRClient, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	switch cfg.Backend {
	case BackendVision:
		return NewVisionClient(ctx, cfg)
	case BackendTesseract:
		return NewTesseractClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown OCR backend: %q", cfg.Backend)
	}
}
