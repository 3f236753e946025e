package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medshelf/backend/internal/domain"
)

// TesseractClient extracts text with a locally installed Tesseract engine.
type TesseractClient struct {
	languages []string
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewTesseractClient creates a Tesseract-backed OCR client. gosseract clients
// are not safe for concurrent use, so one is created per extraction instead
// of being held here.
func NewTesseractClient(cfg Config) *TesseractClient {
	languages := cfg.Languages
	if len(languages) == 0 {
		languages = []string{"eng"}
	}

	return &TesseractClient{
		languages: languages,
		timeout:   cfg.Timeout,
		logger:    log.With().Str("component", "ocr").Str("backend", "tesseract").Logger(),
	}
}

// Name returns the backend name
func (c *TesseractClient) Name() string {
	return "tesseract"
}

// ExtractText recognizes text in the image bytes. The engine call itself is
// not cancellable, so the timeout is enforced around it.
func (c *TesseractClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	type result struct {
		text string
		err  error
	}

	done := make(chan result, 1)
	go func() {
		client := gosseract.NewClient()
		defer client.Close()

		if err := client.SetLanguage(c.languages...); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, err)}
			return
		}
		if err := client.SetImageFromBytes(image); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", domain.ErrOCRFailed, err)}
			return
		}

		text, err := client.Text()
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", domain.ErrOCRFailed, err)}
			return
		}
		done <- result{text: text}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	select {
	case <-ctx.Done():
		c.logger.Error().Err(ctx.Err()).Msg("extraction timed out")
		return "", fmt.Errorf("%w: %v", domain.ErrOCRFailed, ctx.Err())
	case r := <-done:
		if r.err != nil {
			c.logger.Error().Err(r.err).Msg("extraction failed")
			return "", r.err
		}
		c.logger.Info().Int("chars", len(r.text)).Msg("text detected")
		return r.text, nil
	}
}
