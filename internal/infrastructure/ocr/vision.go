package ocr

import (
	"bytes"
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/apiv1"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/medshelf/backend/internal/domain"
)

// VisionClient extracts text with the Google Cloud Vision API.
type VisionClient struct {
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
	logger  zerolog.Logger
}

// NewVisionClient creates the annotator client once at startup; the client is
// safe for concurrent use across requests.
func NewVisionClient(ctx context.Context, cfg Config) (*VisionClient, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, err)
	}

	return &VisionClient{
		client:  client,
		timeout: cfg.Timeout,
		logger:  log.With().Str("component", "ocr").Str("backend", "vision").Logger(),
	}, nil
}

// Name returns the backend name
func (c *VisionClient) Name() string {
	return "vision"
}

// ExtractText runs document text detection over the image bytes and returns
// the full recognized text, or an empty string when no text is detected.
// A single attempt bounded by the configured timeout; no retries.
func (c *VisionClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	img, err := vision.NewImageFromReader(bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOCRFailed, err)
	}

	annotation, err := c.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("text detection request failed")
		return "", fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, err)
	}

	if annotation == nil {
		c.logger.Info().Msg("no text detected")
		return "", nil
	}

	c.logger.Info().Int("chars", len(annotation.Text)).Msg("text detected")
	return annotation.Text, nil
}

// Close releases the underlying gRPC connection.
func (c *VisionClient) Close() error {
	return c.client.Close()
}
