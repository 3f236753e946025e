package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// OCRClient defines the interface for extracting text from an uploaded image.
// Implementations wrap a hosted vision service or a local OCR engine.
type OCRClient interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
	Name() string
}

// AIProvider defines the interface for text-completion providers used to
// extract medicine names from OCR output. Exactly one provider is selected
// at startup and never changed for the life of the process.
type AIProvider interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
	Name() string
}

// MedicineRepository defines the interface for the medicine inventory store.
// List must return records ordered by insertion (lowest ID first); the
// matcher relies on that order for its tie-break.
type MedicineRepository interface {
	List(ctx context.Context) ([]MedicineRecord, error)
	GetByID(ctx context.Context, id uint) (*MedicineRecord, error)
	FindByName(ctx context.Context, name string) (*MedicineRecord, error)
	Create(ctx context.Context, record *MedicineRecord) error
	Update(ctx context.Context, record *MedicineRecord) error
	Names(ctx context.Context) ([]string, error)
}
