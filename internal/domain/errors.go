package domain

import "errors"

var (
	// ErrNoAIProvider is returned when neither GEMINI_API_KEY nor
	// OPENAI_API_KEY is configured
	ErrNoAIProvider = errors.New("no AI provider configured: set GEMINI_API_KEY or OPENAI_API_KEY")

	// ErrOCRUnavailable is returned when the OCR backend is unreachable or misconfigured
	ErrOCRUnavailable = errors.New("OCR backend unavailable")

	// ErrOCRFailed is returned when the image could not be read or recognized
	ErrOCRFailed = errors.New("failed to extract text from image")

	// ErrAIProvider is returned when the AI provider call fails (network, auth, quota)
	ErrAIProvider = errors.New("AI provider request failed")

	// ErrAIParse is returned when the AI response cannot be decomposed into a name list
	ErrAIParse = errors.New("could not parse AI response")

	// ErrStoreUnavailable is returned when the inventory store cannot be queried
	ErrStoreUnavailable = errors.New("inventory store unavailable")

	// ErrMedicineNotFound is returned when a medicine cannot be found in the inventory
	ErrMedicineNotFound = errors.New("medicine not found in inventory")

	// ErrDuplicateMedicine is returned when creating a medicine whose name already exists
	ErrDuplicateMedicine = errors.New("medicine with this name already exists")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
