package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/medshelf/backend/internal/domain"
	"github.com/medshelf/backend/internal/usecase"
)

// maxUploadBytes bounds prescription image uploads (8 MiB).
const maxUploadBytes = 8 << 20

// DiagnosticsInfo describes which external backends are configured, with
// secrets reduced to a short preview.
type DiagnosticsInfo struct {
	AIConfigured     bool   `json:"aiConfigured"`
	AIProvider       string `json:"aiProvider,omitempty"`
	CredentialActive string `json:"credentialActive,omitempty"`
	OCRBackend       string `json:"ocrBackend"`
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	prescriptions *usecase.PrescriptionService
	matching      *usecase.MatchingService
	medicines     domain.MedicineRepository
	diagnostics   DiagnosticsInfo
}

// NewHandler creates a new HTTP handler. prescriptions may be nil when no AI
// provider is configured; the analyze endpoint then reports the
// configuration error instead of processing uploads.
func NewHandler(
	prescriptions *usecase.PrescriptionService,
	matching *usecase.MatchingService,
	medicines domain.MedicineRepository,
	diagnostics DiagnosticsInfo,
) *Handler {
	return &Handler{
		prescriptions: prescriptions,
		matching:      matching,
		medicines:     medicines,
		diagnostics:   diagnostics,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "medshelf-backend",
		"version": "1.0.0",
	})
}

// Diagnostics reports which AI provider and OCR backend are active without
// leaking full secrets.
func (h *Handler) Diagnostics(c *gin.Context) {
	c.JSON(http.StatusOK, h.diagnostics)
}

// AnalyzePrescription accepts a multipart prescription image upload and
// returns the availability of each extracted medicine.
func (h *Handler) AnalyzePrescription(c *gin.Context) {
	if h.prescriptions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": domain.ErrNoAIProvider.Error(),
		})
		return
	}

	fileHeader, err := c.FormFile("prescription")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no prescription file provided"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "prescription image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file content"})
		return
	}

	analysis, err := h.prescriptions.AnalyzePrescription(c.Request.Context(), image)
	if err != nil {
		h.renderPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysisId": analysis.AnalysisID,
		"source":     analysis.Source,
		"medicines":  analysis.Medicines,
	})
}

// renderPipelineError converts a stage-specific pipeline failure into one
// user-facing status. The detailed cause is already logged by the pipeline
// with the failing stage; AI failures collapse into a single message here.
func (h *Handler) renderPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoAIProvider):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrOCRUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "OCR service unavailable, check server configuration"})
	case errors.Is(err, domain.ErrOCRFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not read the image, please retry with a clearer photo"})
	case errors.Is(err, domain.ErrAIProvider), errors.Is(err, domain.ErrAIParse):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process prescription"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "inventory store unavailable"})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		log.Error().Err(err).Str("component", "http").Msg("unexpected pipeline error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// CheckAvailability resolves one medicine name against the inventory.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var req domain.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "medicine name is required"})
		return
	}

	result, err := h.matching.CheckAvailability(c.Request.Context(), req.Name)
	if err != nil {
		h.renderPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// createMedicineRequest is the owner-side payload for adding inventory.
type createMedicineRequest struct {
	Name         string  `json:"name" binding:"required"`
	BrandName    string  `json:"brandName"`
	Quantity     int     `json:"quantity"`
	PricePerUnit float64 `json:"pricePerUnit"`
}

// CreateMedicine adds a medicine to the inventory (owner portal).
func (h *Handler) CreateMedicine(c *gin.Context) {
	var req createMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "medicine name is required"})
		return
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be non-negative"})
		return
	}

	record := &domain.MedicineRecord{
		Name:         req.Name,
		BrandName:    req.BrandName,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
	}

	if err := h.medicines.Create(c.Request.Context(), record); err != nil {
		if errors.Is(err, domain.ErrDuplicateMedicine) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.renderPipelineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// updateMedicineRequest carries the fields the owner may change on a record.
// Pointers distinguish "not sent" from zero values.
type updateMedicineRequest struct {
	BrandName    *string  `json:"brandName"`
	Quantity     *int     `json:"quantity"`
	PricePerUnit *float64 `json:"pricePerUnit"`
}

// UpdateMedicine adjusts stock or pricing on an existing record (owner
// portal). The name itself is immutable; restocking is a quantity update.
func (h *Handler) UpdateMedicine(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medicine id"})
		return
	}

	var req updateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be non-negative"})
		return
	}

	record, err := h.medicines.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrMedicineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.renderPipelineError(c, err)
		return
	}

	if req.BrandName != nil {
		record.BrandName = *req.BrandName
	}
	if req.Quantity != nil {
		record.Quantity = *req.Quantity
	}
	if req.PricePerUnit != nil {
		record.PricePerUnit = *req.PricePerUnit
	}

	if err := h.medicines.Update(c.Request.Context(), record); err != nil {
		if errors.Is(err, domain.ErrMedicineNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.renderPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListMedicines returns the full inventory (owner portal).
func (h *Handler) ListMedicines(c *gin.Context) {
	records, err := h.medicines.List(c.Request.Context())
	if err != nil {
		h.renderPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medicines": records, "count": len(records)})
}

// MedicineNames returns just the inventory names, for client-side
// autocomplete.
func (h *Handler) MedicineNames(c *gin.Context) {
	names, err := h.medicines.Names(c.Request.Context())
	if err != nil {
		h.renderPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"names": names})
}
