package domain

import "time"

// MedicineRecord represents one medicine in the pharmacy inventory.
// Records are created and updated by the owner endpoints; the prescription
// pipeline only ever reads them.
type MedicineRecord struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"uniqueIndex;size:100;not null"`
	BrandName    string     `json:"brandName,omitempty" gorm:"size:100"`
	Quantity     int        `json:"quantity" gorm:"not null;default:0"`
	PricePerUnit float64    `json:"pricePerUnit"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// InStock reports whether any units are on hand.
func (m *MedicineRecord) InStock() bool {
	return m.Quantity > 0
}

// MatchType classifies how a candidate name related to an inventory record.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchPartial MatchType = "partial"
	MatchNone    MatchType = "none"
)

// MatchResult pairs one extracted candidate name with its lookup outcome.
// Results are transient response objects, constructed once per candidate per
// request and never persisted.
type MatchResult struct {
	CandidateName string          `json:"candidateName"`
	Matched       bool            `json:"matched"`
	MatchType     MatchType       `json:"matchType"`
	Record        *MedicineRecord `json:"record,omitempty"`
}

// PrescriptionAnalysis is the full outcome of one prescription upload.
type PrescriptionAnalysis struct {
	AnalysisID string        `json:"analysisId"`
	RawText    string        `json:"rawText,omitempty"`
	Medicines  []MatchResult `json:"medicines"`
	CachedAt   time.Time     `json:"cachedAt,omitempty"`
	Source     string        `json:"source"` // "Pipeline" or "Cache"
}

// AvailabilityRequest is a single-name availability lookup.
type AvailabilityRequest struct {
	Name string `json:"name" binding:"required"`
}
