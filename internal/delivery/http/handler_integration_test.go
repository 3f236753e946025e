package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medshelf/backend/config"
	"github.com/medshelf/backend/internal/domain"
	"github.com/medshelf/backend/internal/infrastructure/store"
	"github.com/medshelf/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	exitCode := m.Run()

	os.Exit(exitCode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
		RateLimit: config.RateLimitConfig{PerIP: 1000},
	}
}

// setupTestRouter creates a test router with no AI provider configured. The
// analyze endpoint then reports the configuration error.
func setupTestRouter() (*gin.Engine, domain.MedicineRepository) {
	medicines := store.NewMemoryStore()
	matching := usecase.NewMatchingService(medicines, usecase.MatchConfig{})

	handler := NewHandler(nil, matching, medicines, DiagnosticsInfo{
		AIConfigured: false,
		OCRBackend:   "tesseract",
	})

	return SetupRouter(testConfig(), handler), medicines
}

// --- Mock implementations for the full pipeline ---

// mockOCRClient is a mock implementation of domain.OCRClient
type mockOCRClient struct {
	text string
	err  error
}

func (m *mockOCRClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *mockOCRClient) Name() string { return "mock" }

// mockAIProvider is a mock implementation of domain.AIProvider
type mockAIProvider struct {
	response string
	err      error
}

func (m *mockAIProvider) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockAIProvider) Name() string { return "mock" }

// mockCache is a mock implementation of domain.CacheRepository
type mockCache struct {
	data map[string]interface{}
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]interface{})}
}

func (m *mockCache) Get(ctx context.Context, key string) (interface{}, error) {
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(jsonData, &stored); err != nil {
		return err
	}
	m.data[key] = stored
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// setupTestRouterWithPipeline wires a real pipeline over mocked OCR and AI
// backends and an in-memory inventory.
func setupTestRouterWithPipeline(ocr domain.OCRClient, provider domain.AIProvider) (*gin.Engine, domain.MedicineRepository) {
	medicines := store.NewMemoryStore()
	matching := usecase.NewMatchingService(medicines, usecase.MatchConfig{})
	extractor := usecase.NewExtractorService(provider)
	prescriptions := usecase.NewPrescriptionService(ocr, extractor, matching, newMockCache(), usecase.PrescriptionServiceConfig{
		CacheTTL: time.Hour,
	})

	handler := NewHandler(prescriptions, matching, medicines, DiagnosticsInfo{
		AIConfigured:     true,
		AIProvider:       provider.Name(),
		CredentialActive: "test-key...",
		OCRBackend:       ocr.Name(),
	})

	return SetupRouter(testConfig(), handler), medicines
}

// multipartImage builds a multipart body with a prescription file field.
func multipartImage(t *testing.T, fieldName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, "prescription.jpg")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}

	return body, writer.FormDataContentType()
}

func addMedicine(t *testing.T, medicines domain.MedicineRepository, name string, quantity int) {
	t.Helper()

	err := medicines.Create(context.Background(), &domain.MedicineRecord{
		Name:         name,
		Quantity:     quantity,
		PricePerUnit: 2.5,
	})
	if err != nil {
		t.Fatalf("seeding medicine %q failed: %v", name, err)
	}
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router, _ := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "medshelf-backend" {
			t.Errorf("service = %v, want medshelf-backend", response["service"])
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router, _ := setupTestRouter()

		methods := []string{"POST", "PUT", "DELETE", "PATCH"}

		for _, method := range methods {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestAnalyzeEndpointWithoutProvider(t *testing.T) {
	t.Run("reports configuration error instead of processing", func(t *testing.T) {
		router, _ := setupTestRouter()

		body, contentType := multipartImage(t, "prescription", []byte("fake image bytes"))
		req, _ := http.NewRequest("POST", "/api/v1/prescriptions/analyze", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		errorMsg, ok := response["error"].(string)
		if !ok {
			t.Fatalf("error field is not a string: %v", response["error"])
		}
		if !strings.Contains(errorMsg, "no AI provider configured") {
			t.Errorf("error = %q, want to contain 'no AI provider configured'", errorMsg)
		}
	})
}

func TestAnalyzeEndpointWithPipeline(t *testing.T) {
	t.Run("returns matched medicines for a clean pipeline", func(t *testing.T) {
		ocr := &mockOCRClient{text: "Rx\nTab Paracetamol 500mg\nTab Amoxicillin 250mg"}
		provider := &mockAIProvider{response: "Paracetamol\nAmoxicillin"}
		router, medicines := setupTestRouterWithPipeline(ocr, provider)

		addMedicine(t, medicines, "Paracetamol", 50)

		body, contentType := multipartImage(t, "prescription", []byte("fake image bytes"))
		req, _ := http.NewRequest("POST", "/api/v1/prescriptions/analyze", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response struct {
			AnalysisID string               `json:"analysisId"`
			Source     string               `json:"source"`
			Medicines  []domain.MatchResult `json:"medicines"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response.AnalysisID == "" {
			t.Error("analysisId is empty")
		}
		if len(response.Medicines) != 2 {
			t.Fatalf("len(medicines) = %d, want 2", len(response.Medicines))
		}

		first := response.Medicines[0]
		if first.CandidateName != "Paracetamol" || !first.Matched || first.MatchType != domain.MatchExact {
			t.Errorf("first result = %+v, want exact match on Paracetamol", first)
		}
		if first.Record == nil || first.Record.Name != "Paracetamol" {
			t.Errorf("first record = %+v, want the Paracetamol record", first.Record)
		}

		second := response.Medicines[1]
		if second.Matched || second.MatchType != domain.MatchNone || second.Record != nil {
			t.Errorf("second result = %+v, want no match for Amoxicillin", second)
		}
	})

	t.Run("missing file field returns 400", func(t *testing.T) {
		router, _ := setupTestRouterWithPipeline(&mockOCRClient{}, &mockAIProvider{})

		req, _ := http.NewRequest("POST", "/api/v1/prescriptions/analyze", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xxx")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("wrong field name returns 400", func(t *testing.T) {
		router, _ := setupTestRouterWithPipeline(&mockOCRClient{}, &mockAIProvider{})

		body, contentType := multipartImage(t, "image", []byte("fake image bytes"))
		req, _ := http.NewRequest("POST", "/api/v1/prescriptions/analyze", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("unreadable image returns 422", func(t *testing.T) {
		ocr := &mockOCRClient{err: domain.ErrOCRFailed}
		router, _ := setupTestRouterWithPipeline(ocr, &mockAIProvider{response: "NONE"})

		body, contentType := multipartImage(t, "prescription", []byte("fake image bytes"))
		req, _ := http.NewRequest("POST", "/api/v1/prescriptions/analyze", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
		}
	})

	t.Run("OCR backend unavailable returns 503", func(t *testing.T) {
		ocr := &mockOCRClient{err: domain.ErrOCRUnavailable}
		router, _ := setupTestRouterWithPipeline(ocr, &mockAIProvider{response: "NONE"})

		body, contentType := multipartImage(t, "prescription", []byte("fake image bytes"))
		req, _ := http.NewRequest("POST", "/api/v1/prescriptions/analyze", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
	})

	t.Run("AI provider failure returns 500 without leaking details", func(t *testing.T) {
		ocr := &mockOCRClient{text: "Tab Paracetamol 500mg"}
		provider := &mockAIProvider{err: domain.ErrAIProvider}
		router, _ := setupTestRouterWithPipeline(ocr, provider)

		body, contentType := multipartImage(t, "prescription", []byte("fake image bytes"))
		req, _ := http.NewRequest("POST", "/api/v1/prescriptions/analyze", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["error"] != "failed to process prescription" {
			t.Errorf("error = %v, want the generic processing message", response["error"])
		}
	})

	t.Run("blank OCR text yields empty analysis", func(t *testing.T) {
		ocr := &mockOCRClient{text: "   "}
		router, _ := setupTestRouterWithPipeline(ocr, &mockAIProvider{response: "NONE"})

		body, contentType := multipartImage(t, "prescription", []byte("fake image bytes"))
		req, _ := http.NewRequest("POST", "/api/v1/prescriptions/analyze", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			Medicines []domain.MatchResult `json:"medicines"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(response.Medicines) != 0 {
			t.Errorf("len(medicines) = %d, want 0", len(response.Medicines))
		}
	})
}

func TestMedicineEndpoints(t *testing.T) {
	t.Run("create then list", func(t *testing.T) {
		router, _ := setupTestRouter()

		payload := `{"name":"Paracetamol","brandName":"Calpol","quantity":100,"pricePerUnit":1.5}`
		req, _ := http.NewRequest("POST", "/api/v1/medicines", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("create Status = %d, want %d, body: %s", w.Code, http.StatusCreated, w.Body.String())
		}

		req, _ = http.NewRequest("GET", "/api/v1/medicines", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("list Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			Medicines []domain.MedicineRecord `json:"medicines"`
			Count     int                     `json:"count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Count != 1 || len(response.Medicines) != 1 {
			t.Fatalf("count = %d, len = %d, want 1, 1", response.Count, len(response.Medicines))
		}
		if response.Medicines[0].Name != "Paracetamol" {
			t.Errorf("name = %q, want Paracetamol", response.Medicines[0].Name)
		}
	})

	t.Run("duplicate name returns 409", func(t *testing.T) {
		router, medicines := setupTestRouter()
		addMedicine(t, medicines, "Paracetamol", 100)

		payload := `{"name":"paracetamol","quantity":10}`
		req, _ := http.NewRequest("POST", "/api/v1/medicines", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusConflict)
		}
	})

	t.Run("missing name returns 400", func(t *testing.T) {
		router, _ := setupTestRouter()

		payload := `{"quantity":10}`
		req, _ := http.NewRequest("POST", "/api/v1/medicines", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("negative quantity returns 400", func(t *testing.T) {
		router, _ := setupTestRouter()

		payload := `{"name":"Paracetamol","quantity":-5}`
		req, _ := http.NewRequest("POST", "/api/v1/medicines", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("update adjusts stock on an existing record", func(t *testing.T) {
		router, medicines := setupTestRouter()
		addMedicine(t, medicines, "Paracetamol", 100)

		payload := `{"quantity":25,"pricePerUnit":3.0}`
		req, _ := http.NewRequest("PUT", "/api/v1/medicines/1", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var record domain.MedicineRecord
		if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if record.Quantity != 25 || record.PricePerUnit != 3.0 {
			t.Errorf("record = %+v, want quantity 25 and price 3.0", record)
		}
		if record.Name != "Paracetamol" {
			t.Errorf("name = %q, want unchanged Paracetamol", record.Name)
		}
	})

	t.Run("update of unknown record returns 404", func(t *testing.T) {
		router, _ := setupTestRouter()

		payload := `{"quantity":25}`
		req, _ := http.NewRequest("PUT", "/api/v1/medicines/99", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("update with invalid id returns 400", func(t *testing.T) {
		router, _ := setupTestRouter()

		payload := `{"quantity":25}`
		req, _ := http.NewRequest("PUT", "/api/v1/medicines/abc", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("names endpoint returns plain names", func(t *testing.T) {
		router, medicines := setupTestRouter()
		addMedicine(t, medicines, "Paracetamol", 100)
		addMedicine(t, medicines, "Ibuprofen", 40)

		req, _ := http.NewRequest("GET", "/api/v1/medicines/names", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response struct {
			Names []string `json:"names"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if len(response.Names) != 2 || response.Names[0] != "Paracetamol" || response.Names[1] != "Ibuprofen" {
			t.Errorf("names = %v, want [Paracetamol Ibuprofen]", response.Names)
		}
	})
}

func TestAvailabilityEndpoint(t *testing.T) {
	t.Run("exact match", func(t *testing.T) {
		router, medicines := setupTestRouter()
		addMedicine(t, medicines, "Paracetamol", 100)

		payload := `{"name":"  paracetamol  "}`
		req, _ := http.NewRequest("POST", "/api/v1/medicines/availability", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d, body: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var result domain.MatchResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if !result.Matched || result.MatchType != domain.MatchExact {
			t.Errorf("result = %+v, want exact match", result)
		}
	})

	t.Run("partial match", func(t *testing.T) {
		router, medicines := setupTestRouter()
		addMedicine(t, medicines, "Paracetamol 500mg", 100)

		payload := `{"name":"Paracetamol"}`
		req, _ := http.NewRequest("POST", "/api/v1/medicines/availability", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var result domain.MatchResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if !result.Matched || result.MatchType != domain.MatchPartial {
			t.Errorf("result = %+v, want partial match", result)
		}
	})

	t.Run("no match", func(t *testing.T) {
		router, _ := setupTestRouter()

		payload := `{"name":"Amoxicillin"}`
		req, _ := http.NewRequest("POST", "/api/v1/medicines/availability", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var result domain.MatchResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if result.Matched || result.MatchType != domain.MatchNone || result.Record != nil {
			t.Errorf("result = %+v, want no match", result)
		}
	})

	t.Run("blank name returns 400", func(t *testing.T) {
		router, _ := setupTestRouter()

		payload := `{"name":"   "}`
		req, _ := http.NewRequest("POST", "/api/v1/medicines/availability", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestDiagnosticsEndpoint(t *testing.T) {
	t.Run("reports unconfigured provider", func(t *testing.T) {
		router, _ := setupTestRouter()

		req, _ := http.NewRequest("GET", "/api/v1/diagnostics/ai", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var info DiagnosticsInfo
		if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if info.AIConfigured {
			t.Error("aiConfigured = true, want false")
		}
		if info.OCRBackend != "tesseract" {
			t.Errorf("ocrBackend = %q, want tesseract", info.OCRBackend)
		}
	})

	t.Run("reports active provider with truncated credential", func(t *testing.T) {
		router, _ := setupTestRouterWithPipeline(&mockOCRClient{}, &mockAIProvider{})

		req, _ := http.NewRequest("GET", "/api/v1/diagnostics/ai", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var info DiagnosticsInfo
		if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if !info.AIConfigured || info.AIProvider != "mock" {
			t.Errorf("info = %+v, want configured mock provider", info)
		}
		if !strings.HasSuffix(info.CredentialActive, "...") {
			t.Errorf("credentialActive = %q, want truncated preview", info.CredentialActive)
		}
	})
}

func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for allowed origin", func(t *testing.T) {
		router, _ := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
		if gotOrigin != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "http://localhost:3000")
		}

		gotCreds := w.Header().Get("Access-Control-Allow-Credentials")
		if gotCreds != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", gotCreds, "true")
		}
	})
}

func TestRecoveryIntegration(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router, _ := setupTestRouter()

		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		req, _ := http.NewRequest("GET", "/panic", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

func TestAPIVersioning(t *testing.T) {
	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router, _ := setupTestRouter()

		req, _ := http.NewRequest("GET", "/api/medicines", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})
}

func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/api/v1/medicines"},
		{"GET", "/api/v1/medicines/names"},
		{"GET", "/api/v1/diagnostics/ai"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router, _ := setupTestRouter()

			req, _ := http.NewRequest(endpoint.method, endpoint.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}
