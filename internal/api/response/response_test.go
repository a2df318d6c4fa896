package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cellmesh/cellmesh/internal/api/middleware"
	"github.com/cellmesh/cellmesh/internal/api/models"
	"github.com/cellmesh/cellmesh/internal/api/response"
)

// requestWithContext creates an HTTP request that has been processed by the RequestID middleware
// to populate the context with a request ID.
func requestWithContext(t *testing.T, method, path string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, http.NoBody)
	rec := httptest.NewRecorder()

	// Process through RequestID middleware to set up context
	var processedReq *http.Request
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		processedReq = r
	}))
	handler.ServeHTTP(rec, req)

	// Reset the recorder for actual test use
	rec = httptest.NewRecorder()

	return processedReq, rec
}

func TestJSON_IncludesRequestID(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodGet, "/test")

	response.JSON(rec, req, http.StatusOK, map[string]string{"message": "hello"})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	requestID := rec.Header().Get("X-Request-Id")
	if requestID == "" {
		t.Error("expected X-Request-Id header to be set")
	}
	if len(requestID) < 10 {
		t.Errorf("expected request ID to be a valid ID, got %q", requestID)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", contentType)
	}
}

func TestJSON_WithoutRequestID(t *testing.T) {
	// Create request without middleware (no request ID in context)
	req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
	rec := httptest.NewRecorder()

	response.JSON(rec, req, http.StatusOK, map[string]string{"ok": "yes"})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") != "" {
		t.Error("expected no X-Request-Id header without request ID in context")
	}
}

func TestJSON_NilBody(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodGet, "/test")

	response.JSON(rec, req, http.StatusNoContent, nil)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestError_SetsInstance(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodPost, "/api/v1/calculate")

	problem := models.NewInternalError("req_test", "something broke")
	response.Error(rec, req, problem)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}

	var result models.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if result.Instance != "/api/v1/calculate" {
		t.Errorf("expected instance /api/v1/calculate, got %q", result.Instance)
	}
}

func TestBadRequest_WithFieldErrors(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodPost, "/api/v1/calculate")

	fieldErrors := []models.FieldError{
		{Field: "districts[0].area", Message: "must be greater than 0"},
	}
	response.BadRequest(rec, req, "request failed validation", fieldErrors)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected Content-Type application/problem+json, got %q", ct)
	}

	var result models.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if result.Type != models.ProblemTypeValidation {
		t.Errorf("unexpected problem type %q", result.Type)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(result.Errors))
	}
	if result.Errors[0].Field != "districts[0].area" {
		t.Errorf("unexpected field %q", result.Errors[0].Field)
	}
}

func TestCalculationError(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodPost, "/api/v1/calculate")

	response.CalculationError(rec, req, "no districts provided")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	var result models.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if result.Type != models.ProblemTypeCalculation {
		t.Errorf("unexpected problem type %q", result.Type)
	}
	if result.Detail != "no districts provided" {
		t.Errorf("unexpected detail %q", result.Detail)
	}
}

func TestInternalError(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodPost, "/api/v1/calculate")

	response.InternalError(rec, req, "calculation could not be completed")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
}

func TestServiceUnavailable(t *testing.T) {
	req, rec := requestWithContext(t, http.MethodGet, "/api/v1/ops/status")

	response.ServiceUnavailable(rec, req, "upstream unavailable")

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}

	var result models.Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if result.Type != models.ProblemTypeUnavailable {
		t.Errorf("unexpected problem type %q", result.Type)
	}
}
