package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/alzcare/alzcare/internal/errs"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", fmt.Errorf("create: %w", errs.Invalid("age", "must be >= 0")), 400, "Validation failed"},
		{"bad request", errs.BadRequest("Please provide input features for prediction"), 400, "Please provide input features for prediction"},
		{"labelled not found", errs.NotFound("Assessment"), 404, "Assessment not found"},
		{"parent not found", fmt.Errorf("create: %w", errs.ErrParentNotFound), 404, "Patient not found"},
		{"bare not found", errs.ErrNotFound, 404, "Resource not found"},
		{"unauthenticated", errs.ErrUnauthenticated, 401, "Authentication required"},
		{"upstream status", &errs.UpstreamError{Status: 422, Body: []byte(`{"error":"bad"}`)}, 422, "Prediction failed"},
		{"upstream timeout", errs.ErrUpstreamTimeout, 503, "Prediction service timed out"},
		{"upstream unreachable", errs.ErrUpstreamUnreachable, 503, "Prediction service is not responding"},
		{"store unavailable", fmt.Errorf("find: %w", errs.ErrUnavailable), 503, "Service unavailable"},
		{"route not found", echo.ErrNotFound, 404, "Route not found"},
		{"echo error", echo.NewHTTPError(http.StatusRequestEntityTooLarge, "too big"), 413, "too big"},
		{"unexpected", errors.New("boom"), 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := Classify(tt.err, false)
			if status != tt.status {
				t.Errorf("expected %d, got %d", tt.status, status)
			}
			if env.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, env.Message)
			}
			if env.Success {
				t.Error("error envelope must not report success")
			}
		})
	}
}

func TestClassify_HidesDetailOutsideDevelopment(t *testing.T) {
	_, env := Classify(errors.New("pq: relation missing"), false)
	if env.Error != nil {
		t.Errorf("expected no detail, got %v", env.Error)
	}
	_, env = Classify(errors.New("pq: relation missing"), true)
	if env.Error != "pq: relation missing" {
		t.Errorf("expected detail in development, got %v", env.Error)
	}
}

func TestErrorHandler_WritesEnvelope(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.New(io.Discard), false)
	e.GET("/x", func(c echo.Context) error {
		return errs.Invalid("name", "is required")
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["success"] != false {
		t.Errorf("expected success=false, got %v", body["success"])
	}
	fields, ok := body["errors"].([]interface{})
	if !ok || len(fields) != 1 {
		t.Fatalf("expected one field error, got %v", body["errors"])
	}
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zerolog.New(io.Discard), false)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Message != "Route not found" {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestList_EmptyIsArray(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := List[string](c, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["count"] != float64(0) {
		t.Errorf("expected count 0, got %v", body["count"])
	}
	if data, ok := body["data"].([]interface{}); !ok || len(data) != 0 {
		t.Errorf("expected empty array, got %v", body["data"])
	}
}
