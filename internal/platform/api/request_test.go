package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/alzcare/alzcare/internal/errs"
	"github.com/alzcare/alzcare/internal/platform/auth"
)

func TestOwner(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "u1"))
	c := echo.New().NewContext(req, httptest.NewRecorder())
	if got := Owner(c); got != "u1" {
		t.Errorf("expected u1, got %q", got)
	}
}

func TestParamID(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("not-an-id")

	_, err := ParamID(c, "id", "Medication")
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "Medication" {
		t.Errorf("expected medication not found, got %v", err)
	}

	c.SetParamValues("1c7d4f1e-2b8a-4e0c-9f64-3b2a7d9e5c10")
	if id, err := ParamID(c, "id", "Medication"); err != nil || id.String() != "1c7d4f1e-2b8a-4e0c-9f64-3b2a7d9e5c10" {
		t.Errorf("unexpected result %s, %v", id, err)
	}
}

func TestPathText(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("type")
	c.SetParamValues("Physical%20Exercise")
	if got := PathText(c, "type"); got != "Physical Exercise" {
		t.Errorf("expected decoded value, got %q", got)
	}
	c.SetParamValues("100%")
	if got := PathText(c, "type"); got != "100%" {
		t.Errorf("expected raw value on bad escape, got %q", got)
	}
}

func TestBind(t *testing.T) {
	type payload struct {
		Age *int `json:"age"`
	}
	bind := func(body string) error {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := echo.New().NewContext(req, httptest.NewRecorder())
		var p payload
		return Bind(c, &p)
	}

	if err := bind(`{"age":3}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var v *errs.ValidationError
	if err := bind(`{"age":"three"}`); !errors.As(err, &v) || !v.Has("age") {
		t.Errorf("expected age validation error, got %v", err)
	}
	if err := bind(`{"age":`); !errors.As(err, &v) || !v.Has("body") {
		t.Errorf("expected body validation error, got %v", err)
	}
}
