package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/jobboard-api/internal/core/auth"
	"github.com/ogurasousui/jobboard-api/internal/core/company"
	"github.com/ogurasousui/jobboard-api/internal/core/job"
	"github.com/ogurasousui/jobboard-api/internal/core/user"
)

func TestStatusOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid handle", company.ErrInvalidHandle, http.StatusBadRequest},
		{"duplicate handle", company.ErrHandleAlreadyExists, http.StatusBadRequest},
		{"employee range", company.ErrInvalidEmployeeRange, http.StatusBadRequest},
		{"empty update", job.ErrNoUpdateFields, http.StatusBadRequest},
		{"duplicate application", user.ErrAlreadyApplied, http.StatusBadRequest},
		{"unauthorized", auth.ErrUnauthorized, http.StatusUnauthorized},
		{"bad credentials", user.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", errForbidden, http.StatusForbidden},
		{"company missing", company.ErrCompanyNotFound, http.StatusNotFound},
		{"job missing", job.ErrJobNotFound, http.StatusNotFound},
		{"user missing", user.ErrUserNotFound, http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, _ := statusOf(tc.err)
			if got != tc.want {
				t.Fatalf("statusOf(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestErrorHandler_Envelope(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/companies/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler()(company.ErrCompanyNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	detail, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
	if detail["status"] != float64(http.StatusNotFound) {
		t.Fatalf("expected status 404 in body, got %v", detail["status"])
	}
	if detail["message"] != company.ErrCompanyNotFound.Error() {
		t.Fatalf("unexpected message: %v", detail["message"])
	}
}

func TestErrorHandler_HTTPError(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/companies?minEmployees=abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler()(echo.NewHTTPError(http.StatusBadRequest, "minEmployees must be an integer"), c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	detail := decodeBody(t, rec)["error"].(map[string]any)
	if detail["message"] != "minEmployees must be an integer" {
		t.Fatalf("unexpected message: %v", detail["message"])
	}
}

func TestErrorHandler_MasksInternalErrors(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/companies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler()(errors.New("pq: connection refused"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	detail := decodeBody(t, rec)["error"].(map[string]any)
	if detail["message"] != "internal server error" {
		t.Fatalf("internal details must not leak, got %v", detail["message"])
	}
}
