package httpapi_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	apperrors "studyplan/internal/platform/errors"
	"studyplan/internal/platform/httpapi"
)

type failingRoutes struct{}

func (failingRoutes) Mount(_ *echo.Echo, v1 *echo.Group) {
	fail := func(err error) echo.HandlerFunc {
		return func(echo.Context) error { return err }
	}
	v1.GET("/missing", fail(fmt.Errorf("session x: %w", apperrors.ErrNotFound)))
	v1.GET("/conflict", fail(fmt.Errorf("slot: %w", apperrors.ErrTimeConflict)))
	v1.GET("/transition", fail(apperrors.ErrInvalidTransition))
	v1.GET("/empty", fail(apperrors.ErrNothingToShare))
	v1.GET("/link", fail(apperrors.ErrMalformedShare))
	v1.GET("/invalid", fail(apperrors.NewValidationError(nil, apperrors.FieldError{Field: "subject", Tag: "required", Message: "subject is required"})))
	v1.GET("/boom", fail(fmt.Errorf("disk on fire")))
	v1.GET("/teapot", fail(echo.NewHTTPError(http.StatusTeapot, "short and stout")))
}

func TestErrorHandlerMapsApplicationErrors(t *testing.T) {
	t.Parallel()
	srv := httpapi.NewServer(httpapi.Options{DisableReqLogs: true}, failingRoutes{})

	cases := map[string]int{
		"/v1/missing":    http.StatusNotFound,
		"/v1/conflict":   http.StatusConflict,
		"/v1/transition": http.StatusConflict,
		"/v1/empty":      http.StatusUnprocessableEntity,
		"/v1/link":       http.StatusBadRequest,
		"/v1/invalid":    http.StatusBadRequest,
		"/v1/boom":       http.StatusInternalServerError,
		"/v1/teapot":     http.StatusTeapot,
		"/v1/nowhere":    http.StatusNotFound,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d (%s)", path, want, rec.Code, rec.Body.String())
		}
		body := map[string]any{}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: body is not json: %v", path, err)
		}
		if _, ok := body["error"]; !ok {
			t.Fatalf("%s: missing error key in %v", path, body)
		}
	}
}

func TestValidationErrorListsFields(t *testing.T) {
	t.Parallel()
	srv := httpapi.NewServer(httpapi.Options{DisableReqLogs: true}, failingRoutes{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/invalid", nil))

	body := struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Fields["subject"] != "subject is required" {
		t.Fatalf("unexpected fields: %v", body.Fields)
	}
}

func TestInternalErrorsHideDetails(t *testing.T) {
	t.Parallel()
	srv := httpapi.NewServer(httpapi.Options{DisableReqLogs: true}, failingRoutes{})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/boom/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after trailing slash removal, got %d", rec.Code)
	}
	if got := rec.Body.String(); got == "" || strings.Contains(got, "disk on fire") {
		t.Fatalf("internal error leaked: %s", got)
	}
}

