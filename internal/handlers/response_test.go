package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Yanami-qaq/health-assistant/internal/apierr"
)

func recordServiceError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondServiceError(c, err)

	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec, envelope
}

func TestServiceErrorHidesWrappedCause(t *testing.T) {
	upstream := fmt.Errorf("advisor http 500: %s", `{"error":"upstream secret detail"}`)
	rec, envelope := recordServiceError(t, apierr.New(502, apierr.CodeAdvisorUnavailable, upstream))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: want=502 got=%d", rec.Code)
	}
	if envelope.Error.Code != apierr.CodeAdvisorUnavailable {
		t.Fatalf("code mismatch: got=%q", envelope.Error.Code)
	}
	if envelope.Error.Message != "advisor unavailable, please try again in a moment" {
		t.Fatalf("message mismatch: got=%q", envelope.Error.Message)
	}
	if strings.Contains(rec.Body.String(), "upstream secret detail") {
		t.Fatalf("upstream detail leaked into response body: %s", rec.Body.String())
	}
}

func TestServiceErrorPersistenceMessageIsGeneric(t *testing.T) {
	cause := errors.New(`pq: duplicate key value violates unique constraint "assessments_user_id_key"`)
	rec, envelope := recordServiceError(t, apierr.New(500, apierr.CodePersistenceFailed, cause))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d", rec.Code)
	}
	if envelope.Error.Message != "save failed, please try again" {
		t.Fatalf("message mismatch: got=%q", envelope.Error.Message)
	}
	if strings.Contains(rec.Body.String(), "duplicate key") {
		t.Fatalf("database detail leaked into response body: %s", rec.Body.String())
	}
}

func TestServiceErrorUntypedIsInternal(t *testing.T) {
	rec, envelope := recordServiceError(t, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d", rec.Code)
	}
	if envelope.Error.Code != "internal" {
		t.Fatalf("code mismatch: got=%q", envelope.Error.Code)
	}
	if envelope.Error.Message != "internal error" {
		t.Fatalf("message mismatch: got=%q", envelope.Error.Message)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("error detail leaked into response body: %s", rec.Body.String())
	}
}
