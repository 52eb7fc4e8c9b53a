package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arogyacare/appointment-api/internal/apperr"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

func TestErrorWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, logging.Default(), apperr.New(apperr.KindConflict, "slot already booked"))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Errorf("success must be false")
	}
	if body.Message != "slot already booked" {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestErrorHidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, logging.Default(), errors.New("pq: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body ErrorBody
	_ = json.NewDecoder(w.Body).Decode(&body)
	if body.Message != "internal server error" {
		t.Errorf("internal cause leaked: %q", body.Message)
	}
}
