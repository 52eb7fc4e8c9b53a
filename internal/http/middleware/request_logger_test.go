package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arogyacare/appointment-api/pkg/logging"
)

func TestRequestLogger_EmitsStatusAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("info", &buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := RequestLogger(logger)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("response request id = %q", got)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line not JSON: %v: %s", err, buf.String())
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("logged status = %v", entry["status"])
	}
	if entry["request_id"] != "req-42" {
		t.Errorf("logged request_id = %v", entry["request_id"])
	}
}

func TestRequestLogger_GeneratesRequestID(t *testing.T) {
	handler := RequestLogger(nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected generated request id")
	}
}
