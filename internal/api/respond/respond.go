package respond

import (
	"encoding/json"
	"net/http"

	"github.com/arogyacare/appointment-api/internal/apperr"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

// JSON writes v as a JSON body with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the failure envelope shared by every endpoint.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error maps err through the apperr taxonomy and writes the failure envelope.
// Internal errors are logged with their cause; clients only see a generic
// message for those.
func Error(w http.ResponseWriter, logger *logging.Logger, err error) {
	status := apperr.Status(err)
	if logger != nil {
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", "error", err)
		} else {
			logger.Debug("request rejected", "error", err, "status", status)
		}
	}
	JSON(w, status, ErrorBody{Success: false, Message: apperr.Message(err)})
}
