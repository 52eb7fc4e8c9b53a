package notify

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/arogyacare/appointment-api/internal/api/respond"
	"github.com/arogyacare/appointment-api/internal/apperr"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

// Handler serves POST /api/notifications/send, the manual resend endpoint
// for admins and doctors.
type Handler struct {
	sender Sender
	logger *logging.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(sender Sender, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{sender: sender, logger: logger}
}

type sendRequest struct {
	To              string `json:"to"`
	DoctorName      string `json:"doctorName"`
	AppointmentTime string `json:"appointmentTime"`
}

// Send handles POST /api/notifications/send.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}
	if req.To == "" || req.DoctorName == "" || req.AppointmentTime == "" {
		respond.Error(w, h.logger, apperr.New(apperr.KindValidation, "missing required fields"))
		return
	}
	at, err := time.Parse(time.RFC3339, req.AppointmentTime)
	if err != nil {
		respond.Error(w, h.logger, apperr.New(apperr.KindValidation, "appointmentTime must be RFC 3339"))
		return
	}

	if err := h.sender.SendAppointmentConfirmation(r.Context(), req.To, req.DoctorName, at); err != nil {
		respond.Error(w, h.logger, apperr.Wrap(apperr.KindInternal, "notification failed", err))
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Notification sent successfully",
	})
}
