package appointments

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arogyacare/appointment-api/internal/api/respond"
	"github.com/arogyacare/appointment-api/internal/apperr"
	"github.com/arogyacare/appointment-api/internal/auth"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

// Handler serves the /api/appointments endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Book handles POST /api/appointments/book (patient only).
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, h.logger, apperr.New(apperr.KindAuth, "authentication required"))
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}

	result, err := h.service.Book(r.Context(), identity.ID, req)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	message := "Appointment booked successfully"
	if !result.NotificationSent {
		message = "Appointment booked successfully; confirmation message could not be sent"
	}
	respond.JSON(w, http.StatusCreated, map[string]any{
		"success":          true,
		"message":          message,
		"appointment":      result.Appointment,
		"notificationSent": result.NotificationSent,
	})
}

// List handles GET /api/appointments/appointments, returning the caller's
// appointments with doctor details.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, h.logger, apperr.New(apperr.KindAuth, "authentication required"))
		return
	}

	list, err := h.service.ListForPatient(r.Context(), identity.ID)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "appointments": list})
}

// Cancel handles DELETE /api/appointments/{id}.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, h.logger, apperr.New(apperr.KindAuth, "authentication required"))
		return
	}

	if err := h.service.Cancel(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Appointment cancelled successfully",
	})
}
