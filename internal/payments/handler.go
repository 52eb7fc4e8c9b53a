package payments

import (
	"encoding/json"
	"net/http"

	"github.com/arogyacare/appointment-api/internal/api/respond"
	"github.com/arogyacare/appointment-api/internal/apperr"
	"github.com/arogyacare/appointment-api/internal/auth"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

// Handler serves the /api/payments endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a payments handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Process handles POST /api/payments/process (patient only).
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, h.logger, apperr.New(apperr.KindAuth, "authentication required"))
		return
	}

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}

	result, err := h.service.Process(r.Context(), identity.ID, req)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Payment successful",
		"payment":       result.Payment,
		"transactionId": result.TransactionID,
	})
}

// CreateCheckoutSession handles POST /api/payments/create-checkout-session.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, h.logger, apperr.New(apperr.KindAuth, "authentication required"))
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}

	session, err := h.service.CreateCheckoutSession(r.Context(), identity.ID, req)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sessionId": session.ID,
		"url":       session.URL,
	})
}

// History handles GET /api/payments/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, h.logger, apperr.New(apperr.KindAuth, "authentication required"))
		return
	}

	list, err := h.service.History(r.Context(), identity.ID)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	if list == nil {
		list = []*Payment{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "payments": list})
}
