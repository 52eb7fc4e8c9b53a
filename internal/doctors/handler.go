package doctors

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arogyacare/appointment-api/internal/api/respond"
	"github.com/arogyacare/appointment-api/internal/apperr"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

// Handler serves the /api/doctors endpoints.
type Handler struct {
	repo   Repository
	minFee int
	logger *logging.Logger
}

// NewHandler creates a doctor directory handler. minFee is the configured
// consultation fee floor.
func NewHandler(repo Repository, minFee int, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, minFee: minFee, logger: logger}
}

// Add handles POST /api/doctors/add (admin only).
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}
	if err := req.Validate(h.minFee); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	doctor := &Doctor{
		UserID:         req.UserID,
		Name:           req.Name,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		HospitalName:   req.HospitalName,
		Phone:          req.Phone,
		Email:          req.Email,
		Fees:           req.Fees,
		AvailableSlots: req.AvailableSlots,
		IsAvailable:    true,
	}
	if err := h.repo.Create(r.Context(), doctor); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	h.logger.Info("doctor added", "doctor_id", doctor.ID, "specialization", doctor.Specialization)
	respond.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Doctor added successfully",
		"doctor":  doctor,
	})
}

// List handles GET /api/doctors.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	if list == nil {
		list = []*Doctor{}
	}
	respond.JSON(w, http.StatusOK, list)
}

// GetByID handles GET /api/doctors/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, doctor)
}
