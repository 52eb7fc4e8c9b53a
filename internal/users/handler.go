package users

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/arogyacare/appointment-api/internal/api/respond"
	"github.com/arogyacare/appointment-api/internal/apperr"
	"github.com/arogyacare/appointment-api/internal/auth"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

// Handler serves the /api/auth endpoints.
type Handler struct {
	repo   Repository
	issuer *auth.TokenIssuer
	logger *logging.Logger
}

// NewHandler creates an accounts handler.
func NewHandler(repo Repository, issuer *auth.TokenIssuer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, issuer: issuer, logger: logger}
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	user := &User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		PasswordHash: string(hash),
	}
	if err := h.repo.Create(r.Context(), user); err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	respond.JSON(w, http.StatusCreated, registerResponse{
		Success: true,
		Message: "Registration successful",
		User:    user,
	})
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, h.logger, apperr.New(apperr.KindValidation, "invalid request body"))
		return
	}

	user, err := h.repo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		respond.Error(w, h.logger, ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respond.Error(w, h.logger, ErrInvalidCredentials)
		return
	}

	token, err := h.issuer.Issue(auth.Identity{ID: user.ID, Role: user.Role, Email: user.Email})
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)
	respond.JSON(w, http.StatusOK, loginResponse{Success: true, Token: token, User: user})
}

// GetUser handles GET /api/auth/user, returning the authenticated account.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respond.Error(w, h.logger, apperr.New(apperr.KindAuth, "authentication required"))
		return
	}
	user, err := h.repo.GetByID(r.Context(), identity.ID)
	if err != nil {
		respond.Error(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
