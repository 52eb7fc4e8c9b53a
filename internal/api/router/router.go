package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arogyacare/appointment-api/internal/api/respond"
	"github.com/arogyacare/appointment-api/internal/appointments"
	"github.com/arogyacare/appointment-api/internal/auth"
	"github.com/arogyacare/appointment-api/internal/doctors"
	httpmiddleware "github.com/arogyacare/appointment-api/internal/http/middleware"
	"github.com/arogyacare/appointment-api/internal/notify"
	"github.com/arogyacare/appointment-api/internal/payments"
	"github.com/arogyacare/appointment-api/internal/users"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	TokenIssuer         *auth.TokenIssuer
	UsersHandler        *users.Handler
	DoctorsHandler      *doctors.Handler
	AppointmentsHandler *appointments.Handler
	PaymentsHandler     *payments.Handler
	NotifyHandler       *notify.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// General per-IP budget; the auth endpoints get the tighter one.
	RateLimitPerSec     float64
	RateLimitBurst      int
	AuthRateLimitPerSec float64
	AuthRateLimitBurst  int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSec > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))
	}

	authenticated := auth.Authenticate(cfg.TokenIssuer, cfg.Logger)
	patientOnly := auth.RequireRoles(cfg.Logger, auth.RolePatient)
	adminOnly := auth.RequireRoles(cfg.Logger, auth.RoleAdmin)
	staffOnly := auth.RequireRoles(cfg.Logger, auth.RoleAdmin, auth.RoleDoctor)

	// Public endpoints.
	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		// Credentials endpoints carry their own tighter budget.
		if cfg.AuthRateLimitPerSec > 0 {
			r.Use(httpmiddleware.RateLimit(cfg.AuthRateLimitPerSec, cfg.AuthRateLimitBurst))
		}
		r.Post("/register", cfg.UsersHandler.Register)
		r.Post("/login", cfg.UsersHandler.Login)
		r.With(authenticated).Get("/user", cfg.UsersHandler.GetUser)
	})

	r.Route("/api/doctors", func(r chi.Router) {
		r.Get("/", cfg.DoctorsHandler.List)
		r.Get("/{id}", cfg.DoctorsHandler.GetByID)
		r.With(authenticated, adminOnly).Post("/add", cfg.DoctorsHandler.Add)
	})

	r.Route("/api/appointments", func(r chi.Router) {
		r.Use(authenticated)
		r.With(patientOnly).Post("/book", cfg.AppointmentsHandler.Book)
		r.Get("/appointments", cfg.AppointmentsHandler.List)
		r.Delete("/{id}", cfg.AppointmentsHandler.Cancel)
	})

	// Ownership of the appointment being paid for is enforced in the
	// payment service, not by role.
	r.Route("/api/payments", func(r chi.Router) {
		r.Use(authenticated)
		r.Post("/process", cfg.PaymentsHandler.Process)
		r.Post("/create-checkout-session", cfg.PaymentsHandler.CreateCheckoutSession)
		r.Get("/history", cfg.PaymentsHandler.History)
	})

	if cfg.NotifyHandler != nil {
		r.With(authenticated, staffOnly).Post("/api/notifications/send", cfg.NotifyHandler.Send)
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
