package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/arogyacare/appointment-api/internal/api/router"
	"github.com/arogyacare/appointment-api/internal/appointments"
	"github.com/arogyacare/appointment-api/internal/auth"
	appconfig "github.com/arogyacare/appointment-api/internal/config"
	"github.com/arogyacare/appointment-api/internal/doctors"
	"github.com/arogyacare/appointment-api/internal/notify"
	"github.com/arogyacare/appointment-api/internal/observability/metrics"
	"github.com/arogyacare/appointment-api/internal/payments"
	"github.com/arogyacare/appointment-api/internal/users"
	"github.com/arogyacare/appointment-api/pkg/logging"
)

func main() {
	// Local development reads .env; deployed environments set real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting appointment API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			logger.Error("JWT_SECRET is required in production")
			os.Exit(1)
		}
		logger.Warn("JWT_SECRET not set, using insecure development secret")
		cfg.JWTSecret = "dev-only-secret"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage. Without DATABASE_URL everything runs in memory, which is
	// enough for local frontend work but loses state on restart.
	var (
		userRepo   users.Repository
		doctorRepo doctors.Repository
		apptRepo   appointments.Repository
		payRepo    payments.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		userRepo = users.NewPostgresRepository(pool)
		doctorRepo = doctors.NewPostgresRepository(pool)
		apptRepo = appointments.NewPostgresRepository(pool)
		payRepo = payments.NewPostgresRepository(pool)
		logger.Info("connected to postgres")
	} else {
		if cfg.IsProduction() {
			logger.Error("DATABASE_URL is required in production")
			os.Exit(1)
		}
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		userRepo = users.NewInMemoryRepository()
		doctorRepo = doctors.NewInMemoryRepository()
		apptRepo = appointments.NewInMemoryRepository()
		payRepo = payments.NewInMemoryRepository()
	}

	// Payment idempotency reservations live in Redis so they hold across
	// instances; a single dev instance gets the in-process fallback.
	var idemStore payments.IdempotencyStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, using in-process idempotency store", "error", err)
			idemStore = payments.NewInMemoryIdempotencyStore()
		} else {
			defer func() { _ = redisClient.Close() }()
			idemStore = payments.NewRedisIdempotencyStore(redisClient)
			logger.Info("connected to redis", "addr", cfg.RedisAddr)
		}
	} else {
		idemStore = payments.NewInMemoryIdempotencyStore()
	}

	// Outbound WhatsApp. Missing Twilio credentials degrade to a no-op
	// sender; bookings still work, confirmations are just logged.
	var sender notify.Sender = notify.NoopSender{}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioWhatsAppFrom != "" {
		sender = notify.NewTwilioWhatsAppSender(
			cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioWhatsAppFrom,
			cfg.NotificationTimeout,
			logger,
		)
		logger.Info("twilio whatsapp sender enabled")
	} else {
		logger.Warn("twilio credentials not set, confirmations disabled")
	}

	gateway := payments.NewStripeGateway(
		cfg.StripeSecretKey,
		cfg.CheckoutSuccessURL,
		cfg.CheckoutCancelURL,
		cfg.GatewayTimeout,
		logger,
	)
	if cfg.StripeSecretKey == "" {
		if cfg.IsProduction() {
			logger.Error("STRIPE_SECRET_KEY is required in production")
			os.Exit(1)
		}
		logger.Warn("STRIPE_SECRET_KEY not set, payment gateway in dry-run mode")
		gateway = gateway.WithDryRun(true)
	}

	m := metrics.NewBookingMetrics(nil)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	bookingService := appointments.NewService(apptRepo, doctorRepo, userRepo, sender, m, logger)
	paymentService := payments.NewService(payRepo, doctorRepo, userRepo, apptRepo, gateway,
		idemStore, sender, m, logger, payments.ServiceConfig{
			DefaultFeeRupees: cfg.DefaultFeeRupees,
			Currency:         cfg.Currency,
			IdempotencyTTL:   cfg.IdempotencyTTL,
			NotifyTimeout:    cfg.NotificationTimeout,
		})

	handler := router.New(&router.Config{
		Logger:              logger,
		TokenIssuer:         issuer,
		UsersHandler:        users.NewHandler(userRepo, issuer, logger),
		DoctorsHandler:      doctors.NewHandler(doctorRepo, cfg.MinFeeRupees, logger),
		AppointmentsHandler: appointments.NewHandler(bookingService, logger),
		PaymentsHandler:     payments.NewHandler(paymentService, logger),
		NotifyHandler:       notify.NewHandler(sender, logger),
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSOrigins,
		RateLimitPerSec:     cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateBurst,
		AuthRateLimitPerSec: cfg.AuthRateRPS,
		AuthRateLimitBurst:  cfg.AuthRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
